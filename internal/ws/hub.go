// Package ws owns the fan-out channel: an explicit registry of connected
// viewer sessions, iterated at publish time. Sessions are added on connect
// and removed on disconnect; delivery is best-effort with no replay, so late
// joiners only see new records via the initial fetch.
package ws

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/workflowlive/request-tracker/internal/api/metrics"
	"github.com/workflowlive/request-tracker/internal/core/domain"
)

const (
	// EventRecordAdded is pushed to every connected session once per
	// successfully persisted record.
	EventRecordAdded = "record_added"
	// EventNewRecord is the client-to-server asynchronous submission frame.
	EventNewRecord = "new_record"
	// EventError is sent to the submitting session only when an
	// asynchronous submission is rejected.
	EventError = "error"
)

// Frame is the wire envelope for all WebSocket traffic.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Session is a single connected viewer. Writes are serialized by the
// session's own mutex so concurrent publishes cannot interleave a frame.
type Session struct {
	ID     string
	UserID string

	mu  sync.Mutex
	enc *json.Encoder
}

// NewSession wraps a connection writer. The session id is generated here and
// used only for logging and diagnostics.
func NewSession(userID string, w io.Writer) *Session {
	return &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		enc:    json.NewEncoder(w),
	}
}

// Send writes a single frame to the session.
func (s *Session) Send(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(f)
}

// Hub is the session registry. It owns membership exclusively: handlers add
// and remove sessions, publishers iterate the registry under the hub lock so
// every subscriber observes publishes in the same relative order.
type Hub struct {
	mu       sync.Mutex
	sessions map[*Session]struct{}
	log      zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		sessions: make(map[*Session]struct{}),
		log:      log,
	}
}

// Add registers a session. It starts receiving fan-out frames immediately;
// records published before registration are not replayed.
func (h *Hub) Add(s *Session) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()

	metrics.ConnectedSessions.Inc()
	h.log.Info().Str("session_id", s.ID).Str("user_id", s.UserID).Msg("session connected")
}

// Remove deregisters a session. Safe to call for a session that was never
// added or was already removed.
func (h *Hub) Remove(s *Session) {
	h.mu.Lock()
	_, existed := h.sessions[s]
	delete(h.sessions, s)
	h.mu.Unlock()

	if existed {
		metrics.ConnectedSessions.Dec()
		h.log.Info().Str("session_id", s.ID).Str("user_id", s.UserID).Msg("session disconnected")
	}
}

// Len returns the number of registered sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Publish delivers the record to every session connected at publish time.
// Delivery failures are counted and logged, never returned: at worst one
// viewer misses a frame and catches up on its next full fetch.
func (h *Hub) Publish(_ context.Context, r *domain.Record) {
	payload, err := json.Marshal(r)
	if err != nil {
		h.log.Error().Err(err).Str("record_id", r.ID).Msg("failed to encode fan-out frame")
		return
	}
	frame := Frame{Event: EventRecordAdded, Data: payload}

	metrics.FanoutPublishedTotal.Inc()

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.sessions {
		if err := s.Send(frame); err != nil {
			metrics.FanoutDroppedTotal.Inc()
			h.log.Debug().Err(err).Str("session_id", s.ID).Msg("fan-out delivery failed")
			continue
		}
		metrics.FanoutDeliveredTotal.Inc()
	}
}

package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/workflowlive/request-tracker/internal/core/domain"
)

func testRecord(id string) *domain.Record {
	return &domain.Record{
		ID:            id,
		InitiatorName: "Ada",
		Name:          "request " + id,
		Description:   "a request",
		Type:          domain.TypeDevelopment,
		Status:        domain.StatusNew,
		Deadline:      time.Now().Add(24 * time.Hour).UTC(),
		CreatedAt:     time.Now().UTC(),
	}
}

func decodeFrames(t *testing.T, buf *bytes.Buffer) []Frame {
	t.Helper()
	var frames []Frame
	dec := json.NewDecoder(buf)
	for dec.More() {
		var f Frame
		if err := dec.Decode(&f); err != nil {
			t.Fatalf("failed to decode frame: %v", err)
		}
		frames = append(frames, f)
	}
	return frames
}

func TestHub_PublishReachesAllSessions(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	var bufA, bufB bytes.Buffer
	a := NewSession("u1", &bufA)
	b := NewSession("u2", &bufB)
	hub.Add(a)
	hub.Add(b)

	record := testRecord("r1")
	hub.Publish(context.Background(), record)

	for name, buf := range map[string]*bytes.Buffer{"a": &bufA, "b": &bufB} {
		frames := decodeFrames(t, buf)
		if len(frames) != 1 {
			t.Fatalf("session %s: expected 1 frame, got %d", name, len(frames))
		}
		if frames[0].Event != EventRecordAdded {
			t.Errorf("session %s: expected event %q, got %q", name, EventRecordAdded, frames[0].Event)
		}
		var got domain.Record
		if err := json.Unmarshal(frames[0].Data, &got); err != nil {
			t.Fatalf("session %s: bad payload: %v", name, err)
		}
		if got.ID != record.ID || got.Name != record.Name {
			t.Errorf("session %s: payload mismatch: %+v", name, got)
		}
	}
}

func TestHub_RemovedSessionStopsReceiving(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	var buf bytes.Buffer
	s := NewSession("u1", &buf)
	hub.Add(s)

	hub.Publish(context.Background(), testRecord("r1"))
	hub.Remove(s)
	hub.Publish(context.Background(), testRecord("r2"))

	frames := decodeFrames(t, &buf)
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame after removal, got %d", len(frames))
	}

	// Removing twice is a no-op.
	hub.Remove(s)
	if hub.Len() != 0 {
		t.Errorf("expected empty hub, got %d sessions", hub.Len())
	}
}

func TestHub_NoReplayForLateJoiners(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	hub.Publish(context.Background(), testRecord("r1"))

	var buf bytes.Buffer
	late := NewSession("u1", &buf)
	hub.Add(late)

	if buf.Len() != 0 {
		t.Errorf("late joiner received replayed frames: %q", buf.String())
	}
}

func TestHub_OrderPreservedPerSession(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	var buf bytes.Buffer
	s := NewSession("u1", &buf)
	hub.Add(s)

	const n = 10
	for i := 0; i < n; i++ {
		hub.Publish(context.Background(), testRecord(fmt.Sprintf("r%02d", i)))
	}

	frames := decodeFrames(t, &buf)
	if len(frames) != n {
		t.Fatalf("expected %d frames, got %d", n, len(frames))
	}
	for i, f := range frames {
		var got domain.Record
		if err := json.Unmarshal(f.Data, &got); err != nil {
			t.Fatalf("bad payload at %d: %v", i, err)
		}
		if want := fmt.Sprintf("r%02d", i); got.ID != want {
			t.Errorf("frame %d: expected record %q, got %q", i, want, got.ID)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestHub_FailingSessionDoesNotAffectOthers(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	broken := NewSession("u1", failingWriter{})
	var buf bytes.Buffer
	healthy := NewSession("u2", &buf)
	hub.Add(broken)
	hub.Add(healthy)

	hub.Publish(context.Background(), testRecord("r1"))

	frames := decodeFrames(t, &buf)
	if len(frames) != 1 {
		t.Fatalf("healthy session expected 1 frame, got %d", len(frames))
	}
}

func TestHub_Len(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	if hub.Len() != 0 {
		t.Fatalf("expected empty hub, got %d", hub.Len())
	}

	var buf bytes.Buffer
	a := NewSession("u1", &buf)
	b := NewSession("u2", &buf)
	hub.Add(a)
	hub.Add(b)
	if hub.Len() != 2 {
		t.Errorf("expected 2 sessions, got %d", hub.Len())
	}
	hub.Remove(a)
	if hub.Len() != 1 {
		t.Errorf("expected 1 session, got %d", hub.Len())
	}
}

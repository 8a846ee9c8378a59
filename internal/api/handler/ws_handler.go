package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/net/websocket"

	"github.com/workflowlive/request-tracker/internal/api/metrics"
	"github.com/workflowlive/request-tracker/internal/api/middleware"
	"github.com/workflowlive/request-tracker/internal/core/domain"
	"github.com/workflowlive/request-tracker/internal/core/ports"
	"github.com/workflowlive/request-tracker/internal/ws"
)

// WSHandler owns the /ws endpoint: it authenticates the handshake, registers
// the session with the fan-out hub, and serves the asynchronous submission
// transport ("new_record" frames). Submitters get no direct reply: the
// stored record reaches them through the "record_added" fan-out frame, and
// only rejected submissions produce an "error" frame back to the sender.
type WSHandler struct {
	service   ports.RecordService
	hub       *ws.Hub
	jwtSecret string
	log       zerolog.Logger
}

func NewWSHandler(service ports.RecordService, hub *ws.Hub, jwtSecret string, log zerolog.Logger) *WSHandler {
	return &WSHandler{service: service, hub: hub, jwtSecret: jwtSecret, log: log}
}

// Serve handles GET /ws. Browsers cannot set headers on WebSocket upgrades,
// so the token is accepted from the "token" query parameter as well as the
// Authorization header.
func (h *WSHandler) Serve(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		token = bearerToken(c.Request())
	}
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	claims, err := middleware.ParseToken(token, h.jwtSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	userID, _ := claims["id"].(string)
	role, _ := claims["role"].(string)
	if !middleware.Allowed(middleware.OpSubscribe, role) {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}

	websocket.Handler(func(conn *websocket.Conn) {
		h.handle(conn, userID, role)
	}).ServeHTTP(c.Response(), c.Request())
	return nil
}

func (h *WSHandler) handle(conn *websocket.Conn, userID, role string) {
	defer func() {
		_ = conn.Close()
	}()

	session := ws.NewSession(userID, conn)
	h.hub.Add(session)
	defer h.hub.Remove(session)

	ctx := context.Background()
	if req := conn.Request(); req != nil {
		ctx = req.Context()
	}

	decoder := json.NewDecoder(conn)
	for {
		var frame ws.Frame
		if err := decoder.Decode(&frame); err != nil {
			if !errors.Is(err, io.EOF) {
				h.log.Debug().Err(err).Str("session_id", session.ID).Msg("session read failed")
			}
			return
		}

		switch frame.Event {
		case ws.EventNewRecord:
			h.submit(ctx, session, role, frame.Data)
		default:
			h.sendError(session, "unknown event "+frame.Event)
		}
	}
}

// submit runs the asynchronous submission path. Validation and persistence
// are identical to the HTTP transport; only the reply channel differs.
func (h *WSHandler) submit(ctx context.Context, session *ws.Session, role string, data json.RawMessage) {
	if !middleware.Allowed(middleware.OpCreateRecord, role) {
		h.sendError(session, "forbidden")
		return
	}

	var req createRecordRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.sendError(session, "invalid payload")
		return
	}

	input, err := toCreateInput(req)
	if err != nil {
		metrics.ValidationFailuresTotal.WithLabelValues("ws").Inc()
		h.sendError(session, err.Error())
		return
	}

	stored, err := h.service.CreateRecord(ctx, input)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			metrics.ValidationFailuresTotal.WithLabelValues("ws").Inc()
			h.sendError(session, err.Error())
			return
		}
		h.log.Error().Err(err).Str("session_id", session.ID).Msg("async submission failed")
		h.sendError(session, "failed to add record")
		return
	}

	metrics.RecordsCreatedTotal.WithLabelValues(string(stored.Type)).Inc()
}

func (h *WSHandler) sendError(session *ws.Session, msg string) {
	payload, err := json.Marshal(wsErrorPayload{Message: msg})
	if err != nil {
		return
	}
	if err := session.Send(ws.Frame{Event: ws.EventError, Data: payload}); err != nil {
		h.log.Debug().Err(err).Str("session_id", session.ID).Msg("error frame delivery failed")
	}
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/workflowlive/request-tracker/internal/core/domain"
	"github.com/workflowlive/request-tracker/internal/ws"
)

func newWSHandler(svc *stubRecordService) *WSHandler {
	return NewWSHandler(svc, ws.NewHub(zerolog.Nop()), "test-secret", zerolog.Nop())
}

func sessionFrames(t *testing.T, buf *bytes.Buffer) []ws.Frame {
	t.Helper()
	var frames []ws.Frame
	dec := json.NewDecoder(buf)
	for dec.More() {
		var f ws.Frame
		if err := dec.Decode(&f); err != nil {
			t.Fatalf("failed to decode frame: %v", err)
		}
		frames = append(frames, f)
	}
	return frames
}

func TestWSHandler_Submit(t *testing.T) {
	svc := &stubRecordService{}
	h := newWSHandler(svc)

	var buf bytes.Buffer
	session := ws.NewSession("u1", &buf)

	payload := json.RawMessage(`{
		"initiatorName": "Ada",
		"name": "Landing page refresh",
		"description": "Update the hero section",
		"type": "Marketing",
		"product": "Website",
		"deadline": "2026-09-01T17:00:00Z"
	}`)
	h.submit(context.Background(), session, domain.RoleAdmin, payload)

	if len(svc.created) != 1 {
		t.Fatalf("expected 1 service call, got %d", len(svc.created))
	}
	// No direct reply on success: the stored record arrives via fan-out.
	if frames := sessionFrames(t, &buf); len(frames) != 0 {
		t.Errorf("expected no direct reply, got %d frames", len(frames))
	}
}

func TestWSHandler_Submit_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		role    string
		payload string
	}{
		{"user role forbidden", domain.RoleUser, `{"initiatorName":"Ada","name":"n","description":"d","type":"Design","product":"p","deadline":"2026-09-01"}`},
		{"invalid json", domain.RoleAdmin, `{"name":`},
		{"bad deadline", domain.RoleAdmin, `{"initiatorName":"Ada","name":"n","description":"d","type":"Design","product":"p","deadline":"whenever"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubRecordService{}
			h := newWSHandler(svc)

			var buf bytes.Buffer
			session := ws.NewSession("u1", &buf)

			h.submit(context.Background(), session, tc.role, json.RawMessage(tc.payload))

			if len(svc.created) != 0 {
				t.Error("rejected submission must not reach the service")
			}
			frames := sessionFrames(t, &buf)
			if len(frames) != 1 {
				t.Fatalf("expected 1 error frame, got %d", len(frames))
			}
			if frames[0].Event != ws.EventError {
				t.Errorf("expected event %q, got %q", ws.EventError, frames[0].Event)
			}
			var payload wsErrorPayload
			if err := json.Unmarshal(frames[0].Data, &payload); err != nil || payload.Message == "" {
				t.Errorf("expected an error message, got %q (err %v)", frames[0].Data, err)
			}
		})
	}
}

func TestWSHandler_Submit_ValidationErrorOnlyToSender(t *testing.T) {
	svc := &stubRecordService{createErr: domain.ErrValidation}
	h := newWSHandler(svc)

	var buf bytes.Buffer
	session := ws.NewSession("u1", &buf)

	payload := json.RawMessage(`{"initiatorName":"Ada","name":"n","description":"d","type":"Design","product":"p","deadline":"2026-09-01"}`)
	h.submit(context.Background(), session, domain.RoleSuperAdmin, payload)

	frames := sessionFrames(t, &buf)
	if len(frames) != 1 || frames[0].Event != ws.EventError {
		t.Fatalf("expected a single error frame, got %+v", frames)
	}
}

func TestWSHandler_Serve_HandshakeAuth(t *testing.T) {
	h := newWSHandler(&stubRecordService{})
	e := echo.New()

	cases := []struct {
		name   string
		target string
		code   int
	}{
		{"missing token", "/ws", http.StatusUnauthorized},
		{"garbage token", "/ws?token=not.a.token", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.Serve(c)

			var httpErr *echo.HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if httpErr.Code != tc.code {
				t.Errorf("expected status %d, got %d", tc.code, httpErr.Code)
			}
		})
	}
}

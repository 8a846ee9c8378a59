package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/workflowlive/request-tracker/internal/core/domain"
	"github.com/workflowlive/request-tracker/internal/core/ports"
)

type stubRecordService struct {
	created   []ports.CreateRecordInput
	createErr error
	listed    []ports.ListRecordsInput
	records   []domain.Record
	listErr   error
}

func (s *stubRecordService) CreateRecord(_ context.Context, input ports.CreateRecordInput) (*domain.Record, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, input)
	status := domain.StatusNew
	if input.Status != "" {
		status = domain.RecordStatus(input.Status)
	}
	return &domain.Record{
		ID:            fmt.Sprintf("rec%04d", len(s.created)),
		InitiatorName: input.InitiatorName,
		Name:          input.Name,
		Description:   input.Description,
		Type:          domain.RecordType(input.Type),
		Product:       input.Product,
		Status:        status,
		Deadline:      input.Deadline,
		AssignedTo:    input.AssignedTo,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

func (s *stubRecordService) ListRecords(_ context.Context, input ports.ListRecordsInput) ([]domain.Record, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.listed = append(s.listed, input)
	return s.records, nil
}

func newRecordContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRecordHandler_Create(t *testing.T) {
	svc := &stubRecordService{}
	h := NewRecordHandler(svc)

	body := `{
		"initiatorName": "Ada Lovelace",
		"name": "Landing page refresh",
		"description": "Update the hero section",
		"type": "Marketing",
		"product": "Website",
		"deadline": "2026-09-01T17:00:00Z"
	}`
	c, rec := newRecordContext(t, http.MethodPost, "/records", body)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp recordResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.ID == "" {
		t.Error("expected an id in the response")
	}
	if resp.Status != string(domain.StatusNew) {
		t.Errorf("expected default status %q, got %q", domain.StatusNew, resp.Status)
	}
	if resp.Priority == "" {
		t.Error("expected a derived priority in the response")
	}

	if len(svc.created) != 1 {
		t.Fatalf("expected 1 service call, got %d", len(svc.created))
	}
	want := time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC)
	if !svc.created[0].Deadline.Equal(want) {
		t.Errorf("deadline not parsed: expected %v, got %v", want, svc.created[0].Deadline)
	}
}

func TestRecordHandler_Create_BareDateDeadline(t *testing.T) {
	svc := &stubRecordService{}
	h := NewRecordHandler(svc)

	body := `{
		"initiatorName": "Ada",
		"name": "Quarterly report",
		"description": "Numbers for Q3",
		"type": "Internal",
		"product": "Ops",
		"deadline": "2026-09-15"
	}`
	c, rec := newRecordContext(t, http.MethodPost, "/records", body)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	want := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	if !svc.created[0].Deadline.Equal(want) {
		t.Errorf("expected midnight UTC deadline %v, got %v", want, svc.created[0].Deadline)
	}
}

func TestRecordHandler_Create_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"initiatorName":"Ada","description":"d","type":"Design","product":"p","deadline":"2026-09-01"}`},
		{"unknown type", `{"initiatorName":"Ada","name":"n","description":"d","type":"Bogus","product":"p","deadline":"2026-09-01"}`},
		{"unknown status", `{"initiatorName":"Ada","name":"n","description":"d","type":"Design","product":"p","status":"Archived","deadline":"2026-09-01"}`},
		{"malformed json", `{"name":`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubRecordService{}
			h := NewRecordHandler(svc)

			c, _ := newRecordContext(t, http.MethodPost, "/records", tc.body)
			err := h.Create(c)

			var httpErr *echo.HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if httpErr.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", httpErr.Code)
			}
			if len(svc.created) != 0 {
				t.Error("rejected submission must not reach the service")
			}
		})
	}
}

func TestRecordHandler_Create_BadDeadline(t *testing.T) {
	svc := &stubRecordService{}
	h := NewRecordHandler(svc)

	body := `{"initiatorName":"Ada","name":"n","description":"d","type":"Design","product":"p","deadline":"next tuesday"}`
	c, _ := newRecordContext(t, http.MethodPost, "/records", body)

	if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(svc.created) != 0 {
		t.Error("rejected submission must not reach the service")
	}
}

func TestRecordHandler_List(t *testing.T) {
	deadline := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	svc := &stubRecordService{
		records: []domain.Record{
			{ID: "r1", Name: "first", Type: domain.TypeDesign, Status: domain.StatusNew, Deadline: deadline},
			{ID: "r2", Name: "second", Type: domain.TypeInternal, Status: domain.StatusDone, Deadline: deadline.AddDate(0, 0, 7)},
		},
	}
	h := NewRecordHandler(svc)

	c, rec := newRecordContext(t, http.MethodGet, "/records", "")
	c.Set("user_id", "u1")
	c.Set("role", domain.RoleUser)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if len(svc.listed) != 1 {
		t.Fatalf("expected 1 service call, got %d", len(svc.listed))
	}
	if svc.listed[0].Role != domain.RoleUser || svc.listed[0].UserID != "u1" {
		t.Errorf("claims not forwarded: %+v", svc.listed[0])
	}

	var resp listRecordsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 records, got %d", len(resp.Data))
	}
	if resp.Data[0].ID != "r1" || resp.Data[1].ID != "r2" {
		t.Errorf("unexpected order: %q then %q", resp.Data[0].ID, resp.Data[1].ID)
	}
	for _, r := range resp.Data {
		if r.Priority == "" {
			t.Errorf("record %s missing derived priority", r.ID)
		}
	}
}

func TestRecordHandler_List_MissingClaims(t *testing.T) {
	h := NewRecordHandler(&stubRecordService{})

	c, _ := newRecordContext(t, http.MethodGet, "/records", "")
	err := h.List(c)

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", httpErr.Code)
	}
}

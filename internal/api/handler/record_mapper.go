package handler

import (
	"fmt"
	"time"

	"github.com/workflowlive/request-tracker/internal/core/domain"
	"github.com/workflowlive/request-tracker/internal/core/ports"
)

// --- Request → Service input ---

// toCreateInput maps the transport payload to the service DTO. The deadline
// string is parsed here so the service layer only ever sees a time.Time.
func toCreateInput(req createRecordRequest) (ports.CreateRecordInput, error) {
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return ports.CreateRecordInput{}, err
	}

	return ports.CreateRecordInput{
		InitiatorName: req.InitiatorName,
		Name:          req.Name,
		Description:   req.Description,
		Type:          req.Type,
		Product:       req.Product,
		Status:        req.Status,
		Deadline:      deadline,
		AssignedTo:    req.AssignedTo,
	}, nil
}

// parseDeadline accepts RFC 3339 or a bare date. A bare date means midnight UTC.
func parseDeadline(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: deadline must be RFC 3339 or YYYY-MM-DD", domain.ErrValidation)
}

// --- Service result → HTTP response ---

func toRecordResponse(r *domain.Record, now time.Time) recordResponse {
	return recordResponse{
		ID:            r.ID,
		InitiatorName: r.InitiatorName,
		Name:          r.Name,
		Description:   r.Description,
		Type:          string(r.Type),
		Product:       r.Product,
		Status:        string(r.Status),
		Deadline:      r.Deadline.UTC(),
		AssignedTo:    r.AssignedTo,
		CreatedAt:     r.CreatedAt.UTC(),
		Priority:      string(r.Priority(now)),
	}
}

func toListResponse(records []domain.Record, now time.Time) listRecordsResponse {
	items := make([]recordResponse, len(records))
	for i := range records {
		items[i] = toRecordResponse(&records[i], now)
	}
	return listRecordsResponse{Data: items}
}

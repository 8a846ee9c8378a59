package ports

import (
	"context"
	"time"

	"github.com/workflowlive/request-tracker/internal/core/domain"
)

// CreateRecordInput carries all data needed to submit a new record. Status is
// optional and defaults to "New"; AssignedTo is optional.
type CreateRecordInput struct {
	InitiatorName string
	Name          string
	Description   string
	Type          string
	Product       string
	Status        string
	Deadline      time.Time
	AssignedTo    string
}

// ListRecordsInput identifies the caller so the service can derive the
// read scope: the "user" role only sees records assigned to it.
type ListRecordsInput struct {
	Role   string
	UserID string
}

// RecordService defines the record lifecycle use cases.
type RecordService interface {
	// CreateRecord validates, persists, and fans out a new record. On a
	// validation failure nothing is persisted and no fan-out event fires.
	CreateRecord(ctx context.Context, input CreateRecordInput) (*domain.Record, error)

	// ListRecords returns the caller's role-scoped records sorted by
	// deadline ascending.
	ListRecords(ctx context.Context, input ListRecordsInput) ([]domain.Record, error)
}

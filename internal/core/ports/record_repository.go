package ports

import (
	"context"

	"github.com/workflowlive/request-tracker/internal/core/domain"
)

// RecordScope is the role-derived predicate restricting which records a
// caller may read. An empty AssignedTo means no restriction (privileged
// roles); a non-empty AssignedTo limits results to records assigned to
// that user id.
type RecordScope struct {
	AssignedTo string
}

// RecordRepository defines persistence operations for records.
type RecordRepository interface {
	// Insert persists a new record and returns the stored copy with its
	// store-assigned id. The record is not durable until Insert succeeds.
	Insert(ctx context.Context, r *domain.Record) (*domain.Record, error)

	// FindAll returns records matching scope, sorted by deadline ascending.
	FindAll(ctx context.Context, scope RecordScope) ([]domain.Record, error)
}

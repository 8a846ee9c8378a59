package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/workflowlive/request-tracker/internal/core/domain"
	"github.com/workflowlive/request-tracker/internal/core/ports"
)

// Broadcaster is the publish side of the fan-out channel. Delivery is
// best-effort: implementations never return an error to the publisher.
type Broadcaster interface {
	Publish(ctx context.Context, r *domain.Record)
}

// Notifier receives human-facing notification stubs for created records.
type Notifier interface {
	RecordCreated(r *domain.Record)
}

// RecordService implements the record lifecycle: validate, persist, fan out.
type RecordService struct {
	repo        ports.RecordRepository
	broadcaster Broadcaster
	notifier    Notifier
	logger      zerolog.Logger
}

func NewRecordService(repo ports.RecordRepository, broadcaster Broadcaster, notifier Notifier, logger zerolog.Logger) *RecordService {
	return &RecordService{repo: repo, broadcaster: broadcaster, notifier: notifier, logger: logger}
}

// CreateRecord validates the submission, persists it, and publishes the
// stored record exactly once. A validation or persistence failure means no
// fan-out event fires: a record is never broadcast unless it is durable.
func (s *RecordService) CreateRecord(ctx context.Context, input ports.CreateRecordInput) (*domain.Record, error) {
	status, err := validateCreate(input)
	if err != nil {
		return nil, err
	}

	record := &domain.Record{
		InitiatorName: input.InitiatorName,
		Name:          input.Name,
		Description:   input.Description,
		Type:          domain.RecordType(input.Type),
		Product:       input.Product,
		Status:        status,
		Deadline:      input.Deadline,
		AssignedTo:    input.AssignedTo,
		CreatedAt:     time.Now().UTC(),
	}

	stored, err := s.repo.Insert(ctx, record)
	if err != nil {
		s.logger.Error().Err(err).Str("name", input.Name).Msg("failed to persist record")
		return nil, fmt.Errorf("create record: %w", err)
	}

	s.logger.Info().
		Str("record_id", stored.ID).
		Str("type", string(stored.Type)).
		Str("initiator", stored.InitiatorName).
		Msg("record created")

	s.broadcaster.Publish(ctx, stored)
	s.notifier.RecordCreated(stored)

	return stored, nil
}

// ListRecords returns the caller's records sorted by deadline ascending. The
// "user" role is scoped to records assigned to it; admin and superadmin see
// everything.
func (s *RecordService) ListRecords(ctx context.Context, input ports.ListRecordsInput) ([]domain.Record, error) {
	var scope ports.RecordScope
	if input.Role == domain.RoleUser {
		scope.AssignedTo = input.UserID
	}

	records, err := s.repo.FindAll(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// validateCreate checks required fields and enum membership before any store
// call. It returns the effective status (defaulting to New when omitted).
func validateCreate(in ports.CreateRecordInput) (domain.RecordStatus, error) {
	switch {
	case in.InitiatorName == "":
		return "", fmt.Errorf("%w: initiatorName is required", domain.ErrValidation)
	case in.Name == "":
		return "", fmt.Errorf("%w: name is required", domain.ErrValidation)
	case in.Description == "":
		return "", fmt.Errorf("%w: description is required", domain.ErrValidation)
	case in.Type == "":
		return "", fmt.Errorf("%w: type is required", domain.ErrValidation)
	case in.Product == "":
		return "", fmt.Errorf("%w: product is required", domain.ErrValidation)
	case in.Deadline.IsZero():
		return "", fmt.Errorf("%w: deadline is required", domain.ErrValidation)
	}

	if !domain.RecordType(in.Type).Valid() {
		return "", fmt.Errorf("%w: unknown type %q", domain.ErrValidation, in.Type)
	}

	status := domain.StatusNew
	if in.Status != "" {
		status = domain.RecordStatus(in.Status)
		if !status.Valid() {
			return "", fmt.Errorf("%w: unknown status %q", domain.ErrValidation, in.Status)
		}
	}

	return status, nil
}

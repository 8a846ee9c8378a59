package domain

import (
	"errors"
	"time"
)

// RecordType is the closed set of categories a record can belong to.
type RecordType string

const (
	TypeMarketing   RecordType = "Marketing"
	TypeDevelopment RecordType = "Development"
	TypeDesign      RecordType = "Design"
	TypeInternal    RecordType = "Internal"
)

var recordTypes = map[RecordType]struct{}{
	TypeMarketing:   {},
	TypeDevelopment: {},
	TypeDesign:      {},
	TypeInternal:    {},
}

// Valid reports whether t is a member of the closed type enumeration.
func (t RecordType) Valid() bool {
	_, ok := recordTypes[t]
	return ok
}

// RecordStatus is the lifecycle state of a record. New records always start
// as StatusNew; transitions are driven by out-of-scope workflow actions.
type RecordStatus string

const (
	StatusNew        RecordStatus = "New"
	StatusInProgress RecordStatus = "In Progress"
	StatusInReview   RecordStatus = "In Review"
	StatusDone       RecordStatus = "Done"
)

var recordStatuses = map[RecordStatus]struct{}{
	StatusNew:        {},
	StatusInProgress: {},
	StatusInReview:   {},
	StatusDone:       {},
}

// Valid reports whether s is a member of the closed status enumeration.
func (s RecordStatus) Valid() bool {
	_, ok := recordStatuses[s]
	return ok
}

// Priority is the derived urgency label. It is computed at display time from
// the record's deadline and the current wall clock, and is never persisted.
type Priority string

const (
	PriorityUrgent Priority = "Urgent"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// PriorityFor classifies a deadline relative to now: Urgent when less than
// two days remain, Medium when less than seven, Low otherwise.
func PriorityFor(deadline, now time.Time) Priority {
	remaining := deadline.Sub(now)
	switch {
	case remaining < 48*time.Hour:
		return PriorityUrgent
	case remaining < 7*24*time.Hour:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

var (
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("access forbidden")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Record is the core aggregate: a project/request submission tracked by the
// dashboard. ID and CreatedAt are assigned at creation and never change.
type Record struct {
	ID            string       `json:"id" bson:"_id,omitempty"`
	InitiatorName string       `json:"initiatorName" bson:"initiator_name"`
	Name          string       `json:"name" bson:"name"`
	Description   string       `json:"description" bson:"description"`
	Type          RecordType   `json:"type" bson:"type"`
	Product       string       `json:"product" bson:"product"`
	Status        RecordStatus `json:"status" bson:"status"`
	Deadline      time.Time    `json:"deadline" bson:"deadline"`
	AssignedTo    string       `json:"assignedTo,omitempty" bson:"assigned_to,omitempty"`
	CreatedAt     time.Time    `json:"createdAt" bson:"created_at"`
}

// Priority returns the record's current urgency label.
func (r *Record) Priority(now time.Time) Priority {
	return PriorityFor(r.Deadline, now)
}

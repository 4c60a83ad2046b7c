package approval

import (
	"context"

	"github.com/google/uuid"
)

// RequestFilter defines filtering options for approval request queries
type RequestFilter struct {
	Type        *RequestType
	Status      *RequestStatus
	EntityID    *string
	RequestedBy *uuid.UUID
	Limit       int
	Offset      int
}

// Repository defines the interface for approval request persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ApprovalRequest, error)

	// FindAll lists requests matching the filter, newest first
	FindAll(ctx context.Context, filter RequestFilter) ([]ApprovalRequest, error)

	// HasPending reports whether a pending request of the given type already
	// targets the entity. Backed by a partial unique index so concurrent
	// submissions cannot both pass; Create surfaces shared.ErrAlreadyExists
	// for the loser.
	HasPending(ctx context.Context, requestType RequestType, entityID string) (bool, error)

	Create(ctx context.Context, request *ApprovalRequest) error

	// SaveDecisionIfPending persists a reviewed request only if its stored
	// status is still pending. Returns shared.ErrConcurrencyConflict when
	// another reviewer decided first.
	SaveDecisionIfPending(ctx context.Context, request *ApprovalRequest) error
}

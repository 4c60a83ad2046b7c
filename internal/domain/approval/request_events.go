package approval

import (
	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for ApprovalRequest
const AggregateTypeApprovalRequest = "ApprovalRequest"

// Event type constants for ApprovalRequest
const (
	EventTypeApprovalRequested = "ApprovalRequested"
	EventTypeApprovalDecided   = "ApprovalDecided"
)

// ApprovalRequestedEvent is raised when a pending request is submitted
type ApprovalRequestedEvent struct {
	shared.BaseDomainEvent
	RequestID   uuid.UUID   `json:"request_id"`
	RequestType RequestType `json:"request_type"`
	EntityID    string      `json:"entity_id"`
	RequestedBy uuid.UUID   `json:"requested_by"`
}

// NewApprovalRequestedEvent creates a new ApprovalRequestedEvent
func NewApprovalRequestedEvent(r *ApprovalRequest) *ApprovalRequestedEvent {
	return &ApprovalRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeApprovalRequested, AggregateTypeApprovalRequest, r.ID),
		RequestID:       r.ID,
		RequestType:     r.Type,
		EntityID:        r.EntityID,
		RequestedBy:     r.RequestedBy,
	}
}

// ApprovalDecidedEvent is raised when a reviewer approves or rejects a request
type ApprovalDecidedEvent struct {
	shared.BaseDomainEvent
	RequestID   uuid.UUID     `json:"request_id"`
	RequestType RequestType   `json:"request_type"`
	EntityID    string        `json:"entity_id"`
	Status      RequestStatus `json:"status"`
	ReviewedBy  uuid.UUID     `json:"reviewed_by"`
}

// NewApprovalDecidedEvent creates a new ApprovalDecidedEvent
func NewApprovalDecidedEvent(r *ApprovalRequest) *ApprovalDecidedEvent {
	var reviewer uuid.UUID
	if r.ReviewedBy != nil {
		reviewer = *r.ReviewedBy
	}
	return &ApprovalDecidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeApprovalDecided, AggregateTypeApprovalRequest, r.ID),
		RequestID:       r.ID,
		RequestType:     r.Type,
		EntityID:        r.EntityID,
		Status:          r.Status,
		ReviewedBy:      reviewer,
	}
}

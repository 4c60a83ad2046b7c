package approval

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RequestStatus represents the lifecycle state of an approval request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// IsValid checks if the status is a known status
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// EntityIDPending marks a create-type request whose target entity does not
// exist yet. The real entity ID is recorded when the request is applied.
const EntityIDPending = "pending"

// ApprovalRequest is the aggregate gating policy-sensitive mutations behind a
// two-party sign-off. The requester proposes a change; a second privileged
// user approves or rejects it. Requested changes and the values they replace
// are stored as serialized snapshots so the audit trail survives later edits
// to the underlying entities.
type ApprovalRequest struct {
	shared.BaseAggregateRoot
	Type             RequestType     `json:"type"`
	EntityID         string          `json:"entity_id"`
	RequestedChanges json.RawMessage `json:"requested_changes"`
	CurrentValues    json.RawMessage `json:"current_values,omitempty"`
	Reason           string          `json:"reason"`
	Status           RequestStatus   `json:"status"`
	RequestedBy      uuid.UUID       `json:"requested_by"`
	ReviewedBy       *uuid.UUID      `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time      `json:"reviewed_at,omitempty"`
	ReviewNotes      string          `json:"review_notes,omitempty"`
}

// NewApprovalRequest creates a pending request for the given change payload.
// currentValues captures the pre-change state of the target entity and may be
// nil for create-type requests.
func NewApprovalRequest(payload ChangePayload, entityID string, currentValues any, requestedBy uuid.UUID, reason string) (*ApprovalRequest, error) {
	if payload == nil {
		return nil, shared.NewDomainError("INVALID_PAYLOAD", "Requested changes are required")
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(entityID) == "" {
		return nil, shared.NewDomainError("INVALID_ENTITY_ID", "Entity ID is required")
	}
	if requestedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REQUESTER", "Requester is required")
	}

	changes, err := json.Marshal(payload)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PAYLOAD", "Requested changes could not be serialized")
	}

	var current json.RawMessage
	if currentValues != nil {
		current, err = json.Marshal(currentValues)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PAYLOAD", "Current values could not be serialized")
		}
	}

	request := &ApprovalRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              payload.RequestType(),
		EntityID:          entityID,
		RequestedChanges:  changes,
		CurrentValues:     current,
		Reason:            strings.TrimSpace(reason),
		Status:            RequestStatusPending,
		RequestedBy:       requestedBy,
	}

	request.AddDomainEvent(NewApprovalRequestedEvent(request))
	return request, nil
}

// Payload decodes the stored requested changes into the typed variant for
// this request's type.
func (r *ApprovalRequest) Payload() (ChangePayload, error) {
	return DecodePayload(r.Type, r.RequestedChanges)
}

// MarkApproved records the reviewer's sign-off. The caller is responsible for
// applying the requested change and for persisting the transition with a
// status guard so that concurrent reviews cannot both succeed.
func (r *ApprovalRequest) MarkApproved(reviewerID uuid.UUID, notes string) error {
	if err := r.ensureReviewable(reviewerID); err != nil {
		return err
	}

	now := time.Now()
	r.Status = RequestStatusApproved
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &now
	r.ReviewNotes = strings.TrimSpace(notes)
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewApprovalDecidedEvent(r))
	return nil
}

// MarkRejected records the reviewer's refusal with optional notes
func (r *ApprovalRequest) MarkRejected(reviewerID uuid.UUID, notes string) error {
	if err := r.ensureReviewable(reviewerID); err != nil {
		return err
	}

	now := time.Now()
	r.Status = RequestStatusRejected
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &now
	r.ReviewNotes = strings.TrimSpace(notes)
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewApprovalDecidedEvent(r))
	return nil
}

// SetEntityID records the identifier of an entity created by applying this
// request, replacing the pending placeholder.
func (r *ApprovalRequest) SetEntityID(entityID string) {
	r.EntityID = entityID
	r.UpdatedAt = time.Now()
}

func (r *ApprovalRequest) ensureReviewable(reviewerID uuid.UUID) error {
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_REVIEWER", "Reviewer is required")
	}
	if r.Status.IsTerminal() {
		return shared.NewDomainError("ALREADY_PROCESSED", "Request has already been processed")
	}
	if r.Status != RequestStatusPending {
		return shared.NewDomainError("INVALID_STATUS", "Request is not pending review")
	}
	return nil
}

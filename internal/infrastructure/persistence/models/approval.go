package models

import (
	"encoding/json"
	"time"

	"github.com/estatekit/backend/internal/domain/approval"
	"github.com/google/uuid"
)

// jsonColumn guards jsonb writes; the column type rejects the empty string.
func jsonColumn(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}

// ApprovalRequestModel is the persistence model for the ApprovalRequest
// aggregate root. A partial unique index on (request_type, entity_id) WHERE
// status = 'pending' (created by migration) enforces the single-pending rule.
type ApprovalRequestModel struct {
	AggregateModel
	Type             approval.RequestType   `gorm:"column:request_type;type:varchar(50);not null;index:idx_approval_type_entity"`
	EntityID         string                 `gorm:"type:varchar(100);not null;index:idx_approval_type_entity"`
	RequestedChanges string                 `gorm:"type:jsonb;not null"`
	CurrentValues    string                 `gorm:"type:jsonb"`
	Reason           string                 `gorm:"type:text"`
	Status           approval.RequestStatus `gorm:"type:varchar(20);not null;index"`
	RequestedBy      uuid.UUID              `gorm:"type:uuid;not null;index"`
	ReviewedBy       *uuid.UUID             `gorm:"type:uuid"`
	ReviewedAt       *time.Time
	ReviewNotes      string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ApprovalRequestModel) TableName() string {
	return "approval_requests"
}

// ToDomain converts the persistence model to a domain ApprovalRequest
func (m *ApprovalRequestModel) ToDomain() *approval.ApprovalRequest {
	return &approval.ApprovalRequest{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Type:              m.Type,
		EntityID:          m.EntityID,
		RequestedChanges:  json.RawMessage(m.RequestedChanges),
		CurrentValues:     json.RawMessage(m.CurrentValues),
		Reason:            m.Reason,
		Status:            m.Status,
		RequestedBy:       m.RequestedBy,
		ReviewedBy:        m.ReviewedBy,
		ReviewedAt:        m.ReviewedAt,
		ReviewNotes:       m.ReviewNotes,
	}
}

// FromDomain populates the persistence model from a domain ApprovalRequest
func (m *ApprovalRequestModel) FromDomain(r *approval.ApprovalRequest) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Type = r.Type
	m.EntityID = r.EntityID
	m.RequestedChanges = jsonColumn(r.RequestedChanges)
	m.CurrentValues = jsonColumn(r.CurrentValues)
	m.Reason = r.Reason
	m.Status = r.Status
	m.RequestedBy = r.RequestedBy
	m.ReviewedBy = r.ReviewedBy
	m.ReviewedAt = r.ReviewedAt
	m.ReviewNotes = r.ReviewNotes
}

// ApprovalRequestModelFromDomain creates a new persistence model from a domain ApprovalRequest
func ApprovalRequestModelFromDomain(r *approval.ApprovalRequest) *ApprovalRequestModel {
	m := &ApprovalRequestModel{}
	m.FromDomain(r)
	return m
}

// AuditEntryModel is the persistence model for the audit trail. Entries are
// append-only and written outside the operation's transaction.
type AuditEntryModel struct {
	BaseModel
	Action      string    `gorm:"type:varchar(100);not null;index"`
	EntityType  string    `gorm:"type:varchar(50);not null;index:idx_audit_entity"`
	EntityID    string    `gorm:"type:varchar(100);not null;index:idx_audit_entity"`
	ActorID     uuid.UUID `gorm:"type:uuid;not null;index"`
	OldValues   string    `gorm:"type:jsonb"`
	NewValues   string    `gorm:"type:jsonb"`
	Description string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}

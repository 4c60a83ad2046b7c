package service

import (
	"context"

	"github.com/google/uuid"
)

// AuditEntry describes a state-changing operation for the audit trail
type AuditEntry struct {
	Action      string
	EntityType  string
	EntityID    string
	ActorID     uuid.UUID
	OldValues   map[string]interface{}
	NewValues   map[string]interface{}
	Description string
}

// AuditLogger records audit entries after every state-changing operation.
// A failure to log must never block or roll back the operation itself.
type AuditLogger interface {
	LogAudit(ctx context.Context, entry AuditEntry)
}

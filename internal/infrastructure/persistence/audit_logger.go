package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/estatekit/backend/internal/domain/shared/service"
	"github.com/estatekit/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormAuditLogger writes audit entries to the audit_entries table. Failures
// are logged and swallowed; an audit write must never roll back the operation
// it records.
type GormAuditLogger struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormAuditLogger creates a new GormAuditLogger
func NewGormAuditLogger(db *gorm.DB, logger *zap.Logger) *GormAuditLogger {
	return &GormAuditLogger{db: db, logger: logger.Named("audit")}
}

// LogAudit records one audit entry
func (l *GormAuditLogger) LogAudit(ctx context.Context, entry service.AuditEntry) {
	now := time.Now()
	model := &models.AuditEntryModel{
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		ActorID:     entry.ActorID,
		OldValues:   marshalAuditValues(l.logger, entry.Action, "old_values", entry.OldValues),
		NewValues:   marshalAuditValues(l.logger, entry.Action, "new_values", entry.NewValues),
		Description: entry.Description,
	}
	model.ID = uuid.New()
	model.CreatedAt = now
	model.UpdatedAt = now

	if err := l.db.WithContext(ctx).Create(model).Error; err != nil {
		l.logger.Error("failed to write audit entry",
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err))
	}
}

// marshalAuditValues serialises a value map for a jsonb column. Empty maps and
// marshal failures become "{}"; the column rejects the empty string.
func marshalAuditValues(logger *zap.Logger, action, field string, values map[string]interface{}) string {
	if len(values) == 0 {
		return "{}"
	}
	data, err := json.Marshal(values)
	if err != nil {
		logger.Warn("failed to marshal audit values",
			zap.String("action", action),
			zap.String("field", field),
			zap.Error(err))
		return "{}"
	}
	return string(data)
}

// Ensure GormAuditLogger implements AuditLogger
var _ service.AuditLogger = (*GormAuditLogger)(nil)

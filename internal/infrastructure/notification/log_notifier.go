package notification

import (
	"context"

	"github.com/estatekit/backend/internal/domain/shared/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogNotifier is a Notifier that writes notifications to the application log.
// It stands in for the push/SMS gateway in development and test environments;
// deployments swap in a real gateway behind the same interface.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notification")}
}

// Notify implements service.Notifier
func (n *LogNotifier) Notify(ctx context.Context, notification service.Notification) error {
	fields := []zap.Field{
		zap.String("kind", string(notification.Kind)),
		zap.String("subject", notification.Subject),
	}
	if notification.RecipientID != uuid.Nil {
		fields = append(fields, zap.String("recipient_id", notification.RecipientID.String()))
	}
	for k, v := range notification.Metadata {
		fields = append(fields, zap.String(k, v))
	}

	n.logger.Info("Notification dispatched", fields...)
	return nil
}

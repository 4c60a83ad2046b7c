package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"
)

// RegisterDBTracing registers the otelgorm plugin so every GORM operation
// becomes a child span of the active request span. Query variables are
// excluded from spans; ledger amounts and payment references do not belong
// in trace storage.
func RegisterDBTracing(db *gorm.DB, enabled bool) error {
	if !enabled {
		return nil
	}
	return db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName("postgresql"),
		otelgorm.WithoutQueryVariables(),
	))
}

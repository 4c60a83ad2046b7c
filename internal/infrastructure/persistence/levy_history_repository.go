package persistence

import (
	"context"
	"errors"

	"github.com/estatekit/backend/internal/domain/billing"
	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLevyHistoryRepository implements LevyHistoryRepository using GORM
type GormLevyHistoryRepository struct {
	db *gorm.DB
}

// NewGormLevyHistoryRepository creates a new GormLevyHistoryRepository
func NewGormLevyHistoryRepository(db *gorm.DB) *GormLevyHistoryRepository {
	return &GormLevyHistoryRepository{db: db}
}

// Exists reports whether a levy was already applied for (house, profile)
func (r *GormLevyHistoryRepository) Exists(ctx context.Context, houseID, profileID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.HouseLevyHistoryModel{}).
		Where("house_id = ? AND billing_profile_id = ?", houseID, profileID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CommitLevy persists the levy invoice with its items and the history row in
// one transaction. The invoice is inserted first so the history's foreign key
// resolves; the unique index on (house_id, billing_profile_id) serialises
// concurrent levy runs, and the loser's rollback removes the invoice too,
// surfacing shared.ErrAlreadyExists.
func (r *GormLevyHistoryRepository) CommitLevy(ctx context.Context, invoice *billing.Invoice, history *billing.HouseLevyHistory) error {
	return r.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := txn.Create(models.InvoiceModelFromDomain(invoice)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		if err := txn.Create(models.HouseLevyHistoryModelFromDomain(history)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		return nil
	})
}

// FindByHouse lists levy applications for a house
func (r *GormLevyHistoryRepository) FindByHouse(ctx context.Context, houseID uuid.UUID) ([]billing.HouseLevyHistory, error) {
	var historyModels []models.HouseLevyHistoryModel
	if err := r.db.WithContext(ctx).
		Where("house_id = ?", houseID).
		Order("created_at ASC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}
	histories := make([]billing.HouseLevyHistory, len(historyModels))
	for i := range historyModels {
		histories[i] = *historyModels[i].ToDomain()
	}
	return histories, nil
}

// Ensure GormLevyHistoryRepository implements LevyHistoryRepository
var _ billing.LevyHistoryRepository = (*GormLevyHistoryRepository)(nil)

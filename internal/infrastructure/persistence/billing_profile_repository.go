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

// GormBillingProfileRepository implements BillingProfileRepository using GORM
type GormBillingProfileRepository struct {
	db *gorm.DB
}

// NewGormBillingProfileRepository creates a new GormBillingProfileRepository
func NewGormBillingProfileRepository(db *gorm.DB) *GormBillingProfileRepository {
	return &GormBillingProfileRepository{db: db}
}

// FindByID finds a billing profile with its items
func (r *GormBillingProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillingProfile, error) {
	var model models.BillingProfileModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveOneTime lists the active one-time profiles considered by levy runs
func (r *GormBillingProfileRepository) FindActiveOneTime(ctx context.Context) ([]billing.BillingProfile, error) {
	var profileModels []models.BillingProfileModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("active = ? AND one_time = ?", true, true).
		Order("effective_date ASC").
		Find(&profileModels).Error; err != nil {
		return nil, err
	}
	profiles := make([]billing.BillingProfile, len(profileModels))
	for i := range profileModels {
		profiles[i] = *profileModels[i].ToDomain()
	}
	return profiles, nil
}

// Save creates or updates a billing profile and its items
func (r *GormBillingProfileRepository) Save(ctx context.Context, profile *billing.BillingProfile) error {
	model := models.BillingProfileModelFromDomain(profile)
	return r.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		return txn.Save(model).Error
	})
}

// SaveWithLock updates the profile with optimistic locking (version check).
// Items are not touched here; charge lines change through Save.
func (r *GormBillingProfileRepository) SaveWithLock(ctx context.Context, profile *billing.BillingProfile) error {
	model := models.BillingProfileModelFromDomain(profile)
	result := r.db.WithContext(ctx).
		Model(&models.BillingProfileModel{}).
		Select("name", "target_type", "applicable_roles", "one_time", "is_development_levy", "effective_date", "active", "version", "updated_at").
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormBillingProfileRepository implements BillingProfileRepository
var _ billing.BillingProfileRepository = (*GormBillingProfileRepository)(nil)

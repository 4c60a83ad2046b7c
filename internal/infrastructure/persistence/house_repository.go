package persistence

import (
	"context"
	"errors"

	"github.com/estatekit/backend/internal/domain/estate"
	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormHouseRepository implements HouseRepository using GORM
type GormHouseRepository struct {
	db *gorm.DB
}

// NewGormHouseRepository creates a new GormHouseRepository
func NewGormHouseRepository(db *gorm.DB) *GormHouseRepository {
	return &GormHouseRepository{db: db}
}

// FindByID finds a house by ID
func (r *GormHouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*estate.House, error) {
	var model models.HouseModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive lists the active houses a levy run iterates over
func (r *GormHouseRepository) FindActive(ctx context.Context) ([]estate.House, error) {
	var houseModels []models.HouseModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("house_number ASC").
		Find(&houseModels).Error; err != nil {
		return nil, err
	}
	houses := make([]estate.House, len(houseModels))
	for i := range houseModels {
		houses[i] = *houseModels[i].ToDomain()
	}
	return houses, nil
}

// Save creates or updates a house
func (r *GormHouseRepository) Save(ctx context.Context, house *estate.House) error {
	model := models.HouseModelFromDomain(house)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock updates the house with optimistic locking (version check)
func (r *GormHouseRepository) SaveWithLock(ctx context.Context, house *estate.House) error {
	model := models.HouseModelFromDomain(house)
	result := r.db.WithContext(ctx).
		Model(&models.HouseModel{}).
		Select("house_number", "street", "plot_count", "active", "version", "updated_at").
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

// Ensure GormHouseRepository implements HouseRepository
var _ estate.HouseRepository = (*GormHouseRepository)(nil)

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

// GormResidentRepository implements ResidentRepository using GORM
type GormResidentRepository struct {
	db *gorm.DB
}

// NewGormResidentRepository creates a new GormResidentRepository
func NewGormResidentRepository(db *gorm.DB) *GormResidentRepository {
	return &GormResidentRepository{db: db}
}

// FindByID finds a resident by ID
func (r *GormResidentRepository) FindByID(ctx context.Context, id uuid.UUID) (*estate.Resident, error) {
	var model models.ResidentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a resident
func (r *GormResidentRepository) Save(ctx context.Context, resident *estate.Resident) error {
	model := models.ResidentModelFromDomain(resident)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormResidentRepository implements ResidentRepository
var _ estate.ResidentRepository = (*GormResidentRepository)(nil)

// GormResidentHouseRepository implements ResidentHouseRepository using GORM
type GormResidentHouseRepository struct {
	db *gorm.DB
}

// NewGormResidentHouseRepository creates a new GormResidentHouseRepository
func NewGormResidentHouseRepository(db *gorm.DB) *GormResidentHouseRepository {
	return &GormResidentHouseRepository{db: db}
}

// FindActiveByHouse lists the active role assignments for a house
func (r *GormResidentHouseRepository) FindActiveByHouse(ctx context.Context, houseID uuid.UUID) ([]estate.ResidentHouse, error) {
	return r.findActive(ctx, "house_id = ?", houseID)
}

// FindActiveByResident lists the active role assignments for a resident
func (r *GormResidentHouseRepository) FindActiveByResident(ctx context.Context, residentID uuid.UUID) ([]estate.ResidentHouse, error) {
	return r.findActive(ctx, "resident_id = ?", residentID)
}

func (r *GormResidentHouseRepository) findActive(ctx context.Context, condition string, id uuid.UUID) ([]estate.ResidentHouse, error) {
	var assignmentModels []models.ResidentHouseModel
	if err := r.db.WithContext(ctx).
		Where(condition, id).
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&assignmentModels).Error; err != nil {
		return nil, err
	}
	assignments := make([]estate.ResidentHouse, len(assignmentModels))
	for i := range assignmentModels {
		assignments[i] = *assignmentModels[i].ToDomain()
	}
	return assignments, nil
}

// Save creates or updates a role assignment
func (r *GormResidentHouseRepository) Save(ctx context.Context, assignment *estate.ResidentHouse) error {
	model := models.ResidentHouseModelFromDomain(assignment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormResidentHouseRepository implements ResidentHouseRepository
var _ estate.ResidentHouseRepository = (*GormResidentHouseRepository)(nil)

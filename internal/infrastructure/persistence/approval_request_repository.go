package persistence

import (
	"context"
	"errors"

	"github.com/estatekit/backend/internal/domain/approval"
	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormApprovalRequestRepository implements approval.Repository using GORM
type GormApprovalRequestRepository struct {
	db *gorm.DB
}

// NewGormApprovalRequestRepository creates a new GormApprovalRequestRepository
func NewGormApprovalRequestRepository(db *gorm.DB) *GormApprovalRequestRepository {
	return &GormApprovalRequestRepository{db: db}
}

// FindByID finds an approval request by ID
func (r *GormApprovalRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*approval.ApprovalRequest, error) {
	var model models.ApprovalRequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists requests matching the filter, newest first
func (r *GormApprovalRequestRepository) FindAll(ctx context.Context, filter approval.RequestFilter) ([]approval.ApprovalRequest, error) {
	var requestModels []models.ApprovalRequestModel

	query := r.db.WithContext(ctx)

	if filter.Type != nil {
		query = query.Where("request_type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.RequestedBy != nil {
		query = query.Where("requested_by = ?", *filter.RequestedBy)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Order("created_at DESC").Find(&requestModels).Error; err != nil {
		return nil, err
	}

	requests := make([]approval.ApprovalRequest, len(requestModels))
	for i := range requestModels {
		requests[i] = *requestModels[i].ToDomain()
	}
	return requests, nil
}

// HasPending reports whether a pending request of the given type already targets the entity
func (r *GormApprovalRequestRepository) HasPending(ctx context.Context, requestType approval.RequestType, entityID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ApprovalRequestModel{}).
		Where("request_type = ? AND entity_id = ? AND status = ?", requestType, entityID, approval.RequestStatusPending).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new approval request. The partial unique index on
// (request_type, entity_id) WHERE status = 'pending' catches the race two
// concurrent submissions open; the loser gets shared.ErrAlreadyExists.
func (r *GormApprovalRequestRepository) Create(ctx context.Context, request *approval.ApprovalRequest) error {
	model := models.ApprovalRequestModelFromDomain(request)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveDecisionIfPending persists a reviewed request only if its stored status
// is still pending. Two reviewers racing on the same request resolve here:
// the second update matches zero rows. The entity_id column is part of the
// update set because approving a create request replaces the placeholder
// entity_id with the ID of the entity created on approval.
func (r *GormApprovalRequestRepository) SaveDecisionIfPending(ctx context.Context, request *approval.ApprovalRequest) error {
	model := models.ApprovalRequestModelFromDomain(request)
	result := r.db.WithContext(ctx).
		Model(&models.ApprovalRequestModel{}).
		Select("status", "reviewed_by", "reviewed_at", "review_notes", "entity_id", "version", "updated_at").
		Where("id = ? AND status = ?", model.ID, approval.RequestStatusPending).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormApprovalRequestRepository implements approval.Repository
var _ approval.Repository = (*GormApprovalRequestRepository)(nil)

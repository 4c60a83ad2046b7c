package persistence

import (
	"context"

	"github.com/estatekit/backend/internal/domain/ledger"
	"github.com/estatekit/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWalletTransactionRepository implements WalletTransactionRepository using GORM
type GormWalletTransactionRepository struct {
	db *gorm.DB
}

// NewGormWalletTransactionRepository creates a new GormWalletTransactionRepository
func NewGormWalletTransactionRepository(db *gorm.DB) *GormWalletTransactionRepository {
	return &GormWalletTransactionRepository{db: db}
}

// Create appends a transaction to the ledger
func (r *GormWalletTransactionRepository) Create(ctx context.Context, tx *ledger.WalletTransaction) error {
	model := models.WalletTransactionModelFromDomain(tx)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByResident lists a resident's transactions in creation order
func (r *GormWalletTransactionRepository) FindByResident(ctx context.Context, residentID uuid.UUID, filter ledger.WalletTransactionFilter) ([]ledger.WalletTransaction, error) {
	var transactionModels []models.WalletTransactionModel

	query := r.db.WithContext(ctx).
		Where("resident_id = ?", residentID)

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Reason != nil {
		query = query.Where("reason = ?", *filter.Reason)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Order("created_at ASC").Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]ledger.WalletTransaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = *transactionModels[i].ToDomain()
	}
	return transactions, nil
}

// CountByResident counts a resident's transactions
func (r *GormWalletTransactionRepository) CountByResident(ctx context.Context, residentID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WalletTransactionModel{}).
		Where("resident_id = ?", residentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormWalletTransactionRepository implements WalletTransactionRepository
var _ ledger.WalletTransactionRepository = (*GormWalletTransactionRepository)(nil)

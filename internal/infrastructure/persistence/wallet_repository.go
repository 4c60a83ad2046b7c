package persistence

import (
	"context"
	"errors"

	"github.com/estatekit/backend/internal/domain/ledger"
	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWalletRepository implements WalletRepository using GORM
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a new GormWalletRepository
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// FindByResident finds a resident's wallet
func (r *GormWalletRepository) FindByResident(ctx context.Context, residentID uuid.UUID) (*ledger.Wallet, error) {
	var model models.WalletModel
	if err := r.db.WithContext(ctx).
		Where("resident_id = ?", residentID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a wallet
func (r *GormWalletRepository) Save(ctx context.Context, wallet *ledger.Wallet) error {
	model := models.WalletModelFromDomain(wallet)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves the wallet with optimistic locking (version check).
// Concurrent debits that together exceed the balance are serialised here.
func (r *GormWalletRepository) SaveWithLock(ctx context.Context, wallet *ledger.Wallet) error {
	return saveWalletWithLock(r.db.WithContext(ctx), wallet)
}

// saveWalletWithLock runs the version-checked wallet update on the given
// handle so the allocation repository can reuse it inside a transaction.
func saveWalletWithLock(db *gorm.DB, wallet *ledger.Wallet) error {
	model := models.WalletModelFromDomain(wallet)
	// Select forces zero values through; a sweep can drain the balance to zero.
	result := db.
		Model(model).
		Select("balance", "version", "updated_at").
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

// Ensure GormWalletRepository implements WalletRepository
var _ ledger.WalletRepository = (*GormWalletRepository)(nil)

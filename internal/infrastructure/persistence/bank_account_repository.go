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

// GormBankAccountRepository implements BankAccountRepository using GORM
type GormBankAccountRepository struct {
	db *gorm.DB
}

// NewGormBankAccountRepository creates a new GormBankAccountRepository
func NewGormBankAccountRepository(db *gorm.DB) *GormBankAccountRepository {
	return &GormBankAccountRepository{db: db}
}

// FindByID finds a bank account by ID
func (r *GormBankAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*estate.BankAccount, error) {
	var model models.BankAccountModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists all bank accounts
func (r *GormBankAccountRepository) FindAll(ctx context.Context) ([]estate.BankAccount, error) {
	var accountModels []models.BankAccountModel
	if err := r.db.WithContext(ctx).
		Order("bank_name ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]estate.BankAccount, len(accountModels))
	for i := range accountModels {
		accounts[i] = *accountModels[i].ToDomain()
	}
	return accounts, nil
}

// Save creates or updates a bank account
func (r *GormBankAccountRepository) Save(ctx context.Context, account *estate.BankAccount) error {
	model := models.BankAccountModelFromDomain(account)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a bank account
func (r *GormBankAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.BankAccountModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormBankAccountRepository implements BankAccountRepository
var _ estate.BankAccountRepository = (*GormBankAccountRepository)(nil)

package persistence

import (
	"context"

	"github.com/estatekit/backend/internal/domain/billing"
	"github.com/estatekit/backend/internal/domain/ledger"
	"github.com/estatekit/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAllocationRepository implements AllocationRepository using GORM
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// CommitAllocation persists one wallet-to-invoice allocation atomically: the
// wallet debit, the ledger entry, and the invoice payment commit together or
// not at all. Either version check failing rolls the whole allocation back.
func (r *GormAllocationRepository) CommitAllocation(ctx context.Context, wallet *ledger.Wallet, tx *ledger.WalletTransaction, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := saveWalletWithLock(txn, wallet); err != nil {
			return err
		}
		if err := txn.Create(models.WalletTransactionModelFromDomain(tx)).Error; err != nil {
			return err
		}
		return saveInvoiceWithLock(txn, invoice)
	})
}

// CommitWalletEntry persists a plain credit or debit atomically: the
// version-checked balance update and the ledger entry insert commit together
// or roll back together.
func (r *GormAllocationRepository) CommitWalletEntry(ctx context.Context, wallet *ledger.Wallet, tx *ledger.WalletTransaction) error {
	return r.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := saveWalletWithLock(txn, wallet); err != nil {
			return err
		}
		return txn.Create(models.WalletTransactionModelFromDomain(tx)).Error
	})
}

// Ensure GormAllocationRepository implements AllocationRepository
var _ ledger.AllocationRepository = (*GormAllocationRepository)(nil)

package models

import (
	"github.com/estatekit/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletModel is the persistence model for the Wallet aggregate root.
type WalletModel struct {
	AggregateModel
	ResidentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Balance    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (WalletModel) TableName() string {
	return "wallets"
}

// ToDomain converts the persistence model to a domain Wallet
func (m *WalletModel) ToDomain() *ledger.Wallet {
	return &ledger.Wallet{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ResidentID:        m.ResidentID,
		Balance:           m.Balance,
	}
}

// FromDomain populates the persistence model from a domain Wallet
func (m *WalletModel) FromDomain(w *ledger.Wallet) {
	m.FromDomainAggregateRoot(w.BaseAggregateRoot)
	m.ResidentID = w.ResidentID
	m.Balance = w.Balance
}

// WalletModelFromDomain creates a new persistence model from a domain Wallet
func WalletModelFromDomain(w *ledger.Wallet) *WalletModel {
	m := &WalletModel{}
	m.FromDomain(w)
	return m
}

// WalletTransactionModel is the persistence model for the append-only wallet ledger.
type WalletTransactionModel struct {
	BaseModel
	ResidentID  uuid.UUID                `gorm:"type:uuid;not null;index"`
	Type        ledger.TransactionType   `gorm:"type:varchar(10);not null"`
	Amount      decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	Reason      ledger.TransactionReason `gorm:"type:varchar(20);not null;index"`
	ReferenceID *uuid.UUID               `gorm:"type:uuid;index"`
	Description string                   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (WalletTransactionModel) TableName() string {
	return "wallet_transactions"
}

// ToDomain converts the persistence model to a domain WalletTransaction
func (m *WalletTransactionModel) ToDomain() *ledger.WalletTransaction {
	return &ledger.WalletTransaction{
		BaseEntity:  m.BaseModel.ToDomain(),
		ResidentID:  m.ResidentID,
		Type:        m.Type,
		Amount:      m.Amount,
		Reason:      m.Reason,
		ReferenceID: m.ReferenceID,
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain WalletTransaction
func (m *WalletTransactionModel) FromDomain(tx *ledger.WalletTransaction) {
	m.FromDomainBaseEntity(tx.BaseEntity)
	m.ResidentID = tx.ResidentID
	m.Type = tx.Type
	m.Amount = tx.Amount
	m.Reason = tx.Reason
	m.ReferenceID = tx.ReferenceID
	m.Description = tx.Description
}

// WalletTransactionModelFromDomain creates a new persistence model from a domain WalletTransaction
func WalletTransactionModelFromDomain(tx *ledger.WalletTransaction) *WalletTransactionModel {
	m := &WalletTransactionModel{}
	m.FromDomain(tx)
	return m
}

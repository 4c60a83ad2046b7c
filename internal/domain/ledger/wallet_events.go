package ledger

import (
	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Wallet
const AggregateTypeWallet = "Wallet"

// Event type constants for Wallet
const (
	EventTypeWalletCreated  = "WalletCreated"
	EventTypeWalletCredited = "WalletCredited"
	EventTypeWalletDebited  = "WalletDebited"
)

// WalletCreatedEvent is raised when a wallet is lazily created for a resident
type WalletCreatedEvent struct {
	shared.BaseDomainEvent
	WalletID   uuid.UUID `json:"wallet_id"`
	ResidentID uuid.UUID `json:"resident_id"`
}

// NewWalletCreatedEvent creates a new WalletCreatedEvent
func NewWalletCreatedEvent(w *Wallet) *WalletCreatedEvent {
	return &WalletCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWalletCreated, AggregateTypeWallet, w.ID),
		WalletID:        w.ID,
		ResidentID:      w.ResidentID,
	}
}

// WalletCreditedEvent is raised when a credit transaction is appended
type WalletCreditedEvent struct {
	shared.BaseDomainEvent
	WalletID      uuid.UUID         `json:"wallet_id"`
	ResidentID    uuid.UUID         `json:"resident_id"`
	TransactionID uuid.UUID         `json:"transaction_id"`
	Amount        decimal.Decimal   `json:"amount"`
	Reason        TransactionReason `json:"reason"`
	ReferenceID   *uuid.UUID        `json:"reference_id,omitempty"`
	BalanceAfter  decimal.Decimal   `json:"balance_after"`
}

// NewWalletCreditedEvent creates a new WalletCreditedEvent
func NewWalletCreditedEvent(w *Wallet, tx *WalletTransaction) *WalletCreditedEvent {
	return &WalletCreditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWalletCredited, AggregateTypeWallet, w.ID),
		WalletID:        w.ID,
		ResidentID:      w.ResidentID,
		TransactionID:   tx.ID,
		Amount:          tx.Amount,
		Reason:          tx.Reason,
		ReferenceID:     tx.ReferenceID,
		BalanceAfter:    w.Balance,
	}
}

// WalletDebitedEvent is raised when a debit transaction is appended
type WalletDebitedEvent struct {
	shared.BaseDomainEvent
	WalletID      uuid.UUID         `json:"wallet_id"`
	ResidentID    uuid.UUID         `json:"resident_id"`
	TransactionID uuid.UUID         `json:"transaction_id"`
	Amount        decimal.Decimal   `json:"amount"`
	Reason        TransactionReason `json:"reason"`
	ReferenceID   *uuid.UUID        `json:"reference_id,omitempty"`
	BalanceAfter  decimal.Decimal   `json:"balance_after"`
}

// NewWalletDebitedEvent creates a new WalletDebitedEvent
func NewWalletDebitedEvent(w *Wallet, tx *WalletTransaction) *WalletDebitedEvent {
	return &WalletDebitedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWalletDebited, AggregateTypeWallet, w.ID),
		WalletID:        w.ID,
		ResidentID:      w.ResidentID,
		TransactionID:   tx.ID,
		Amount:          tx.Amount,
		Reason:          tx.Reason,
		ReferenceID:     tx.ReferenceID,
		BalanceAfter:    w.Balance,
	}
}

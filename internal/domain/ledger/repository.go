package ledger

import (
	"context"
	"time"

	"github.com/estatekit/backend/internal/domain/billing"
	"github.com/google/uuid"
)

// WalletTransactionFilter defines filtering options for wallet statement queries
type WalletTransactionFilter struct {
	Type     *TransactionType
	Reason   *TransactionReason
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// WalletRepository defines the interface for wallet persistence
type WalletRepository interface {
	// FindByResident finds a resident's wallet; returns shared.ErrNotFound when absent
	FindByResident(ctx context.Context, residentID uuid.UUID) (*Wallet, error)

	// Save creates or updates a wallet
	Save(ctx context.Context, wallet *Wallet) error

	// SaveWithLock saves the wallet with optimistic locking (version check).
	// Concurrent debits that together exceed the balance are serialised here.
	SaveWithLock(ctx context.Context, wallet *Wallet) error
}

// AllocationRepository persists one wallet-to-invoice allocation atomically:
// the invoice payment, the wallet debit, and the ledger entry commit together
// or not at all. Each allocation in a sweep is its own commit, so a failure
// part-way keeps the allocations already made.
type AllocationRepository interface {
	CommitAllocation(ctx context.Context, wallet *Wallet, tx *WalletTransaction, invoice *billing.Invoice) error

	// CommitWalletEntry persists a plain credit or debit atomically: the
	// balance update and the ledger entry commit together or not at all, so
	// the balance always equals the sum of the recorded transactions.
	CommitWalletEntry(ctx context.Context, wallet *Wallet, tx *WalletTransaction) error
}

// WalletTransactionRepository defines the interface for the append-only transaction log
type WalletTransactionRepository interface {
	// Create appends a transaction to the ledger
	Create(ctx context.Context, tx *WalletTransaction) error

	// FindByResident lists a resident's transactions in creation order
	FindByResident(ctx context.Context, residentID uuid.UUID, filter WalletTransactionFilter) ([]WalletTransaction, error)

	// CountByResident counts a resident's transactions
	CountByResident(ctx context.Context, residentID uuid.UUID) (int64, error)
}

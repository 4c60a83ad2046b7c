package ledger

import (
	"fmt"
	"time"

	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType distinguishes the direction of a wallet transaction
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

// TransactionReason categorises why a wallet transaction was made
type TransactionReason string

const (
	ReasonPayment    TransactionReason = "payment"
	ReasonAdjustment TransactionReason = "adjustment"
	ReasonRefund     TransactionReason = "refund"
	ReasonPenalty    TransactionReason = "penalty"
	ReasonCorrection TransactionReason = "correction"
	ReasonOther      TransactionReason = "other"
)

// IsValid checks if the reason is a known reason code
func (r TransactionReason) IsValid() bool {
	switch r {
	case ReasonPayment, ReasonAdjustment, ReasonRefund, ReasonPenalty, ReasonCorrection, ReasonOther:
		return true
	}
	return false
}

// WalletTransaction is an immutable entry in a resident's wallet ledger.
// Entries are never edited or removed, only offset by a later transaction.
type WalletTransaction struct {
	shared.BaseEntity
	ResidentID  uuid.UUID         `json:"resident_id"`
	Type        TransactionType   `json:"type"`
	Amount      decimal.Decimal   `json:"amount"`
	Reason      TransactionReason `json:"reason"`
	ReferenceID *uuid.UUID        `json:"reference_id,omitempty"`
	Description string            `json:"description"`
}

// GetAmountMoney returns the transaction amount as Money
func (t *WalletTransaction) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(t.Amount)
}

// SignedAmount returns the amount with the ledger sign applied (debits negative)
func (t *WalletTransaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Wallet is a resident's single running balance aggregate.
// The balance always equals the sum of all ledger entries for that resident.
// A wallet is created lazily on the first credit or debit and never deleted.
type Wallet struct {
	shared.BaseAggregateRoot
	ResidentID uuid.UUID       `json:"resident_id"`
	Balance    decimal.Decimal `json:"balance"`
}

// NewWallet creates an empty wallet for a resident
func NewWallet(residentID uuid.UUID) (*Wallet, error) {
	if residentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESIDENT", "Resident ID cannot be empty")
	}

	w := &Wallet{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ResidentID:        residentID,
		Balance:           decimal.Zero,
	}

	w.AddDomainEvent(NewWalletCreatedEvent(w))

	return w, nil
}

// Credit appends a credit transaction and increases the balance.
// Credits have no upper bound and never fail on the balance.
func (w *Wallet) Credit(amount valueobject.Money, reason TransactionReason, referenceID *uuid.UUID, description string) (*WalletTransaction, error) {
	tx, err := w.newTransaction(TransactionTypeCredit, amount, reason, referenceID, description)
	if err != nil {
		return nil, err
	}

	w.Balance = w.Balance.Add(amount.Amount())
	w.touch()
	w.AddDomainEvent(NewWalletCreditedEvent(w, tx))

	return tx, nil
}

// Debit appends a debit transaction and decreases the balance.
// Fails with INSUFFICIENT_FUNDS when the amount exceeds the current balance.
func (w *Wallet) Debit(amount valueobject.Money, reason TransactionReason, referenceID *uuid.UUID, description string) (*WalletTransaction, error) {
	if amount.Amount().GreaterThan(w.Balance) {
		return nil, shared.NewDomainError("INSUFFICIENT_FUNDS",
			fmt.Sprintf("Debit of %s exceeds wallet balance %s", amount.StringFixed(2), w.Balance.StringFixed(2)))
	}

	tx, err := w.newTransaction(TransactionTypeDebit, amount, reason, referenceID, description)
	if err != nil {
		return nil, err
	}

	w.Balance = w.Balance.Sub(amount.Amount())
	w.touch()
	w.AddDomainEvent(NewWalletDebitedEvent(w, tx))

	return tx, nil
}

// GetBalanceMoney returns the balance as Money
func (w *Wallet) GetBalanceMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(w.Balance)
}

// HasFunds returns true if the balance is positive
func (w *Wallet) HasFunds() bool {
	return w.Balance.IsPositive()
}

func (w *Wallet) newTransaction(txType TransactionType, amount valueobject.Money, reason TransactionReason, referenceID *uuid.UUID, description string) (*WalletTransaction, error) {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be positive")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", fmt.Sprintf("Unknown transaction reason %q", reason))
	}

	return &WalletTransaction{
		BaseEntity:  shared.NewBaseEntity(),
		ResidentID:  w.ResidentID,
		Type:        txType,
		Amount:      amount.Amount(),
		Reason:      reason,
		ReferenceID: referenceID,
		Description: description,
	}, nil
}

func (w *Wallet) touch() {
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

package estate

import (
	"strings"
	"time"

	"github.com/estatekit/backend/internal/domain/shared"
)

// BankAccount is an estate payout account. Creating, updating and deleting
// accounts are policy-sensitive mutations reached only through the approval
// workflow.
type BankAccount struct {
	shared.BaseAggregateRoot
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	Active        bool   `json:"active"`
}

// NewBankAccount creates a new bank account
func NewBankAccount(bankName, accountName, accountNumber string) (*BankAccount, error) {
	if strings.TrimSpace(bankName) == "" {
		return nil, shared.NewDomainError("INVALID_BANK_NAME", "Bank name cannot be empty")
	}
	if strings.TrimSpace(accountName) == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if len(strings.TrimSpace(accountNumber)) < 10 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number must be at least 10 digits")
	}

	return &BankAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BankName:          bankName,
		AccountName:       accountName,
		AccountNumber:     accountNumber,
		Active:            true,
	}, nil
}

// Update changes the account details
func (b *BankAccount) Update(bankName, accountName, accountNumber string) error {
	if strings.TrimSpace(bankName) == "" {
		return shared.NewDomainError("INVALID_BANK_NAME", "Bank name cannot be empty")
	}
	if strings.TrimSpace(accountName) == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if len(strings.TrimSpace(accountNumber)) < 10 {
		return shared.NewDomainError("INVALID_ACCOUNT_NUMBER", "Account number must be at least 10 digits")
	}

	b.BankName = bankName
	b.AccountName = accountName
	b.AccountNumber = accountNumber
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

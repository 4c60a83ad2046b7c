package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditWalletRequest represents a wallet credit submission. When house_id is
// set, the new balance is swept against that house's outstanding invoices.
type CreditWalletRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Reason      string          `json:"reason" binding:"required,oneof=payment adjustment refund penalty correction other"`
	HouseID     *string         `json:"house_id" binding:"omitempty,uuid"`
	ReferenceID *string         `json:"reference_id" binding:"omitempty,uuid"`
	Description string          `json:"description" binding:"max=500"`
}

// DebitWalletRequest represents a wallet debit submission
type DebitWalletRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Reason      string          `json:"reason" binding:"required,oneof=payment adjustment refund penalty correction other"`
	ReferenceID *string         `json:"reference_id" binding:"omitempty,uuid"`
	Description string          `json:"description" binding:"max=500"`
}

// AllocateWalletRequest asks for a sweep of the wallet against a house's
// outstanding invoices.
type AllocateWalletRequest struct {
	HouseID string `json:"house_id" binding:"required,uuid"`
}

// StatementQuery filters a wallet statement listing
type StatementQuery struct {
	ListRequest
	Type     string     `form:"type" binding:"omitempty,oneof=credit debit"`
	Reason   string     `form:"reason" binding:"omitempty,oneof=payment adjustment refund penalty correction other"`
	FromDate *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"to_date" time_format:"2006-01-02"`
}

// ResidentIDRequest represents a request keyed by resident ID
type ResidentIDRequest struct {
	ResidentID string `uri:"residentId" binding:"required,uuid"`
}

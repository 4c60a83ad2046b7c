package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest represents one billed line in an invoice submission
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required,min=3,max=500"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// CreateInvoiceRequest represents an invoice submission
type CreateInvoiceRequest struct {
	ResidentID       string               `json:"resident_id" binding:"required,uuid"`
	HouseID          string               `json:"house_id" binding:"required,uuid"`
	BillingProfileID *string              `json:"billing_profile_id" binding:"omitempty,uuid"`
	Items            []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	DueDate          time.Time            `json:"due_date" binding:"required"`
}

// VoidInvoiceRequest represents a request to void an unpaid invoice
type VoidInvoiceRequest struct {
	Reason string `json:"reason" binding:"required,min=10,max=500"`
}

// InvoiceListQuery filters an invoice listing
type InvoiceListQuery struct {
	ListRequest
	ResidentID string     `form:"resident_id" binding:"omitempty,uuid"`
	HouseID    string     `form:"house_id" binding:"omitempty,uuid"`
	Status     string     `form:"status" binding:"omitempty,oneof=unpaid partially_paid paid void"`
	Type       string     `form:"type" binding:"omitempty,oneof=REGULAR LEVY CORRECTION"`
	DueFrom    *time.Time `form:"due_from" time_format:"2006-01-02"`
	DueTo      *time.Time `form:"due_to" time_format:"2006-01-02"`
}

// OutstandingInvoicesQuery targets the outstanding listing at one resident
// and house pair, oldest due first.
type OutstandingInvoicesQuery struct {
	ResidentID string `form:"resident_id" binding:"required,uuid"`
	HouseID    string `form:"house_id" binding:"required,uuid"`
}

// CorrectionEntryRequest represents one credit or debit note in a correction
type CorrectionEntryRequest struct {
	Type        string          `json:"type" binding:"required,oneof=credit debit"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Description string          `json:"description" binding:"required,min=3,max=500"`
}

// CreateCorrectionRequest represents a balanced correction batch submission
type CreateCorrectionRequest struct {
	Entries []CorrectionEntryRequest `json:"entries" binding:"required,min=1,dive"`
	Reason  string                   `json:"reason" binding:"required,min=10,max=500"`
}

// ReversePaymentRequest asks for an applied payment to be credited back to the
// resident's wallet.
type ReversePaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// GenerateLeviesRequest targets a levy run at one house
type GenerateLeviesRequest struct {
	HouseID string `json:"house_id" binding:"required,uuid"`
}

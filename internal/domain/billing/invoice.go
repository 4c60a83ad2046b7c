package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusUnpaid        InvoiceStatus = "unpaid"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusVoid          InvoiceStatus = "void"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusVoid:
		return true
	}
	return false
}

// IsOutstanding returns true if the invoice can still receive payments
func (s InvoiceStatus) IsOutstanding() bool {
	return s == InvoiceStatusUnpaid || s == InvoiceStatusPartiallyPaid
}

// InvoiceType distinguishes how an invoice was produced
type InvoiceType string

const (
	InvoiceTypeRegular    InvoiceType = "REGULAR"
	InvoiceTypeLevy       InvoiceType = "LEVY"
	InvoiceTypeCorrection InvoiceType = "CORRECTION"
)

// IsValid checks if the invoice type is valid
func (t InvoiceType) IsValid() bool {
	switch t {
	case InvoiceTypeRegular, InvoiceTypeLevy, InvoiceTypeCorrection:
		return true
	}
	return false
}

// RateSnapshotItem is one billing line captured at generation time
type RateSnapshotItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// RateSnapshot is an immutable copy of the billing items and amounts in effect
// when the invoice was generated. It is preserved for audit even if the source
// billing profile later changes, and stored as JSONB.
type RateSnapshot struct {
	ProfileID   *uuid.UUID         `json:"profile_id,omitempty"`
	ProfileName string             `json:"profile_name,omitempty"`
	CapturedAt  time.Time          `json:"captured_at"`
	Items       []RateSnapshotItem `json:"items"`
}

// Value implements driver.Valuer for JSONB storage
func (s RateSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB retrieval
func (s *RateSnapshot) Scan(value interface{}) error {
	if value == nil {
		*s = RateSnapshot{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan RateSnapshot: unsupported type")
	}

	if len(bytes) == 0 {
		*s = RateSnapshot{}
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// InvoiceItem is one billed line on an invoice
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice is the billing aggregate for a resident/house pair. Status is always
// derived from (amount_due, amount_paid) and never set independently of it.
type Invoice struct {
	shared.BaseAggregateRoot
	ResidentID       uuid.UUID       `json:"resident_id"`
	HouseID          uuid.UUID       `json:"house_id"`
	BillingProfileID *uuid.UUID      `json:"billing_profile_id,omitempty"`
	InvoiceNumber    string          `json:"invoice_number"`
	AmountDue        decimal.Decimal `json:"amount_due"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	Status           InvoiceStatus   `json:"status"`
	Type             InvoiceType     `json:"invoice_type"`
	Snapshot         RateSnapshot    `json:"rate_snapshot"`
	DueDate          time.Time       `json:"due_date"`
	PeriodStart      *time.Time      `json:"period_start,omitempty"`
	PeriodEnd        *time.Time      `json:"period_end,omitempty"`
	Items            []InvoiceItem   `json:"items"`
}

// NewInvoiceItemInput carries one line of a new invoice
type NewInvoiceItemInput struct {
	Description string
	Amount      valueobject.Money
}

// NewInvoice creates an invoice with its items. Amount due is computed as the
// sum of item amounts; items and invoice are persisted atomically by the caller.
func NewInvoice(
	residentID, houseID uuid.UUID,
	billingProfileID *uuid.UUID,
	invoiceNumber string,
	items []NewInvoiceItemInput,
	dueDate time.Time,
	invoiceType InvoiceType,
	snapshot RateSnapshot,
) (*Invoice, error) {
	if residentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESIDENT", "Resident ID cannot be empty")
	}
	if houseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_HOUSE", "House ID cannot be empty")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if !invoiceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVOICE_TYPE", "Invoice type is not valid")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Invoice must have at least one item")
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ResidentID:        residentID,
		HouseID:           houseID,
		BillingProfileID:  billingProfileID,
		InvoiceNumber:     invoiceNumber,
		AmountDue:         decimal.Zero,
		AmountPaid:        decimal.Zero,
		Status:            InvoiceStatusUnpaid,
		Type:              invoiceType,
		Snapshot:          snapshot,
		DueDate:           dueDate,
	}

	for _, in := range items {
		if in.Amount.Amount().LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_ITEMS", "Invoice item amount must be positive")
		}
		if in.Description == "" {
			return nil, shared.NewDomainError("INVALID_ITEMS", "Invoice item description cannot be empty")
		}
		inv.Items = append(inv.Items, InvoiceItem{
			BaseEntity:  shared.NewBaseEntity(),
			InvoiceID:   inv.ID,
			Description: in.Description,
			Amount:      in.Amount.Amount(),
		})
		inv.AmountDue = inv.AmountDue.Add(in.Amount.Amount())
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// Outstanding returns amount_due - amount_paid
func (i *Invoice) Outstanding() decimal.Decimal {
	return i.AmountDue.Sub(i.AmountPaid)
}

// GetOutstandingMoney returns the outstanding amount as Money
func (i *Invoice) GetOutstandingMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(i.Outstanding())
}

// ApplyPayment raises amount_paid and recomputes the status. The invariant
// 0 <= amount_paid <= amount_due always holds.
func (i *Invoice) ApplyPayment(amount valueobject.Money) error {
	if !i.Status.IsOutstanding() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply payment to %s invoice", i.Status))
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.Amount().GreaterThan(i.Outstanding()) {
		return shared.NewDomainError("EXCEEDS_OUTSTANDING",
			fmt.Sprintf("Payment %s exceeds outstanding %s", amount.StringFixed(2), i.Outstanding().StringFixed(2)))
	}

	i.AmountPaid = i.AmountPaid.Add(amount.Amount())
	i.recomputeStatus()
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	if i.Status == InvoiceStatusPaid {
		i.AddDomainEvent(NewInvoicePaidEvent(i))
	} else {
		i.AddDomainEvent(NewInvoicePartiallyPaidEvent(i, amount))
	}

	return nil
}

// ReversePayment lowers amount_paid by the given amount and recomputes status.
// Fails with NOTHING_TO_REVERSE when no payment has been applied.
func (i *Invoice) ReversePayment(amount valueobject.Money) error {
	if i.AmountPaid.IsZero() {
		return shared.NewDomainError("NOTHING_TO_REVERSE", "Invoice has no applied payment to reverse")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount must be positive")
	}
	if amount.Amount().GreaterThan(i.AmountPaid) {
		return shared.NewDomainError("EXCEEDS_PAID",
			fmt.Sprintf("Reversal %s exceeds paid amount %s", amount.StringFixed(2), i.AmountPaid.StringFixed(2)))
	}

	i.AmountPaid = i.AmountPaid.Sub(amount.Amount())
	i.recomputeStatus()
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoicePaymentReversedEvent(i, amount))

	return nil
}

// Void marks the invoice void. Void is terminal and not ledger-affecting; an
// invoice with applied payments must be reversed first.
func (i *Invoice) Void(reason string) error {
	if i.Status == InvoiceStatusVoid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already void")
	}
	if i.AmountPaid.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("PARTIAL_PAYMENT_PRESENT", "Reverse applied payments before voiding")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	i.Status = InvoiceStatusVoid
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoiceVoidedEvent(i, reason))

	return nil
}

// IsPaid returns true when fully settled
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// recomputeStatus derives the status from (amount_due, amount_paid).
// Void is terminal and preserved.
func (i *Invoice) recomputeStatus() {
	if i.Status == InvoiceStatusVoid {
		return
	}
	switch {
	case i.AmountPaid.Equal(i.AmountDue):
		i.Status = InvoiceStatusPaid
	case i.AmountPaid.GreaterThan(decimal.Zero):
		i.Status = InvoiceStatusPartiallyPaid
	default:
		i.Status = InvoiceStatusUnpaid
	}
}

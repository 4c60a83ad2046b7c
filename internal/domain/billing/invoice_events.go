package billing

import (
	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Invoice
const AggregateTypeInvoice = "Invoice"

// Event type constants for Invoice
const (
	EventTypeInvoiceCreated         = "InvoiceCreated"
	EventTypeInvoicePaid            = "InvoicePaid"
	EventTypeInvoicePartiallyPaid   = "InvoicePartiallyPaid"
	EventTypeInvoicePaymentReversed = "InvoicePaymentReversed"
	EventTypeInvoiceVoided          = "InvoiceVoided"
	EventTypeInvoiceCorrected       = "InvoiceCorrected"
)

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	ResidentID    uuid.UUID       `json:"resident_id"`
	HouseID       uuid.UUID       `json:"house_id"`
	InvoiceType   InvoiceType     `json:"invoice_type"`
	AmountDue     decimal.Decimal `json:"amount_due"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		ResidentID:      inv.ResidentID,
		HouseID:         inv.HouseID,
		InvoiceType:     inv.Type,
		AmountDue:       inv.AmountDue,
	}
}

// InvoicePaidEvent is raised when an invoice becomes fully paid
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	ResidentID    uuid.UUID       `json:"resident_id"`
	AmountDue     decimal.Decimal `json:"amount_due"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		ResidentID:      inv.ResidentID,
		AmountDue:       inv.AmountDue,
	}
}

// InvoicePartiallyPaidEvent is raised when a payment leaves a balance outstanding
type InvoicePartiallyPaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	ResidentID  uuid.UUID       `json:"resident_id"`
	Amount      decimal.Decimal `json:"amount"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// NewInvoicePartiallyPaidEvent creates a new InvoicePartiallyPaidEvent
func NewInvoicePartiallyPaidEvent(inv *Invoice, amount valueobject.Money) *InvoicePartiallyPaidEvent {
	return &InvoicePartiallyPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePartiallyPaid, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		ResidentID:      inv.ResidentID,
		Amount:          amount.Amount(),
		Outstanding:     inv.Outstanding(),
	}
}

// InvoicePaymentReversedEvent is raised when an applied payment is reversed
type InvoicePaymentReversedEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	ResidentID uuid.UUID       `json:"resident_id"`
	Amount     decimal.Decimal `json:"amount"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// NewInvoicePaymentReversedEvent creates a new InvoicePaymentReversedEvent
func NewInvoicePaymentReversedEvent(inv *Invoice, amount valueobject.Money) *InvoicePaymentReversedEvent {
	return &InvoicePaymentReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentReversed, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		ResidentID:      inv.ResidentID,
		Amount:          amount.Amount(),
		AmountPaid:      inv.AmountPaid,
	}
}

// InvoiceVoidedEvent is raised when an invoice is voided
type InvoiceVoidedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID `json:"invoice_id"`
	Reason    string    `json:"reason"`
}

// NewInvoiceVoidedEvent creates a new InvoiceVoidedEvent
func NewInvoiceVoidedEvent(inv *Invoice, reason string) *InvoiceVoidedEvent {
	return &InvoiceVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceVoided, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		Reason:          reason,
	}
}

// InvoiceCorrectedEvent is raised when a balanced correction batch is applied
type InvoiceCorrectedEvent struct {
	shared.BaseDomainEvent
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	NoteCount   int             `json:"note_count"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	Reason      string          `json:"reason"`
}

// NewInvoiceCorrectedEvent creates a new InvoiceCorrectedEvent
func NewInvoiceCorrectedEvent(invoiceID uuid.UUID, notes []CorrectionNote, reason string) *InvoiceCorrectedEvent {
	totalCredit := decimal.Zero
	totalDebit := decimal.Zero
	for _, n := range notes {
		if n.Type == CorrectionTypeCredit {
			totalCredit = totalCredit.Add(n.Amount)
		} else {
			totalDebit = totalDebit.Add(n.Amount)
		}
	}
	return &InvoiceCorrectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCorrected, AggregateTypeInvoice, invoiceID),
		InvoiceID:       invoiceID,
		NoteCount:       len(notes),
		TotalCredit:     totalCredit,
		TotalDebit:      totalDebit,
		Reason:          reason,
	}
}

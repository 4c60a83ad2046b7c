package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	ResidentID *uuid.UUID
	HouseID    *uuid.UUID
	Status     *InvoiceStatus
	Type       *InvoiceType
	DueFrom    *time.Time
	DueTo      *time.Time
	Limit      int
	Offset     int
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by its human-readable number
	FindByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)

	// FindOutstanding lists unpaid and partially paid invoices for a
	// resident/house pair, oldest due date first. This ordering is the
	// contract the wallet sweep depends on.
	FindOutstanding(ctx context.Context, residentID, houseID uuid.UUID) ([]Invoice, error)

	// FindAll lists invoices matching the filter
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, error)

	// Create persists the invoice and its items atomically
	Create(ctx context.Context, invoice *Invoice) error

	// SaveWithLock updates the invoice with optimistic locking (version check)
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// NextInvoiceNumber generates a unique human-readable invoice number
	NextInvoiceNumber(ctx context.Context, invoiceType InvoiceType) (string, error)
}

// CorrectionNoteRepository defines the interface for correction note persistence
type CorrectionNoteRepository interface {
	// CreateBatch persists all notes of one correction atomically;
	// if persisting any note fails, none are visible.
	CreateBatch(ctx context.Context, notes []CorrectionNote) error

	// FindByInvoice lists the notes recorded against an invoice
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]CorrectionNote, error)
}

// BillingProfileRepository defines the interface for billing profile persistence
type BillingProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BillingProfile, error)

	// FindActiveOneTime lists the active one-time profiles considered by levy runs
	FindActiveOneTime(ctx context.Context) ([]BillingProfile, error)

	Save(ctx context.Context, profile *BillingProfile) error
	SaveWithLock(ctx context.Context, profile *BillingProfile) error
}

// LevyHistoryRepository defines the interface for the levy idempotency record
type LevyHistoryRepository interface {
	// Exists reports whether a levy was already applied for (house, profile)
	Exists(ctx context.Context, houseID, profileID uuid.UUID) (bool, error)

	// CommitLevy persists the levy invoice with its items and the history
	// row in one transaction; a failure leaves neither behind. The
	// (house_id, billing_profile_id) uniqueness constraint on the history
	// is the serialisation point for concurrent levy runs; the losing
	// insert rolls the invoice back and returns shared.ErrAlreadyExists.
	CommitLevy(ctx context.Context, invoice *Invoice, history *HouseLevyHistory) error

	// FindByHouse lists levy applications for a house
	FindByHouse(ctx context.Context, houseID uuid.UUID) ([]HouseLevyHistory, error)
}

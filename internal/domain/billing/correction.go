package billing

import (
	"fmt"
	"strings"

	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Correction validation bounds
const (
	minEntryDescriptionLen = 3
	minCorrectionReasonLen = 10
)

// CorrectionType distinguishes credit notes from debit notes
type CorrectionType string

const (
	CorrectionTypeCredit CorrectionType = "credit"
	CorrectionTypeDebit  CorrectionType = "debit"
)

// IsValid checks if the correction type is valid
func (t CorrectionType) IsValid() bool {
	return t == CorrectionTypeCredit || t == CorrectionTypeDebit
}

// CorrectionNote is a credit or debit note adjusting a previously issued
// invoice without deleting it. Notes belonging to one correction are created
// as a single atomic batch.
type CorrectionNote struct {
	shared.BaseEntity
	Type              CorrectionType  `json:"type"`
	OriginalInvoiceID uuid.UUID       `json:"original_invoice_id"`
	BatchID           uuid.UUID       `json:"batch_id"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
}

// CorrectionEntry is the caller's request for one note in a correction batch
type CorrectionEntry struct {
	Type        CorrectionType
	Amount      valueobject.Money
	Description string
}

// NewCorrectionBatch validates a correction request and builds the balanced
// set of notes. The batch invariant is sum(credits) == sum(debits) at
// 2-decimal precision; any violation rejects the whole batch with zero notes.
func NewCorrectionBatch(originalInvoiceID uuid.UUID, entries []CorrectionEntry, reason string) ([]CorrectionNote, error) {
	if originalInvoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Original invoice ID cannot be empty")
	}
	if len(entries) == 0 {
		return nil, shared.NewDomainError("INVALID_CORRECTION_ENTRY", "Correction must contain at least one entry")
	}
	if len(strings.TrimSpace(reason)) < minCorrectionReasonLen {
		return nil, shared.NewDomainError("INVALID_CORRECTION_ENTRY",
			fmt.Sprintf("Correction reason must be at least %d characters", minCorrectionReasonLen))
	}

	batchID := uuid.New()
	totalCredit := decimal.Zero
	totalDebit := decimal.Zero
	notes := make([]CorrectionNote, 0, len(entries))

	for idx, e := range entries {
		if !e.Type.IsValid() {
			return nil, shared.NewDomainError("INVALID_CORRECTION_ENTRY",
				fmt.Sprintf("Entry %d has unknown type %q", idx+1, e.Type))
		}
		if e.Amount.Amount().LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_CORRECTION_ENTRY",
				fmt.Sprintf("Entry %d amount must be positive", idx+1))
		}
		if len(strings.TrimSpace(e.Description)) < minEntryDescriptionLen {
			return nil, shared.NewDomainError("INVALID_CORRECTION_ENTRY",
				fmt.Sprintf("Entry %d description must be at least %d characters", idx+1, minEntryDescriptionLen))
		}

		if e.Type == CorrectionTypeCredit {
			totalCredit = totalCredit.Add(e.Amount.Amount())
		} else {
			totalDebit = totalDebit.Add(e.Amount.Amount())
		}

		notes = append(notes, CorrectionNote{
			BaseEntity:        shared.NewBaseEntity(),
			Type:              e.Type,
			OriginalInvoiceID: originalInvoiceID,
			BatchID:           batchID,
			Amount:            e.Amount.Amount(),
			Description:       e.Description,
		})
	}

	if !totalCredit.Round(2).Equal(totalDebit.Round(2)) {
		return nil, shared.NewDomainError("CORRECTION_NOT_BALANCED",
			fmt.Sprintf("Credits %s do not balance debits %s", totalCredit.StringFixed(2), totalDebit.StringFixed(2)))
	}

	return notes, nil
}

// CorrectionBatchTotals returns the summed credit and debit amounts of a batch
func CorrectionBatchTotals(notes []CorrectionNote) (credit, debit decimal.Decimal) {
	credit, debit = decimal.Zero, decimal.Zero
	for _, n := range notes {
		if n.Type == CorrectionTypeCredit {
			credit = credit.Add(n.Amount)
		} else {
			debit = debit.Add(n.Amount)
		}
	}
	return credit, debit
}

// HouseLevyHistory records that a one-time billing profile was applied to a
// house. The uniqueness of (house_id, billing_profile_id) is the sole
// idempotency guard against double-levying.
type HouseLevyHistory struct {
	shared.BaseEntity
	HouseID          uuid.UUID `json:"house_id"`
	BillingProfileID uuid.UUID `json:"billing_profile_id"`
	ResidentID       uuid.UUID `json:"resident_id"`
	InvoiceID        uuid.UUID `json:"invoice_id"`
	AppliedBy        uuid.UUID `json:"applied_by"`
}

// NewHouseLevyHistory creates a levy application record
func NewHouseLevyHistory(houseID, profileID, residentID, invoiceID, appliedBy uuid.UUID) (*HouseLevyHistory, error) {
	if houseID == uuid.Nil || profileID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEVY_HISTORY", "House and billing profile IDs are required")
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEVY_HISTORY", "Invoice ID is required")
	}

	return &HouseLevyHistory{
		BaseEntity:       shared.NewBaseEntity(),
		HouseID:          houseID,
		BillingProfileID: profileID,
		ResidentID:       residentID,
		InvoiceID:        invoiceID,
		AppliedBy:        appliedBy,
	}, nil
}

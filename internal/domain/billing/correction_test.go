package billing

import (
	"testing"

	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(ct CorrectionType, amount float64, desc string) CorrectionEntry {
	return CorrectionEntry{
		Type:        ct,
		Amount:      valueobject.NewMoneyNGNFromFloat(amount),
		Description: desc,
	}
}

const validReason = "rate applied in error for Q1"

func TestNewCorrectionBatch(t *testing.T) {
	invoiceID := uuid.New()

	t.Run("balanced batch", func(t *testing.T) {
		notes, err := NewCorrectionBatch(invoiceID, []CorrectionEntry{
			entry(CorrectionTypeCredit, 3000, "overcharge on dues"),
			entry(CorrectionTypeDebit, 3000, "reissued correct dues"),
		}, validReason)

		require.NoError(t, err)
		require.Len(t, notes, 2)
		credit, debit := CorrectionBatchTotals(notes)
		assert.True(t, credit.Equal(debit))
		assert.Equal(t, notes[0].BatchID, notes[1].BatchID)
		for _, n := range notes {
			assert.Equal(t, invoiceID, n.OriginalInvoiceID)
		}
	})

	t.Run("unbalanced batch rejected", func(t *testing.T) {
		_, err := NewCorrectionBatch(invoiceID, []CorrectionEntry{
			entry(CorrectionTypeCredit, 3000, "overcharge on dues"),
			entry(CorrectionTypeDebit, 2500, "reissued correct dues"),
		}, validReason)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "CORRECTION_NOT_BALANCED", derr.Code)
	})

	t.Run("sub-cent drift tolerated", func(t *testing.T) {
		credit := CorrectionEntry{
			Type:        CorrectionTypeCredit,
			Amount:      valueobject.NewMoneyNGN(decimal.RequireFromString("1000.001")),
			Description: "credit leg",
		}
		debit := CorrectionEntry{
			Type:        CorrectionTypeDebit,
			Amount:      valueobject.NewMoneyNGN(decimal.RequireFromString("1000.004")),
			Description: "debit leg",
		}
		_, err := NewCorrectionBatch(invoiceID, []CorrectionEntry{credit, debit}, validReason)
		require.NoError(t, err)
	})

	t.Run("empty batch rejected", func(t *testing.T) {
		_, err := NewCorrectionBatch(invoiceID, nil, validReason)
		require.Error(t, err)
	})

	t.Run("non-positive entry rejected", func(t *testing.T) {
		_, err := NewCorrectionBatch(invoiceID, []CorrectionEntry{
			entry(CorrectionTypeCredit, 0, "zero entry"),
		}, validReason)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_CORRECTION_ENTRY", derr.Code)
	})

	t.Run("short description rejected", func(t *testing.T) {
		_, err := NewCorrectionBatch(invoiceID, []CorrectionEntry{
			entry(CorrectionTypeCredit, 100, "ab"),
			entry(CorrectionTypeDebit, 100, "ok desc"),
		}, validReason)
		require.Error(t, err)
	})

	t.Run("short reason rejected", func(t *testing.T) {
		_, err := NewCorrectionBatch(invoiceID, []CorrectionEntry{
			entry(CorrectionTypeCredit, 100, "credit leg"),
			entry(CorrectionTypeDebit, 100, "debit leg"),
		}, "too short")
		require.Error(t, err)
	})

	t.Run("unknown entry type rejected", func(t *testing.T) {
		_, err := NewCorrectionBatch(invoiceID, []CorrectionEntry{
			{Type: CorrectionType("writeoff"), Amount: valueobject.NewMoneyNGNFromFloat(100), Description: "leg"},
		}, validReason)
		require.Error(t, err)
	})
}

func TestNewHouseLevyHistory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		h, err := NewHouseLevyHistory(uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, h.ID)
	})

	t.Run("missing invoice", func(t *testing.T) {
		_, err := NewHouseLevyHistory(uuid.New(), uuid.New(), uuid.New(), uuid.Nil, uuid.New())
		require.Error(t, err)
	})
}

package billing

import (
	"context"
	"testing"
	"time"

	ledgerapp "github.com/estatekit/backend/internal/application/ledger"
	"github.com/estatekit/backend/internal/domain/billing"
	"github.com/estatekit/backend/internal/domain/ledger"
	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const correctionReason = "rate applied in error for Q1 dues"

func newCorrectionService(t *testing.T) (*CorrectionService, *MockInvoiceRepository, *MockCorrectionNoteRepository, *MockWalletOperations, *MockNotifier) {
	t.Helper()
	invoiceRepo := new(MockInvoiceRepository)
	correctionRepo := new(MockCorrectionNoteRepository)
	wallet := new(MockWalletOperations)
	notifier := new(MockNotifier)
	audit := new(MockAuditLogger)
	audit.On("LogAudit", mock.Anything, mock.Anything).Maybe()
	svc := NewCorrectionService(invoiceRepo, correctionRepo, wallet, notifier, audit, zap.NewNop())
	return svc, invoiceRepo, correctionRepo, wallet, notifier
}

func testInvoice(t *testing.T, amount float64) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice(uuid.New(), uuid.New(), nil, "INV-2026-000042",
		[]billing.NewInvoiceItemInput{{Description: "quarterly dues", Amount: valueobject.NewMoneyNGNFromFloat(amount)}},
		time.Now().AddDate(0, 0, 30), billing.InvoiceTypeRegular, billing.RateSnapshot{})
	require.NoError(t, err)
	return inv
}

func balancedEntries(amount float64) []billing.CorrectionEntry {
	return []billing.CorrectionEntry{
		{Type: billing.CorrectionTypeCredit, Amount: valueobject.NewMoneyNGNFromFloat(amount), Description: "overcharge"},
		{Type: billing.CorrectionTypeDebit, Amount: valueobject.NewMoneyNGNFromFloat(amount), Description: "reissued dues"},
	}
}

func TestCorrectionService_CreateInvoiceCorrection(t *testing.T) {
	ctx := context.Background()

	t.Run("persists balanced batch and notifies", func(t *testing.T) {
		svc, invoiceRepo, correctionRepo, _, notifier := newCorrectionService(t)
		inv := testInvoice(t, 3000)

		invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
		correctionRepo.On("CreateBatch", ctx, mock.AnythingOfType("[]billing.CorrectionNote")).Return(nil)
		notifier.On("Notify", ctx, mock.AnythingOfType("service.Notification")).Return(nil)

		result, err := svc.CreateInvoiceCorrection(ctx, CreateCorrectionRequest{
			OriginalInvoiceID: inv.ID,
			Entries:           balancedEntries(3000),
			Reason:            correctionReason,
			ActorID:           uuid.New(),
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.NoteCount)
		assert.True(t, result.TotalCredit.Equal(result.TotalDebit))
		assert.Empty(t, result.Warning)
		correctionRepo.AssertExpectations(t)
	})

	t.Run("partial payment blocks correction", func(t *testing.T) {
		svc, invoiceRepo, correctionRepo, _, _ := newCorrectionService(t)
		inv := testInvoice(t, 3000)
		require.NoError(t, inv.ApplyPayment(valueobject.NewMoneyNGNFromFloat(1000)))

		invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)

		_, err := svc.CreateInvoiceCorrection(ctx, CreateCorrectionRequest{
			OriginalInvoiceID: inv.ID,
			Entries:           balancedEntries(3000),
			Reason:            correctionReason,
		})

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "PARTIAL_PAYMENT_PRESENT", derr.Code)
		correctionRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("unbalanced batch persists nothing", func(t *testing.T) {
		svc, invoiceRepo, correctionRepo, _, _ := newCorrectionService(t)
		inv := testInvoice(t, 3000)
		invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)

		entries := []billing.CorrectionEntry{
			{Type: billing.CorrectionTypeCredit, Amount: valueobject.NewMoneyNGNFromFloat(3000), Description: "overcharge"},
			{Type: billing.CorrectionTypeDebit, Amount: valueobject.NewMoneyNGNFromFloat(2500), Description: "reissued dues"},
		}

		_, err := svc.CreateInvoiceCorrection(ctx, CreateCorrectionRequest{
			OriginalInvoiceID: inv.ID,
			Entries:           entries,
			Reason:            correctionReason,
		})

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "CORRECTION_NOT_BALANCED", derr.Code)
		correctionRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("notification failure downgrades to warning", func(t *testing.T) {
		svc, invoiceRepo, correctionRepo, _, notifier := newCorrectionService(t)
		inv := testInvoice(t, 3000)

		invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
		correctionRepo.On("CreateBatch", ctx, mock.Anything).Return(nil)
		notifier.On("Notify", ctx, mock.Anything).Return(assert.AnError)

		result, err := svc.CreateInvoiceCorrection(ctx, CreateCorrectionRequest{
			OriginalInvoiceID: inv.ID,
			Entries:           balancedEntries(3000),
			Reason:            correctionReason,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.Warning)
	})
}

func TestCorrectionService_ReversePaymentAllocation(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("credits wallet back and recomputes status", func(t *testing.T) {
		svc, invoiceRepo, _, wallet, _ := newCorrectionService(t)
		inv := testInvoice(t, 5000)
		require.NoError(t, inv.ApplyPayment(valueobject.NewMoneyNGNFromFloat(2000)))

		invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
		invoiceRepo.On("SaveWithLock", ctx, inv).Return(nil)
		wallet.On("CreditWallet", ctx, mock.MatchedBy(func(req ledgerapp.CreditWalletRequest) bool {
			return req.ResidentID == inv.ResidentID &&
				req.Amount.Equal(decimal.NewFromInt(2000)) &&
				req.Reason == ledger.ReasonCorrection
		})).Return(&ledgerapp.WalletOperationResult{}, nil)

		updated, err := svc.ReversePaymentAllocation(ctx, inv.ID, decimal.NewFromInt(2000), actorID)

		require.NoError(t, err)
		assert.True(t, updated.AmountPaid.IsZero())
		assert.Equal(t, billing.InvoiceStatusUnpaid, updated.Status)
		wallet.AssertExpectations(t)
	})

	t.Run("nothing to reverse", func(t *testing.T) {
		svc, invoiceRepo, _, wallet, _ := newCorrectionService(t)
		inv := testInvoice(t, 5000)
		invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)

		_, err := svc.ReversePaymentAllocation(ctx, inv.ID, decimal.NewFromInt(2000), actorID)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "NOTHING_TO_REVERSE", derr.Code)
		wallet.AssertNotCalled(t, "CreditWallet", mock.Anything, mock.Anything)
	})
}

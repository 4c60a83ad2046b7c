package billing

import (
	"context"
	"fmt"

	ledgerapp "github.com/estatekit/backend/internal/application/ledger"
	"github.com/estatekit/backend/internal/domain/billing"
	"github.com/estatekit/backend/internal/domain/ledger"
	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/domain/shared/service"
	"github.com/estatekit/backend/internal/domain/shared/valueobject"
	"github.com/estatekit/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WalletOperations is the slice of the wallet service the billing services
// depend on.
type WalletOperations interface {
	CreditWallet(ctx context.Context, req ledgerapp.CreditWalletRequest) (*ledgerapp.WalletOperationResult, error)
	DebitWalletForInvoice(ctx context.Context, residentID uuid.UUID, invoice *billing.Invoice) (*ledgerapp.InvoiceAllocation, error)
}

// CorrectionService corrects issued invoices through balanced credit/debit
// note batches and reverses payment allocations back into the wallet.
type CorrectionService struct {
	invoiceRepo    billing.InvoiceRepository
	correctionRepo billing.CorrectionNoteRepository
	wallet         WalletOperations
	notifier       service.Notifier
	auditLogger    service.AuditLogger
	logger         *zap.Logger
}

// NewCorrectionService creates a new CorrectionService
func NewCorrectionService(
	invoiceRepo billing.InvoiceRepository,
	correctionRepo billing.CorrectionNoteRepository,
	wallet WalletOperations,
	notifier service.Notifier,
	auditLogger service.AuditLogger,
	logger *zap.Logger,
) *CorrectionService {
	return &CorrectionService{
		invoiceRepo:    invoiceRepo,
		correctionRepo: correctionRepo,
		wallet:         wallet,
		notifier:       notifier,
		auditLogger:    auditLogger,
		logger:         logger,
	}
}

// CreateCorrectionRequest represents a request to correct an invoice
type CreateCorrectionRequest struct {
	OriginalInvoiceID uuid.UUID
	Entries           []billing.CorrectionEntry
	Reason            string
	ActorID           uuid.UUID
}

// CorrectionResult reports the outcome of a correction
type CorrectionResult struct {
	BatchID     uuid.UUID       `json:"batch_id"`
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	NoteCount   int             `json:"note_count"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	Warning     string          `json:"warning,omitempty"`
}

// CreateInvoiceCorrection validates and persists a balanced correction batch
// against an invoice. An invoice with an applied payment cannot be corrected
// until the payment is reversed. A rejected batch persists zero notes; a
// notification failure downgrades to a warning on a successful result.
func (s *CorrectionService) CreateInvoiceCorrection(ctx context.Context, req CreateCorrectionRequest) (*CorrectionResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "correction", "create")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrInvoiceID, req.OriginalInvoiceID.String())

	invoice, err := s.invoiceRepo.FindByID(ctx, req.OriginalInvoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if invoice.AmountPaid.IsPositive() {
		telemetry.RecordError(span, shared.ErrPartialPaymentPresent)
		return nil, shared.ErrPartialPaymentPresent
	}

	notes, err := billing.NewCorrectionBatch(req.OriginalInvoiceID, req.Entries, req.Reason)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.correctionRepo.CreateBatch(ctx, notes); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to persist correction batch: %w", err)
	}

	credit, debit := billing.CorrectionBatchTotals(notes)
	result := &CorrectionResult{
		BatchID:     notes[0].BatchID,
		InvoiceID:   invoice.ID,
		NoteCount:   len(notes),
		TotalCredit: credit,
		TotalDebit:  debit,
	}

	s.logger.Info("Invoice correction recorded",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("batch_id", result.BatchID.String()),
		zap.Int("notes", result.NoteCount),
	)

	s.auditLogger.LogAudit(ctx, service.AuditEntry{
		Action:      "invoice.correct",
		EntityType:  "invoice",
		EntityID:    invoice.ID.String(),
		ActorID:     req.ActorID,
		Description: req.Reason,
		NewValues: map[string]interface{}{
			"batch_id":     result.BatchID.String(),
			"total_credit": credit.String(),
			"total_debit":  debit.String(),
		},
	})

	if err := s.notifier.Notify(ctx, service.Notification{
		Kind:        service.NotificationInvoiceCorrected,
		RecipientID: invoice.ResidentID,
		Subject:     fmt.Sprintf("Invoice %s corrected", invoice.InvoiceNumber),
		Body:        req.Reason,
		Metadata:    map[string]string{"batch_id": result.BatchID.String()},
	}); err != nil {
		s.logger.Warn("Correction notification failed",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.Error(err),
		)
		result.Warning = "correction recorded but the resident could not be notified"
	}

	return result, nil
}

// ReversePaymentAllocation undoes a wallet-to-invoice allocation: the amount
// is credited back to the wallet with reason correction, the invoice's paid
// amount drops and its status recomputes.
func (s *CorrectionService) ReversePaymentAllocation(ctx context.Context, invoiceID uuid.UUID, amount decimal.Decimal, actorID uuid.UUID) (*billing.Invoice, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "correction", "reverse_payment")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, invoiceID.String(),
		telemetry.SpanAttrAmount, amount.String(),
	)

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := invoice.ReversePayment(valueobject.NewMoneyNGN(amount)); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	if _, err := s.wallet.CreditWallet(ctx, ledgerapp.CreditWalletRequest{
		ResidentID:  invoice.ResidentID,
		Amount:      amount,
		Reason:      ledger.ReasonCorrection,
		ReferenceID: &invoice.ID,
		Description: fmt.Sprintf("Reversal of allocation to invoice %s", invoice.InvoiceNumber),
	}); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to credit wallet for reversal: %w", err)
	}

	s.logger.Info("Payment allocation reversed",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("amount", amount.String()),
	)

	s.auditLogger.LogAudit(ctx, service.AuditEntry{
		Action:     "invoice.reverse_payment",
		EntityType: "invoice",
		EntityID:   invoice.ID.String(),
		ActorID:    actorID,
		NewValues: map[string]interface{}{
			"amount":       amount.String(),
			"amount_paid":  invoice.AmountPaid.String(),
			"status_after": string(invoice.Status),
		},
	})

	return invoice, nil
}

// ListCorrections lists the correction notes recorded against an invoice
func (s *CorrectionService) ListCorrections(ctx context.Context, invoiceID uuid.UUID) ([]billing.CorrectionNote, error) {
	return s.correctionRepo.FindByInvoice(ctx, invoiceID)
}

package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/estatekit/backend/internal/domain/billing"
	"github.com/estatekit/backend/internal/domain/shared/service"
	"github.com/estatekit/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoiceService handles invoice creation and queries
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	auditLogger service.AuditLogger
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	auditLogger service.AuditLogger,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// CreateInvoiceRequest represents a request to issue an invoice
type CreateInvoiceRequest struct {
	ResidentID       uuid.UUID
	HouseID          uuid.UUID
	BillingProfileID *uuid.UUID
	Items            []billing.NewInvoiceItemInput
	DueDate          time.Time
	Type             billing.InvoiceType
	Snapshot         billing.RateSnapshot
	ActorID          uuid.UUID
}

// CreateInvoice issues a numbered invoice and persists it with its items
// atomically.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*billing.Invoice, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrResidentID, req.ResidentID.String(),
		telemetry.SpanAttrHouseID, req.HouseID.String(),
	)

	number, err := s.invoiceRepo.NextInvoiceNumber(ctx, req.Type)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to generate invoice number: %w", err)
	}

	invoice, err := billing.NewInvoice(
		req.ResidentID, req.HouseID, req.BillingProfileID,
		number, req.Items, req.DueDate, req.Type, req.Snapshot,
	)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to persist invoice: %w", err)
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrInvoiceNumber, invoice.InvoiceNumber)
	s.logger.Info("Invoice created",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("resident_id", req.ResidentID.String()),
		zap.String("amount_due", invoice.AmountDue.String()),
	)

	s.auditLogger.LogAudit(ctx, service.AuditEntry{
		Action:     "invoice.create",
		EntityType: "invoice",
		EntityID:   invoice.ID.String(),
		ActorID:    req.ActorID,
		NewValues: map[string]interface{}{
			"invoice_number": invoice.InvoiceNumber,
			"amount_due":     invoice.AmountDue.String(),
			"type":           string(invoice.Type),
		},
	})

	return invoice, nil
}

// VoidInvoice voids an unpaid invoice. Invoices with an applied payment must
// have it reversed first.
func (s *InvoiceService) VoidInvoice(ctx context.Context, invoiceID uuid.UUID, reason string, actorID uuid.UUID) (*billing.Invoice, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "void")
	defer span.End()

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := invoice.Void(reason); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.auditLogger.LogAudit(ctx, service.AuditEntry{
		Action:      "invoice.void",
		EntityType:  "invoice",
		EntityID:    invoice.ID.String(),
		ActorID:     actorID,
		Description: reason,
	})

	return invoice, nil
}

// GetInvoice returns an invoice with its items
func (s *InvoiceService) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*billing.Invoice, error) {
	return s.invoiceRepo.FindByID(ctx, invoiceID)
}

// ListInvoices lists invoices matching the filter
func (s *InvoiceService) ListInvoices(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	return s.invoiceRepo.FindAll(ctx, filter)
}

// ListOutstanding lists a resident's unpaid and partially paid invoices for a
// house, oldest due date first.
func (s *InvoiceService) ListOutstanding(ctx context.Context, residentID, houseID uuid.UUID) ([]billing.Invoice, error) {
	return s.invoiceRepo.FindOutstanding(ctx, residentID, houseID)
}

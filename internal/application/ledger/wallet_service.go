package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/estatekit/backend/internal/domain/billing"
	"github.com/estatekit/backend/internal/domain/ledger"
	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/domain/shared/valueobject"
	"github.com/estatekit/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WalletService handles wallet credits, debits and the allocation sweep that
// settles outstanding invoices from a resident's balance.
type WalletService struct {
	walletRepo     ledger.WalletRepository
	txRepo         ledger.WalletTransactionRepository
	invoiceRepo    billing.InvoiceRepository
	allocationRepo ledger.AllocationRepository
	logger         *zap.Logger
}

// NewWalletService creates a new WalletService
func NewWalletService(
	walletRepo ledger.WalletRepository,
	txRepo ledger.WalletTransactionRepository,
	invoiceRepo billing.InvoiceRepository,
	allocationRepo ledger.AllocationRepository,
	logger *zap.Logger,
) *WalletService {
	return &WalletService{
		walletRepo:     walletRepo,
		txRepo:         txRepo,
		invoiceRepo:    invoiceRepo,
		allocationRepo: allocationRepo,
		logger:         logger,
	}
}

// CreditWalletRequest represents a request to credit a resident's wallet
type CreditWalletRequest struct {
	ResidentID  uuid.UUID
	HouseID     *uuid.UUID // when set, outstanding invoices for this house are swept after the credit
	Amount      decimal.Decimal
	Reason      ledger.TransactionReason
	ReferenceID *uuid.UUID
	Description string
}

// DebitWalletRequest represents a request to debit a resident's wallet
type DebitWalletRequest struct {
	ResidentID  uuid.UUID
	Amount      decimal.Decimal
	Reason      ledger.TransactionReason
	ReferenceID *uuid.UUID
	Description string
}

// WalletOperationResult reports the outcome of a credit or debit
type WalletOperationResult struct {
	TransactionID uuid.UUID         `json:"transaction_id"`
	ResidentID    uuid.UUID         `json:"resident_id"`
	Amount        decimal.Decimal   `json:"amount"`
	BalanceAfter  decimal.Decimal   `json:"balance_after"`
	Allocation    *AllocationResult `json:"allocation,omitempty"`
}

// InvoiceAllocation records one wallet-to-invoice settlement made by a sweep
type InvoiceAllocation struct {
	InvoiceID     uuid.UUID             `json:"invoice_id"`
	InvoiceNumber string                `json:"invoice_number"`
	Amount        decimal.Decimal       `json:"amount"`
	InvoiceStatus billing.InvoiceStatus `json:"invoice_status"`
}

// AllocationResult aggregates the allocations of one sweep
type AllocationResult struct {
	ResidentID  uuid.UUID           `json:"resident_id"`
	HouseID     uuid.UUID           `json:"house_id"`
	Allocations []InvoiceAllocation `json:"allocations"`
	TotalSwept  decimal.Decimal     `json:"total_swept"`
	BalanceLeft decimal.Decimal     `json:"balance_left"`
}

// CreditWallet credits a resident's wallet, creating the wallet lazily on
// first use. When a house is given, the new balance is immediately swept
// against that house's outstanding invoices; a sweep failure is logged but
// never rolls back the credit.
func (s *WalletService) CreditWallet(ctx context.Context, req CreditWalletRequest) (*WalletOperationResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "credit")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrResidentID, req.ResidentID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
	)

	wallet, err := s.findOrCreateWallet(ctx, req.ResidentID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	amount := valueobject.NewMoneyNGN(req.Amount)
	tx, err := wallet.Credit(amount, req.Reason, req.ReferenceID, req.Description)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.allocationRepo.CommitWalletEntry(ctx, wallet, tx); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to commit wallet credit: %w", err)
	}

	s.logger.Info("Wallet credited",
		zap.String("resident_id", req.ResidentID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("reason", string(req.Reason)),
		zap.String("balance_after", wallet.Balance.String()),
	)

	result := &WalletOperationResult{
		TransactionID: tx.ID,
		ResidentID:    req.ResidentID,
		Amount:        req.Amount,
		BalanceAfter:  wallet.Balance,
	}

	if req.HouseID != nil {
		allocation, err := s.AllocateWalletToInvoices(ctx, req.ResidentID, *req.HouseID)
		if err != nil {
			// The credit is already committed; surface the sweep failure in logs only.
			s.logger.Warn("Allocation sweep after credit failed",
				zap.String("resident_id", req.ResidentID.String()),
				zap.String("house_id", req.HouseID.String()),
				zap.Error(err),
			)
		}
		if allocation != nil {
			result.Allocation = allocation
			result.BalanceAfter = allocation.BalanceLeft
		}
	}

	return result, nil
}

// DebitWallet debits a resident's wallet. Fails with INSUFFICIENT_FUNDS when
// the amount exceeds the balance; the balance never goes negative.
func (s *WalletService) DebitWallet(ctx context.Context, req DebitWalletRequest) (*WalletOperationResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "debit")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrResidentID, req.ResidentID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
	)

	wallet, err := s.walletRepo.FindByResident(ctx, req.ResidentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			err = shared.ErrInsufficientFunds
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	amount := valueobject.NewMoneyNGN(req.Amount)
	tx, err := wallet.Debit(amount, req.Reason, req.ReferenceID, req.Description)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.allocationRepo.CommitWalletEntry(ctx, wallet, tx); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to commit wallet debit: %w", err)
	}

	s.logger.Info("Wallet debited",
		zap.String("resident_id", req.ResidentID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("balance_after", wallet.Balance.String()),
	)

	return &WalletOperationResult{
		TransactionID: tx.ID,
		ResidentID:    req.ResidentID,
		Amount:        req.Amount,
		BalanceAfter:  wallet.Balance,
	}, nil
}

// DebitWalletForInvoice settles as much of the invoice as the wallet can
// cover: the debit is min(balance, outstanding). A zero-able debit is a
// silent no-op, never an error.
func (s *WalletService) DebitWalletForInvoice(ctx context.Context, residentID uuid.UUID, invoice *billing.Invoice) (*InvoiceAllocation, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "debit_for_invoice")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrResidentID, residentID.String(),
		telemetry.SpanAttrInvoiceID, invoice.ID.String(),
	)

	wallet, err := s.walletRepo.FindByResident(ctx, residentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	allocation, err := s.settleInvoice(ctx, wallet, invoice)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return allocation, nil
}

// AllocateWalletToInvoices sweeps the wallet balance across the resident's
// outstanding invoices for a house, oldest due date first. Each settlement
// commits on its own, so a mid-sweep failure keeps the allocations already
// made and returns them alongside the error.
func (s *WalletService) AllocateWalletToInvoices(ctx context.Context, residentID, houseID uuid.UUID) (*AllocationResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "allocate")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrResidentID, residentID.String(),
		telemetry.SpanAttrHouseID, houseID.String(),
	)

	result := &AllocationResult{
		ResidentID: residentID,
		HouseID:    houseID,
		TotalSwept: decimal.Zero,
	}

	wallet, err := s.walletRepo.FindByResident(ctx, residentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return result, nil
		}
		telemetry.RecordError(span, err)
		return nil, err
	}
	result.BalanceLeft = wallet.Balance

	if !wallet.HasFunds() {
		return result, nil
	}

	invoices, err := s.invoiceRepo.FindOutstanding(ctx, residentID, houseID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list outstanding invoices: %w", err)
	}

	for i := range invoices {
		if !wallet.HasFunds() {
			break
		}

		allocation, err := s.settleInvoice(ctx, wallet, &invoices[i])
		if err != nil {
			telemetry.RecordError(span, err)
			result.BalanceLeft = wallet.Balance
			return result, err
		}
		if allocation == nil {
			continue
		}

		result.Allocations = append(result.Allocations, *allocation)
		result.TotalSwept = result.TotalSwept.Add(allocation.Amount)
	}

	result.BalanceLeft = wallet.Balance
	telemetry.SetAttribute(span, "allocations", len(result.Allocations))

	if len(result.Allocations) > 0 {
		s.logger.Info("Wallet allocated to invoices",
			zap.String("resident_id", residentID.String()),
			zap.String("house_id", houseID.String()),
			zap.Int("invoices_settled", len(result.Allocations)),
			zap.String("total_swept", result.TotalSwept.String()),
		)
	}

	return result, nil
}

// GetWallet returns the resident's wallet; a missing wallet reads as a zero balance
func (s *WalletService) GetWallet(ctx context.Context, residentID uuid.UUID) (*ledger.Wallet, error) {
	wallet, err := s.walletRepo.FindByResident(ctx, residentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ledger.NewWallet(residentID)
		}
		return nil, err
	}
	return wallet, nil
}

// GetStatement lists a resident's wallet transactions
func (s *WalletService) GetStatement(ctx context.Context, residentID uuid.UUID, filter ledger.WalletTransactionFilter) ([]ledger.WalletTransaction, error) {
	return s.txRepo.FindByResident(ctx, residentID, filter)
}

// CountTransactions counts a resident's wallet transactions for statement pagination
func (s *WalletService) CountTransactions(ctx context.Context, residentID uuid.UUID) (int64, error) {
	return s.txRepo.CountByResident(ctx, residentID)
}

// settleInvoice debits min(balance, outstanding) from the wallet and applies
// it to the invoice, committing both sides atomically. Returns nil when there
// is nothing to settle.
func (s *WalletService) settleInvoice(ctx context.Context, wallet *ledger.Wallet, invoice *billing.Invoice) (*InvoiceAllocation, error) {
	if !invoice.Status.IsOutstanding() {
		return nil, nil
	}

	outstanding := valueobject.NewMoneyNGN(invoice.Outstanding())
	amount, err := wallet.GetBalanceMoney().Min(outstanding)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, nil
	}

	tx, err := wallet.Debit(amount, ledger.ReasonPayment, &invoice.ID,
		fmt.Sprintf("Allocation to invoice %s", invoice.InvoiceNumber))
	if err != nil {
		return nil, err
	}
	if err := invoice.ApplyPayment(amount); err != nil {
		return nil, err
	}

	if err := s.allocationRepo.CommitAllocation(ctx, wallet, tx, invoice); err != nil {
		return nil, fmt.Errorf("failed to commit allocation: %w", err)
	}

	return &InvoiceAllocation{
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		Amount:        amount.Amount(),
		InvoiceStatus: invoice.Status,
	}, nil
}

func (s *WalletService) findOrCreateWallet(ctx context.Context, residentID uuid.UUID) (*ledger.Wallet, error) {
	wallet, err := s.walletRepo.FindByResident(ctx, residentID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	wallet, err = ledger.NewWallet(residentID)
	if err != nil {
		return nil, err
	}
	if err := s.walletRepo.Save(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return wallet, nil
}

package approval

import (
	"context"
	"errors"
	"fmt"

	billingapp "github.com/estatekit/backend/internal/application/billing"
	ledgerapp "github.com/estatekit/backend/internal/application/ledger"
	"github.com/estatekit/backend/internal/domain/approval"
	"github.com/estatekit/backend/internal/domain/billing"
	"github.com/estatekit/backend/internal/domain/estate"
	"github.com/estatekit/backend/internal/domain/ledger"
	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/domain/shared/service"
	"github.com/estatekit/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApprovalService runs the two-party sign-off workflow: any authenticated
// actor submits a typed change request, a privileged reviewer approves or
// rejects it, and approval applies the requested mutation.
type ApprovalService struct {
	requestRepo     approval.Repository
	bankAccountRepo estate.BankAccountRepository
	houseRepo       estate.HouseRepository
	profileRepo     billing.BillingProfileRepository
	wallet          billingapp.WalletOperations
	notifier        service.Notifier
	auditLogger     service.AuditLogger
	logger          *zap.Logger
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	requestRepo approval.Repository,
	bankAccountRepo estate.BankAccountRepository,
	houseRepo estate.HouseRepository,
	profileRepo billing.BillingProfileRepository,
	wallet billingapp.WalletOperations,
	notifier service.Notifier,
	auditLogger service.AuditLogger,
	logger *zap.Logger,
) *ApprovalService {
	return &ApprovalService{
		requestRepo:     requestRepo,
		bankAccountRepo: bankAccountRepo,
		houseRepo:       houseRepo,
		profileRepo:     profileRepo,
		wallet:          wallet,
		notifier:        notifier,
		auditLogger:     auditLogger,
		logger:          logger,
	}
}

// CreateRequestInput represents a new approval request submission
type CreateRequestInput struct {
	Payload       approval.ChangePayload
	EntityID      string // approval.EntityIDPending for create-type requests
	CurrentValues any
	Reason        string
}

// CreateRequest submits a pending approval request. At most one pending
// request may exist per (request type, entity); a duplicate submission fails
// with DUPLICATE_PENDING_REQUEST. Reviewers are notified fire-and-forget.
func (s *ApprovalService) CreateRequest(ctx context.Context, actor *service.Actor, input CreateRequestInput) (*approval.ApprovalRequest, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "approval", "create")
	defer span.End()

	if input.Payload != nil {
		telemetry.SetAttribute(span, telemetry.SpanAttrRequestType, string(input.Payload.RequestType()))
	}

	request, err := approval.NewApprovalRequest(input.Payload, input.EntityID, input.CurrentValues, actor.UserID, input.Reason)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	pending, err := s.requestRepo.HasPending(ctx, request.Type, request.EntityID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending {
		telemetry.RecordError(span, shared.ErrDuplicatePendingRequest)
		return nil, shared.ErrDuplicatePendingRequest
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		// The partial unique index closes the race the HasPending check leaves open.
		if errors.Is(err, shared.ErrAlreadyExists) {
			err = shared.ErrDuplicatePendingRequest
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Approval request created",
		zap.String("request_id", request.ID.String()),
		zap.String("request_type", string(request.Type)),
		zap.String("requested_by", actor.UserID.String()),
	)

	s.auditLogger.LogAudit(ctx, service.AuditEntry{
		Action:      "approval.request",
		EntityType:  "approval_request",
		EntityID:    request.ID.String(),
		ActorID:     actor.UserID,
		Description: input.Reason,
	})

	if err := s.notifier.Notify(ctx, service.Notification{
		Kind:    service.NotificationApprovalRequested,
		Subject: fmt.Sprintf("Approval needed: %s", request.Type),
		Body:    input.Reason,
		Metadata: map[string]string{
			"request_id":   request.ID.String(),
			"request_type": string(request.Type),
		},
	}); err != nil {
		s.logger.Warn("Reviewer notification failed",
			zap.String("request_id", request.ID.String()),
			zap.Error(err),
		)
	}

	return request, nil
}

// ApproveRequest applies the requested change and flips the request to
// approved. The mutation runs first with the acting reviewer's identity; only
// after it succeeds is the status flipped through a conditional update, so of
// two racing approvals exactly one wins and the loser sees AlreadyProcessed.
// A failed mutation leaves the request pending.
func (s *ApprovalService) ApproveRequest(ctx context.Context, actor *service.Actor, requestID uuid.UUID, notes string) (*approval.ApprovalRequest, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "approval", "approve")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrRequestID, requestID.String())

	request, err := s.loadForReview(ctx, actor, requestID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	payload, err := request.Payload()
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.applyChange(ctx, request, payload, actor); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := request.MarkApproved(actor.UserID, notes); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.requestRepo.SaveDecisionIfPending(ctx, request); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			err = shared.ErrAlreadyProcessed
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Approval request approved",
		zap.String("request_id", request.ID.String()),
		zap.String("request_type", string(request.Type)),
		zap.String("reviewed_by", actor.UserID.String()),
	)

	s.finishReview(ctx, request, actor, "approval.approve", notes)
	return request, nil
}

// RejectRequest declines the request without applying anything
func (s *ApprovalService) RejectRequest(ctx context.Context, actor *service.Actor, requestID uuid.UUID, notes string) (*approval.ApprovalRequest, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "approval", "reject")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrRequestID, requestID.String())

	request, err := s.loadForReview(ctx, actor, requestID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := request.MarkRejected(actor.UserID, notes); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.requestRepo.SaveDecisionIfPending(ctx, request); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			err = shared.ErrAlreadyProcessed
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Approval request rejected",
		zap.String("request_id", request.ID.String()),
		zap.String("reviewed_by", actor.UserID.String()),
	)

	s.finishReview(ctx, request, actor, "approval.reject", notes)
	return request, nil
}

// GetRequest returns one approval request
func (s *ApprovalService) GetRequest(ctx context.Context, requestID uuid.UUID) (*approval.ApprovalRequest, error) {
	return s.requestRepo.FindByID(ctx, requestID)
}

// ListRequests lists approval requests matching the filter
func (s *ApprovalService) ListRequests(ctx context.Context, filter approval.RequestFilter) ([]approval.ApprovalRequest, error) {
	return s.requestRepo.FindAll(ctx, filter)
}

func (s *ApprovalService) loadForReview(ctx context.Context, actor *service.Actor, requestID uuid.UUID) (*approval.ApprovalRequest, error) {
	if !actor.Role.CanReviewApprovals() {
		return nil, shared.ErrUnauthorized
	}

	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status.IsTerminal() {
		return nil, shared.ErrAlreadyProcessed
	}
	return request, nil
}

// applyChange dispatches the requested mutation over the closed set of
// request types. The reviewer is passed in explicitly so applied records
// carry the identity of the approver, not the requester.
func (s *ApprovalService) applyChange(ctx context.Context, request *approval.ApprovalRequest, payload approval.ChangePayload, reviewer *service.Actor) error {
	switch p := payload.(type) {
	case approval.BankAccountCreatePayload:
		account, err := estate.NewBankAccount(p.BankName, p.AccountName, p.AccountNumber)
		if err != nil {
			return err
		}
		if err := s.bankAccountRepo.Save(ctx, account); err != nil {
			return fmt.Errorf("failed to create bank account: %w", err)
		}
		request.SetEntityID(account.ID.String())
		return nil

	case approval.BankAccountUpdatePayload:
		account, err := s.bankAccountRepo.FindByID(ctx, p.AccountID)
		if err != nil {
			return err
		}
		if err := account.Update(p.BankName, p.AccountName, p.AccountNumber); err != nil {
			return err
		}
		return s.bankAccountRepo.Save(ctx, account)

	case approval.BankAccountDeletePayload:
		return s.bankAccountRepo.Delete(ctx, p.AccountID)

	case approval.ProfileEffectiveDatePayload:
		profile, err := s.profileRepo.FindByID(ctx, p.ProfileID)
		if err != nil {
			return err
		}
		profile.SetEffectiveDate(p.EffectiveDate)
		return s.profileRepo.SaveWithLock(ctx, profile)

	case approval.PlotCountChangePayload:
		house, err := s.houseRepo.FindByID(ctx, p.HouseID)
		if err != nil {
			return err
		}
		if err := house.SetPlotCount(p.PlotCount); err != nil {
			return err
		}
		return s.houseRepo.SaveWithLock(ctx, house)

	case approval.PaymentVerificationPayload:
		houseID := p.HouseID
		_, err := s.wallet.CreditWallet(ctx, ledgerapp.CreditWalletRequest{
			ResidentID: p.ResidentID,
			HouseID:    &houseID,
			Amount:     p.Amount,
			Reason:     ledger.ReasonPayment,
			Description: fmt.Sprintf("Payment %s verified by %s",
				p.PaymentReference, reviewer.UserID),
		})
		if err != nil {
			return fmt.Errorf("failed to credit verified payment: %w", err)
		}
		return nil

	default:
		return shared.NewDomainError("INVALID_REQUEST_TYPE",
			fmt.Sprintf("No handler for request type %q", request.Type))
	}
}

func (s *ApprovalService) finishReview(ctx context.Context, request *approval.ApprovalRequest, actor *service.Actor, action, notes string) {
	s.auditLogger.LogAudit(ctx, service.AuditEntry{
		Action:      action,
		EntityType:  "approval_request",
		EntityID:    request.ID.String(),
		ActorID:     actor.UserID,
		Description: notes,
		NewValues: map[string]interface{}{
			"status":       string(request.Status),
			"request_type": string(request.Type),
		},
	})

	if err := s.notifier.Notify(ctx, service.Notification{
		Kind:        service.NotificationApprovalResolved,
		RecipientID: request.RequestedBy,
		Subject:     fmt.Sprintf("Request %s %s", request.Type, request.Status),
		Body:        notes,
		Metadata:    map[string]string{"request_id": request.ID.String()},
	}); err != nil {
		s.logger.Warn("Requester notification failed",
			zap.String("request_id", request.ID.String()),
			zap.Error(err),
		)
	}
}

package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/estatekit/backend/internal/domain/billing"
	"github.com/estatekit/backend/internal/domain/estate"
	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/domain/shared/service"
	"github.com/estatekit/backend/internal/domain/shared/valueobject"
	"github.com/estatekit/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Levy outcome codes per (house, profile) pair
const (
	LevyOutcomeGenerated = "generated"
	LevyOutcomeSkipped   = "skipped"
	LevyOutcomeError     = "error"
)

// LevyConfig carries the tunables of the levy generation engine
type LevyConfig struct {
	DueWindowDays int
}

// LevyService generates one-time levy invoices per house and billing profile,
// exactly once per (house, profile) pair.
type LevyService struct {
	houseRepo         estate.HouseRepository
	residentHouseRepo estate.ResidentHouseRepository
	profileRepo       billing.BillingProfileRepository
	historyRepo       billing.LevyHistoryRepository
	invoiceRepo       billing.InvoiceRepository
	wallet            WalletOperations
	notifier          service.Notifier
	config            LevyConfig
	logger            *zap.Logger
}

// NewLevyService creates a new LevyService
func NewLevyService(
	houseRepo estate.HouseRepository,
	residentHouseRepo estate.ResidentHouseRepository,
	profileRepo billing.BillingProfileRepository,
	historyRepo billing.LevyHistoryRepository,
	invoiceRepo billing.InvoiceRepository,
	wallet WalletOperations,
	notifier service.Notifier,
	config LevyConfig,
	logger *zap.Logger,
) *LevyService {
	if config.DueWindowDays <= 0 {
		config.DueWindowDays = 30
	}
	return &LevyService{
		houseRepo:         houseRepo,
		residentHouseRepo: residentHouseRepo,
		profileRepo:       profileRepo,
		historyRepo:       historyRepo,
		invoiceRepo:       invoiceRepo,
		wallet:            wallet,
		notifier:          notifier,
		config:            config,
		logger:            logger,
	}
}

// ProfileLevyResult reports the outcome for one (house, profile) pair
type ProfileLevyResult struct {
	ProfileID     uuid.UUID       `json:"profile_id"`
	ProfileName   string          `json:"profile_name"`
	Outcome       string          `json:"outcome"`
	Reason        string          `json:"reason,omitempty"`
	InvoiceID     *uuid.UUID      `json:"invoice_id,omitempty"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	AutoSettled   decimal.Decimal `json:"auto_settled"`
}

// HouseLevyResult aggregates the levy run for one house
type HouseLevyResult struct {
	HouseID   uuid.UUID           `json:"house_id"`
	Profiles  []ProfileLevyResult `json:"profiles"`
	Generated int                 `json:"generated"`
	Skipped   int                 `json:"skipped"`
	Errored   int                 `json:"errored"`
}

// BatchLevyResult aggregates a retroactive run across all active houses
type BatchLevyResult struct {
	Houses    []HouseLevyResult `json:"houses"`
	Generated int               `json:"generated"`
	Skipped   int               `json:"skipped"`
	Errored   int               `json:"errored"`
}

// GenerateLeviesForHouse applies every active one-time billing profile to a
// house. Already-applied profiles skip silently; a failure on one profile is
// collected and never aborts the remaining profiles.
func (s *LevyService) GenerateLeviesForHouse(ctx context.Context, houseID uuid.UUID, actorID uuid.UUID) (*HouseLevyResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "levy", "generate_house")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrHouseID, houseID.String())

	house, err := s.houseRepo.FindByID(ctx, houseID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	profiles, err := s.profileRepo.FindActiveOneTime(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list billing profiles: %w", err)
	}

	result := s.applyProfiles(ctx, house, profiles, actorID)
	telemetry.SetAttributes(span,
		"generated", result.Generated,
		"skipped", result.Skipped,
		"errored", result.Errored,
	)
	return result, nil
}

// GenerateLeviesForAllHouses runs levy generation retroactively across every
// active house. One bad house never aborts the batch; its error is recorded
// in that house's result items.
func (s *LevyService) GenerateLeviesForAllHouses(ctx context.Context, actorID uuid.UUID) (*BatchLevyResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "levy", "generate_all")
	defer span.End()

	houses, err := s.houseRepo.FindActive(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list active houses: %w", err)
	}

	profiles, err := s.profileRepo.FindActiveOneTime(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list billing profiles: %w", err)
	}

	batch := &BatchLevyResult{}
	for i := range houses {
		houseResult := s.applyProfiles(ctx, &houses[i], profiles, actorID)
		batch.Houses = append(batch.Houses, *houseResult)
		batch.Generated += houseResult.Generated
		batch.Skipped += houseResult.Skipped
		batch.Errored += houseResult.Errored
	}

	s.logger.Info("Retroactive levy run finished",
		zap.Int("houses", len(houses)),
		zap.Int("generated", batch.Generated),
		zap.Int("skipped", batch.Skipped),
		zap.Int("errored", batch.Errored),
	)

	telemetry.SetAttributes(span,
		"houses", len(houses),
		"generated", batch.Generated,
		"errored", batch.Errored,
	)
	return batch, nil
}

func (s *LevyService) applyProfiles(ctx context.Context, house *estate.House, profiles []billing.BillingProfile, actorID uuid.UUID) *HouseLevyResult {
	result := &HouseLevyResult{HouseID: house.ID}

	assignments, err := s.residentHouseRepo.FindActiveByHouse(ctx, house.ID)
	if err != nil {
		for i := range profiles {
			result.Profiles = append(result.Profiles, errorOutcome(&profiles[i], fmt.Sprintf("failed to load residents: %v", err)))
		}
		result.Errored = len(profiles)
		return result
	}

	primary, found := estate.PrimaryResident(assignments)

	for i := range profiles {
		item := s.applyProfile(ctx, house, &profiles[i], primary, found, actorID)
		result.Profiles = append(result.Profiles, item)
		switch item.Outcome {
		case LevyOutcomeGenerated:
			result.Generated++
		case LevyOutcomeSkipped:
			result.Skipped++
		default:
			result.Errored++
		}
	}

	return result
}

// applyProfile generates one levy invoice for a (house, profile) pair. The
// invoice, its items, and the history row commit in one transaction; the
// uniqueness constraint on the history serialises concurrent runs, and the
// loser reports the pair as already applied with nothing persisted.
func (s *LevyService) applyProfile(ctx context.Context, house *estate.House, profile *billing.BillingProfile, primary estate.ResidentHouse, hasPrimary bool, actorID uuid.UUID) ProfileLevyResult {
	item := ProfileLevyResult{
		ProfileID:   profile.ID,
		ProfileName: profile.Name,
		Amount:      decimal.Zero,
		AutoSettled: decimal.Zero,
	}

	if !hasPrimary {
		item.Outcome = LevyOutcomeSkipped
		item.Reason = "house has no active residents"
		return item
	}
	if !profile.AppliesToRole(primary.Role) {
		item.Outcome = LevyOutcomeSkipped
		item.Reason = fmt.Sprintf("profile does not apply to role %s", primary.Role)
		return item
	}

	applied, err := s.historyRepo.Exists(ctx, house.ID, profile.ID)
	if err != nil {
		item.Outcome = LevyOutcomeError
		item.Reason = fmt.Sprintf("failed to check levy history: %v", err)
		return item
	}
	if applied {
		item.Outcome = LevyOutcomeSkipped
		item.Reason = "levy already applied"
		return item
	}

	number, err := s.invoiceRepo.NextInvoiceNumber(ctx, billing.InvoiceTypeLevy)
	if err != nil {
		item.Outcome = LevyOutcomeError
		item.Reason = fmt.Sprintf("failed to generate invoice number: %v", err)
		return item
	}

	items := make([]billing.NewInvoiceItemInput, len(profile.Items))
	for i, pi := range profile.Items {
		items[i] = billing.NewInvoiceItemInput{
			Description: pi.Description,
			Amount:      valueobject.NewMoneyNGN(pi.Amount),
		}
	}

	profileID := profile.ID
	invoice, err := billing.NewInvoice(
		primary.ResidentID, house.ID, &profileID,
		number, items,
		time.Now().AddDate(0, 0, s.config.DueWindowDays),
		billing.InvoiceTypeLevy,
		profile.BuildSnapshot(),
	)
	if err != nil {
		item.Outcome = LevyOutcomeError
		item.Reason = err.Error()
		return item
	}

	history, err := billing.NewHouseLevyHistory(house.ID, profile.ID, primary.ResidentID, invoice.ID, actorID)
	if err != nil {
		item.Outcome = LevyOutcomeError
		item.Reason = err.Error()
		return item
	}

	if err := s.historyRepo.CommitLevy(ctx, invoice, history); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			item.Outcome = LevyOutcomeSkipped
			item.Reason = "levy already applied"
			return item
		}
		item.Outcome = LevyOutcomeError
		item.Reason = fmt.Sprintf("failed to persist levy: %v", err)
		return item
	}

	item.Outcome = LevyOutcomeGenerated
	invoiceID := invoice.ID
	item.InvoiceID = &invoiceID
	item.InvoiceNumber = invoice.InvoiceNumber
	item.Amount = invoice.AmountDue

	// Auto-settle from the resident's wallet; a settle failure leaves the
	// invoice outstanding, it does not undo the generation.
	allocation, err := s.wallet.DebitWalletForInvoice(ctx, primary.ResidentID, invoice)
	if err != nil {
		s.logger.Warn("Levy auto-settle failed",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.Error(err),
		)
	} else if allocation != nil {
		item.AutoSettled = allocation.Amount
	}

	s.logger.Info("Levy invoice generated",
		zap.String("house_id", house.ID.String()),
		zap.String("profile", profile.Name),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("amount", invoice.AmountDue.String()),
	)

	if err := s.notifier.Notify(ctx, service.Notification{
		Kind:        service.NotificationLevyInvoiceGenerated,
		RecipientID: primary.ResidentID,
		Subject:     fmt.Sprintf("Levy invoice %s issued", invoice.InvoiceNumber),
		Body:        fmt.Sprintf("%s: %s due %s", profile.Name, invoice.AmountDue.StringFixed(2), invoice.DueDate.Format("2006-01-02")),
	}); err != nil {
		s.logger.Warn("Levy notification failed",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.Error(err),
		)
	}

	return item
}

func errorOutcome(profile *billing.BillingProfile, reason string) ProfileLevyResult {
	return ProfileLevyResult{
		ProfileID:   profile.ID,
		ProfileName: profile.Name,
		Outcome:     LevyOutcomeError,
		Reason:      reason,
		Amount:      decimal.Zero,
		AutoSettled: decimal.Zero,
	}
}

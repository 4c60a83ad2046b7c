package billing

import (
	"strings"
	"time"

	"github.com/estatekit/backend/internal/domain/estate"
	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TargetType determines whether a profile binds to the house itself or to the
// role of its primary resident
type TargetType string

const (
	TargetTypeHouse    TargetType = "house"
	TargetTypeResident TargetType = "resident"
)

// IsValid checks if the target type is valid
func (t TargetType) IsValid() bool {
	return t == TargetTypeHouse || t == TargetTypeResident
}

// BillingItem is one charge line on a billing profile
type BillingItem struct {
	shared.BaseEntity
	BillingProfileID uuid.UUID       `json:"billing_profile_id"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
}

// BillingProfile defines a chargeable product: recurring dues or a one-time
// levy. One-time profiles drive the levy generation engine.
type BillingProfile struct {
	shared.BaseAggregateRoot
	Name              string                `json:"name"`
	TargetType        TargetType            `json:"target_type"`
	ApplicableRoles   []estate.ResidentRole `json:"applicable_roles"`
	OneTime           bool                  `json:"one_time"`
	IsDevelopmentLevy bool                  `json:"is_development_levy"`
	EffectiveDate     time.Time             `json:"effective_date"`
	Active            bool                  `json:"active"`
	Items             []BillingItem         `json:"items"`
}

// NewBillingProfileItemInput carries one charge line for a new profile
type NewBillingProfileItemInput struct {
	Description string
	Amount      valueobject.Money
}

// NewBillingProfile creates a billing profile with its charge items
func NewBillingProfile(
	name string,
	targetType TargetType,
	applicableRoles []estate.ResidentRole,
	oneTime, isDevelopmentLevy bool,
	effectiveDate time.Time,
	items []NewBillingProfileItemInput,
) (*BillingProfile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_PROFILE_NAME", "Billing profile name cannot be empty")
	}
	if !targetType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TARGET_TYPE", "Target type is not valid")
	}
	if targetType == TargetTypeResident && len(applicableRoles) == 0 {
		return nil, shared.NewDomainError("INVALID_ROLES", "Resident-targeted profiles need at least one applicable role")
	}
	for _, r := range applicableRoles {
		if !r.IsValid() {
			return nil, shared.NewDomainError("INVALID_ROLES", "Applicable roles contain an unknown role")
		}
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Billing profile must have at least one item")
	}

	p := &BillingProfile{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		TargetType:        targetType,
		ApplicableRoles:   applicableRoles,
		OneTime:           oneTime,
		IsDevelopmentLevy: isDevelopmentLevy,
		EffectiveDate:     effectiveDate,
		Active:            true,
	}

	for _, in := range items {
		if in.Amount.Amount().LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_ITEMS", "Billing item amount must be positive")
		}
		p.Items = append(p.Items, BillingItem{
			BaseEntity:       shared.NewBaseEntity(),
			BillingProfileID: p.ID,
			Description:      in.Description,
			Amount:           in.Amount.Amount(),
		})
	}

	return p, nil
}

// TotalAmount sums the profile's charge items. Levy totals are flat fees and
// are never multiplied by a house's plot count.
func (p *BillingProfile) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.Amount)
	}
	return total
}

// AppliesToRole decides whether this profile applies to a house whose primary
// resident holds the given role. Development levies bind to ownership, never
// to tenancy.
func (p *BillingProfile) AppliesToRole(role estate.ResidentRole) bool {
	if p.IsDevelopmentLevy && role == estate.RoleTenant {
		return false
	}
	if p.TargetType == TargetTypeHouse {
		return true
	}
	for _, r := range p.ApplicableRoles {
		if r == role {
			return true
		}
	}
	return false
}

// BuildSnapshot captures the profile's items and amounts in effect now
func (p *BillingProfile) BuildSnapshot() RateSnapshot {
	items := make([]RateSnapshotItem, len(p.Items))
	for i, item := range p.Items {
		items[i] = RateSnapshotItem{
			Description: item.Description,
			Amount:      item.Amount,
		}
	}
	profileID := p.ID
	return RateSnapshot{
		ProfileID:   &profileID,
		ProfileName: p.Name,
		CapturedAt:  time.Now(),
		Items:       items,
	}
}

// SetEffectiveDate changes when the profile takes effect. The mutation is
// policy-sensitive and is reached only through an approved request.
func (p *BillingProfile) SetEffectiveDate(effectiveDate time.Time) {
	p.EffectiveDate = effectiveDate
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate excludes the profile from future levy runs
func (p *BillingProfile) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

package models

import (
	"strings"
	"time"

	"github.com/estatekit/backend/internal/domain/billing"
	"github.com/estatekit/backend/internal/domain/estate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func rolesToColumn(roles []estate.ResidentRole) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

func rolesFromColumn(column string) []estate.ResidentRole {
	if column == "" {
		return nil
	}
	parts := strings.Split(column, ",")
	roles := make([]estate.ResidentRole, 0, len(parts))
	for _, p := range parts {
		roles = append(roles, estate.ResidentRole(strings.TrimSpace(p)))
	}
	return roles
}

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	ResidentID       uuid.UUID             `gorm:"type:uuid;not null;index:idx_invoices_resident_house"`
	HouseID          uuid.UUID             `gorm:"type:uuid;not null;index:idx_invoices_resident_house"`
	BillingProfileID *uuid.UUID            `gorm:"type:uuid;index"`
	InvoiceNumber    string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	AmountDue        decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	AmountPaid       decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Status           billing.InvoiceStatus `gorm:"type:varchar(20);not null;index"`
	Type             billing.InvoiceType   `gorm:"type:varchar(20);not null;index"`
	Snapshot         billing.RateSnapshot  `gorm:"type:jsonb"`
	DueDate          time.Time             `gorm:"not null;index"`
	PeriodStart      *time.Time
	PeriodEnd        *time.Time
	Items            []InvoiceItemModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice with its items
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ResidentID:        m.ResidentID,
		HouseID:           m.HouseID,
		BillingProfileID:  m.BillingProfileID,
		InvoiceNumber:     m.InvoiceNumber,
		AmountDue:         m.AmountDue,
		AmountPaid:        m.AmountPaid,
		Status:            m.Status,
		Type:              m.Type,
		Snapshot:          m.Snapshot,
		DueDate:           m.DueDate,
		PeriodStart:       m.PeriodStart,
		PeriodEnd:         m.PeriodEnd,
	}
	for i := range m.Items {
		inv.Items = append(inv.Items, *m.Items[i].ToDomain())
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.ResidentID = inv.ResidentID
	m.HouseID = inv.HouseID
	m.BillingProfileID = inv.BillingProfileID
	m.InvoiceNumber = inv.InvoiceNumber
	m.AmountDue = inv.AmountDue
	m.AmountPaid = inv.AmountPaid
	m.Status = inv.Status
	m.Type = inv.Type
	m.Snapshot = inv.Snapshot
	m.DueDate = inv.DueDate
	m.PeriodStart = inv.PeriodStart
	m.PeriodEnd = inv.PeriodEnd
	m.Items = make([]InvoiceItemModel, 0, len(inv.Items))
	for i := range inv.Items {
		m.Items = append(m.Items, *InvoiceItemModelFromDomain(&inv.Items[i]))
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceItemModel is the persistence model for one billed invoice line.
type InvoiceItemModel struct {
	BaseModel
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem
func (m *InvoiceItemModel) ToDomain() *billing.InvoiceItem {
	return &billing.InvoiceItem{
		BaseEntity:  m.BaseModel.ToDomain(),
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Amount:      m.Amount,
	}
}

// InvoiceItemModelFromDomain creates a new persistence model from a domain InvoiceItem
func InvoiceItemModelFromDomain(item *billing.InvoiceItem) *InvoiceItemModel {
	m := &InvoiceItemModel{}
	m.FromDomainBaseEntity(item.BaseEntity)
	m.InvoiceID = item.InvoiceID
	m.Description = item.Description
	m.Amount = item.Amount
	return m
}

// CorrectionNoteModel is the persistence model for credit and debit notes.
type CorrectionNoteModel struct {
	BaseModel
	Type              billing.CorrectionType `gorm:"type:varchar(10);not null"`
	OriginalInvoiceID uuid.UUID              `gorm:"type:uuid;not null;index"`
	BatchID           uuid.UUID              `gorm:"type:uuid;not null;index"`
	Amount            decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Description       string                 `gorm:"type:varchar(500);not null"`
}

// TableName returns the table name for GORM
func (CorrectionNoteModel) TableName() string {
	return "correction_notes"
}

// ToDomain converts the persistence model to a domain CorrectionNote
func (m *CorrectionNoteModel) ToDomain() *billing.CorrectionNote {
	return &billing.CorrectionNote{
		BaseEntity:        m.BaseModel.ToDomain(),
		Type:              m.Type,
		OriginalInvoiceID: m.OriginalInvoiceID,
		BatchID:           m.BatchID,
		Amount:            m.Amount,
		Description:       m.Description,
	}
}

// CorrectionNoteModelFromDomain creates a new persistence model from a domain CorrectionNote
func CorrectionNoteModelFromDomain(note *billing.CorrectionNote) *CorrectionNoteModel {
	m := &CorrectionNoteModel{}
	m.FromDomainBaseEntity(note.BaseEntity)
	m.Type = note.Type
	m.OriginalInvoiceID = note.OriginalInvoiceID
	m.BatchID = note.BatchID
	m.Amount = note.Amount
	m.Description = note.Description
	return m
}

// BillingProfileModel is the persistence model for the BillingProfile aggregate root.
// Applicable roles are stored as a comma-separated list; the set is tiny and
// only ever matched in full.
type BillingProfileModel struct {
	AggregateModel
	Name              string             `gorm:"type:varchar(200);not null"`
	TargetType        billing.TargetType `gorm:"type:varchar(20);not null"`
	ApplicableRoles   string             `gorm:"type:varchar(200)"`
	OneTime           bool               `gorm:"not null;default:false;index"`
	IsDevelopmentLevy bool               `gorm:"not null;default:false"`
	EffectiveDate     time.Time          `gorm:"not null"`
	Active            bool               `gorm:"not null;default:true;index"`
	Items             []BillingItemModel `gorm:"foreignKey:BillingProfileID;references:ID"`
}

// TableName returns the table name for GORM
func (BillingProfileModel) TableName() string {
	return "billing_profiles"
}

// ToDomain converts the persistence model to a domain BillingProfile with its items
func (m *BillingProfileModel) ToDomain() *billing.BillingProfile {
	p := &billing.BillingProfile{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		TargetType:        m.TargetType,
		ApplicableRoles:   rolesFromColumn(m.ApplicableRoles),
		OneTime:           m.OneTime,
		IsDevelopmentLevy: m.IsDevelopmentLevy,
		EffectiveDate:     m.EffectiveDate,
		Active:            m.Active,
	}
	for i := range m.Items {
		p.Items = append(p.Items, *m.Items[i].ToDomain())
	}
	return p
}

// FromDomain populates the persistence model from a domain BillingProfile
func (m *BillingProfileModel) FromDomain(p *billing.BillingProfile) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.TargetType = p.TargetType
	m.ApplicableRoles = rolesToColumn(p.ApplicableRoles)
	m.OneTime = p.OneTime
	m.IsDevelopmentLevy = p.IsDevelopmentLevy
	m.EffectiveDate = p.EffectiveDate
	m.Active = p.Active
	m.Items = make([]BillingItemModel, 0, len(p.Items))
	for i := range p.Items {
		m.Items = append(m.Items, *BillingItemModelFromDomain(&p.Items[i]))
	}
}

// BillingProfileModelFromDomain creates a new persistence model from a domain BillingProfile
func BillingProfileModelFromDomain(p *billing.BillingProfile) *BillingProfileModel {
	m := &BillingProfileModel{}
	m.FromDomain(p)
	return m
}

// BillingItemModel is the persistence model for one billing profile charge line.
type BillingItemModel struct {
	BaseModel
	BillingProfileID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description      string          `gorm:"type:varchar(500);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (BillingItemModel) TableName() string {
	return "billing_items"
}

// ToDomain converts the persistence model to a domain BillingItem
func (m *BillingItemModel) ToDomain() *billing.BillingItem {
	return &billing.BillingItem{
		BaseEntity:       m.BaseModel.ToDomain(),
		BillingProfileID: m.BillingProfileID,
		Description:      m.Description,
		Amount:           m.Amount,
	}
}

// BillingItemModelFromDomain creates a new persistence model from a domain BillingItem
func BillingItemModelFromDomain(item *billing.BillingItem) *BillingItemModel {
	m := &BillingItemModel{}
	m.FromDomainBaseEntity(item.BaseEntity)
	m.BillingProfileID = item.BillingProfileID
	m.Description = item.Description
	m.Amount = item.Amount
	return m
}

// HouseLevyHistoryModel is the persistence model for levy application records.
// The unique index on (house_id, billing_profile_id) is the idempotency guard
// that serialises concurrent levy runs.
type HouseLevyHistoryModel struct {
	BaseModel
	HouseID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_levy_history_house_profile,priority:1"`
	BillingProfileID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_levy_history_house_profile,priority:2"`
	ResidentID       uuid.UUID `gorm:"type:uuid;not null;index"`
	InvoiceID        uuid.UUID `gorm:"type:uuid;not null"`
	AppliedBy        uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (HouseLevyHistoryModel) TableName() string {
	return "house_levy_histories"
}

// ToDomain converts the persistence model to a domain HouseLevyHistory
func (m *HouseLevyHistoryModel) ToDomain() *billing.HouseLevyHistory {
	return &billing.HouseLevyHistory{
		BaseEntity:       m.BaseModel.ToDomain(),
		HouseID:          m.HouseID,
		BillingProfileID: m.BillingProfileID,
		ResidentID:       m.ResidentID,
		InvoiceID:        m.InvoiceID,
		AppliedBy:        m.AppliedBy,
	}
}

// HouseLevyHistoryModelFromDomain creates a new persistence model from a domain HouseLevyHistory
func HouseLevyHistoryModelFromDomain(h *billing.HouseLevyHistory) *HouseLevyHistoryModel {
	m := &HouseLevyHistoryModel{}
	m.FromDomainBaseEntity(h.BaseEntity)
	m.HouseID = h.HouseID
	m.BillingProfileID = h.BillingProfileID
	m.ResidentID = h.ResidentID
	m.InvoiceID = h.InvoiceID
	m.AppliedBy = h.AppliedBy
	return m
}

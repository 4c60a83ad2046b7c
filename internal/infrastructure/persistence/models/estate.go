package models

import (
	"github.com/estatekit/backend/internal/domain/estate"
	"github.com/google/uuid"
)

// HouseModel is the persistence model for the House aggregate root.
type HouseModel struct {
	AggregateModel
	HouseNumber string `gorm:"type:varchar(50);not null"`
	Street      string `gorm:"type:varchar(200)"`
	PlotCount   int    `gorm:"not null;default:1"`
	Active      bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (HouseModel) TableName() string {
	return "houses"
}

// ToDomain converts the persistence model to a domain House
func (m *HouseModel) ToDomain() *estate.House {
	return &estate.House{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		HouseNumber:       m.HouseNumber,
		Street:            m.Street,
		PlotCount:         m.PlotCount,
		Active:            m.Active,
	}
}

// FromDomain populates the persistence model from a domain House
func (m *HouseModel) FromDomain(h *estate.House) {
	m.FromDomainAggregateRoot(h.BaseAggregateRoot)
	m.HouseNumber = h.HouseNumber
	m.Street = h.Street
	m.PlotCount = h.PlotCount
	m.Active = h.Active
}

// HouseModelFromDomain creates a new persistence model from a domain House
func HouseModelFromDomain(h *estate.House) *HouseModel {
	m := &HouseModel{}
	m.FromDomain(h)
	return m
}

// ResidentModel is the persistence model for the Resident aggregate root.
type ResidentModel struct {
	AggregateModel
	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100);not null"`
	Email     string `gorm:"type:varchar(200);index"`
	Phone     string `gorm:"type:varchar(30)"`
	Active    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ResidentModel) TableName() string {
	return "residents"
}

// ToDomain converts the persistence model to a domain Resident
func (m *ResidentModel) ToDomain() *estate.Resident {
	return &estate.Resident{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Email:             m.Email,
		Phone:             m.Phone,
		Active:            m.Active,
	}
}

// ResidentModelFromDomain creates a new persistence model from a domain Resident
func ResidentModelFromDomain(r *estate.Resident) *ResidentModel {
	m := &ResidentModel{}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.FirstName = r.FirstName
	m.LastName = r.LastName
	m.Email = r.Email
	m.Phone = r.Phone
	m.Active = r.Active
	return m
}

// ResidentHouseModel is the persistence model for role assignments.
type ResidentHouseModel struct {
	BaseModel
	ResidentID uuid.UUID           `gorm:"type:uuid;not null;index"`
	HouseID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	Role       estate.ResidentRole `gorm:"type:varchar(30);not null"`
	Active     bool                `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ResidentHouseModel) TableName() string {
	return "resident_houses"
}

// ToDomain converts the persistence model to a domain ResidentHouse
func (m *ResidentHouseModel) ToDomain() *estate.ResidentHouse {
	return &estate.ResidentHouse{
		BaseEntity: m.BaseModel.ToDomain(),
		ResidentID: m.ResidentID,
		HouseID:    m.HouseID,
		Role:       m.Role,
		Active:     m.Active,
	}
}

// ResidentHouseModelFromDomain creates a new persistence model from a domain ResidentHouse
func ResidentHouseModelFromDomain(a *estate.ResidentHouse) *ResidentHouseModel {
	m := &ResidentHouseModel{}
	m.FromDomainBaseEntity(a.BaseEntity)
	m.ResidentID = a.ResidentID
	m.HouseID = a.HouseID
	m.Role = a.Role
	m.Active = a.Active
	return m
}

// BankAccountModel is the persistence model for estate payout accounts.
type BankAccountModel struct {
	AggregateModel
	BankName      string `gorm:"type:varchar(100);not null"`
	AccountName   string `gorm:"type:varchar(200);not null"`
	AccountNumber string `gorm:"type:varchar(30);not null"`
	Active        bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (BankAccountModel) TableName() string {
	return "bank_accounts"
}

// ToDomain converts the persistence model to a domain BankAccount
func (m *BankAccountModel) ToDomain() *estate.BankAccount {
	return &estate.BankAccount{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BankName:          m.BankName,
		AccountName:       m.AccountName,
		AccountNumber:     m.AccountNumber,
		Active:            m.Active,
	}
}

// BankAccountModelFromDomain creates a new persistence model from a domain BankAccount
func BankAccountModelFromDomain(b *estate.BankAccount) *BankAccountModel {
	m := &BankAccountModel{}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.BankName = b.BankName
	m.AccountName = b.AccountName
	m.AccountNumber = b.AccountNumber
	m.Active = b.Active
	return m
}

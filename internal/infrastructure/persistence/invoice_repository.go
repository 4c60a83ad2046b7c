package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/estatekit/backend/internal/domain/billing"
	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an invoice by its human-readable number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("invoice_number = ?", invoiceNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOutstanding lists unpaid and partially paid invoices for a resident/house
// pair, oldest due date first. The wallet sweep settles them in this order.
func (r *GormInvoiceRepository) FindOutstanding(ctx context.Context, residentID, houseID uuid.UUID) ([]billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("resident_id = ? AND house_id = ?", residentID, houseID).
		Where("status IN ?", []billing.InvoiceStatus{billing.InvoiceStatusUnpaid, billing.InvoiceStatusPartiallyPaid}).
		Order("due_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(invoiceModels), nil
}

// FindAll lists invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel

	query := r.db.WithContext(ctx).Preload("Items")

	if filter.ResidentID != nil {
		query = query.Where("resident_id = ?", *filter.ResidentID)
	}
	if filter.HouseID != nil {
		query = query.Where("house_id = ?", *filter.HouseID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Order("due_date ASC").Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(invoiceModels), nil
}

// Create persists the invoice and its items atomically
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := txn.Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		return nil
	})
}

// SaveWithLock updates the invoice with optimistic locking (version check)
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	return saveInvoiceWithLock(r.db.WithContext(ctx), invoice)
}

// saveInvoiceWithLock runs the version-checked invoice update on the given
// handle so the allocation repository can reuse it inside a transaction.
// Items are never rewritten here; only the payment state moves.
func saveInvoiceWithLock(db *gorm.DB, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	result := db.
		Model(&models.InvoiceModel{}).
		Select("amount_paid", "status", "version", "updated_at").
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// NextInvoiceNumber generates a unique human-readable invoice number.
// Numbers follow PREFIX-YYYY-NNNNNN. The counter comes from a database
// sequence, so concurrent callers always draw distinct numbers; the sequence
// is shared across types and years, which leaves gaps but never collisions.
func (r *GormInvoiceRepository) NextInvoiceNumber(ctx context.Context, invoiceType billing.InvoiceType) (string, error) {
	var seq int64
	if err := r.db.WithContext(ctx).
		Raw("SELECT nextval('invoice_number_seq')").
		Scan(&seq).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%06d", invoiceNumberPrefix(invoiceType), time.Now().Year(), seq), nil
}

func invoiceNumberPrefix(invoiceType billing.InvoiceType) string {
	switch invoiceType {
	case billing.InvoiceTypeLevy:
		return "LEVY"
	case billing.InvoiceTypeCorrection:
		return "COR"
	default:
		return "INV"
	}
}

func invoicesToDomain(invoiceModels []models.InvoiceModel) []billing.Invoice {
	invoices := make([]billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)

package persistence

import (
	"context"

	"github.com/estatekit/backend/internal/domain/billing"
	"github.com/estatekit/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCorrectionNoteRepository implements CorrectionNoteRepository using GORM
type GormCorrectionNoteRepository struct {
	db *gorm.DB
}

// NewGormCorrectionNoteRepository creates a new GormCorrectionNoteRepository
func NewGormCorrectionNoteRepository(db *gorm.DB) *GormCorrectionNoteRepository {
	return &GormCorrectionNoteRepository{db: db}
}

// CreateBatch persists all notes of one correction atomically; if persisting
// any note fails, none are visible.
func (r *GormCorrectionNoteRepository) CreateBatch(ctx context.Context, notes []billing.CorrectionNote) error {
	if len(notes) == 0 {
		return nil
	}
	noteModels := make([]models.CorrectionNoteModel, len(notes))
	for i := range notes {
		noteModels[i] = *models.CorrectionNoteModelFromDomain(&notes[i])
	}
	return r.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		return txn.Create(&noteModels).Error
	})
}

// FindByInvoice lists the notes recorded against an invoice
func (r *GormCorrectionNoteRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]billing.CorrectionNote, error) {
	var noteModels []models.CorrectionNoteModel
	if err := r.db.WithContext(ctx).
		Where("original_invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&noteModels).Error; err != nil {
		return nil, err
	}
	notes := make([]billing.CorrectionNote, len(noteModels))
	for i := range noteModels {
		notes[i] = *noteModels[i].ToDomain()
	}
	return notes, nil
}

// Ensure GormCorrectionNoteRepository implements CorrectionNoteRepository
var _ billing.CorrectionNoteRepository = (*GormCorrectionNoteRepository)(nil)

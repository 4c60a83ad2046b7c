package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/estatekit/backend/internal/domain/billing"
	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func makeTestLevyHistory(t *testing.T) *billing.HouseLevyHistory {
	t.Helper()
	history, err := billing.NewHouseLevyHistory(uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	return history
}

func TestGormLevyHistoryRepository_Exists(t *testing.T) {
	t.Run("reports applied levy", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLevyHistoryRepository(gormDB)

		houseID := uuid.New()
		profileID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "house_levy_histories" WHERE house_id = \$1 AND billing_profile_id = \$2`).
			WithArgs(houseID, profileID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.Exists(context.Background(), houseID, profileID)

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports unapplied levy", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLevyHistoryRepository(gormDB)

		houseID := uuid.New()
		profileID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "house_levy_histories" WHERE house_id = \$1 AND billing_profile_id = \$2`).
			WithArgs(houseID, profileID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.Exists(context.Background(), houseID, profileID)

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func makeTestLevyInvoice(t *testing.T) *billing.Invoice {
	t.Helper()
	invoice, err := billing.NewInvoice(uuid.New(), uuid.New(), nil, "LEVY-2026-000300",
		[]billing.NewInvoiceItemInput{{Description: "Development Levy", Amount: valueobject.NewMoneyNGNFromFloat(50000)}},
		time.Now().AddDate(0, 0, 30), billing.InvoiceTypeLevy, billing.RateSnapshot{})
	require.NoError(t, err)
	return invoice
}

func TestGormLevyHistoryRepository_CommitLevy(t *testing.T) {
	t.Run("commits invoice, items and history in one transaction", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLevyHistoryRepository(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "invoices"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "invoice_items"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "house_levy_histories"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CommitLevy(context.Background(), makeTestLevyInvoice(t), makeTestLevyHistory(t))

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate history rolls the invoice back as ErrAlreadyExists", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLevyHistoryRepository(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "invoices"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "invoice_items"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "house_levy_histories"`).
			WillReturnError(gorm.ErrDuplicatedKey)
		mock.ExpectRollback()

		err := repo.CommitLevy(context.Background(), makeTestLevyInvoice(t), makeTestLevyHistory(t))

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed invoice insert leaves no history behind", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLevyHistoryRepository(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "invoices"`).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.CommitLevy(context.Background(), makeTestLevyInvoice(t), makeTestLevyHistory(t))

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/estatekit/backend/internal/domain/approval"
	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func makeTestApprovalRequest(t *testing.T) *approval.ApprovalRequest {
	t.Helper()
	houseID := uuid.New()
	payload := approval.PlotCountChangePayload{HouseID: houseID, PlotCount: 3}
	request, err := approval.NewApprovalRequest(payload, houseID.String(), map[string]int{"plot_count": 2}, uuid.New(), "house was subdivided")
	require.NoError(t, err)
	return request
}

func TestGormApprovalRequestRepository_HasPending(t *testing.T) {
	t.Run("reports pending request for entity", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormApprovalRequestRepository(gormDB)

		entityID := uuid.New().String()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "approval_requests" WHERE request_type = \$1 AND entity_id = \$2 AND status = \$3`).
			WithArgs(approval.RequestTypePlotCountChange, entityID, approval.RequestStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		pending, err := repo.HasPending(context.Background(), approval.RequestTypePlotCountChange, entityID)

		assert.NoError(t, err)
		assert.True(t, pending)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormApprovalRequestRepository_Create(t *testing.T) {
	t.Run("inserts pending request", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormApprovalRequestRepository(gormDB)

		mock.ExpectExec(`INSERT INTO "approval_requests"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), makeTestApprovalRequest(t))

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps duplicate pending request to ErrAlreadyExists", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormApprovalRequestRepository(gormDB)

		mock.ExpectExec(`INSERT INTO "approval_requests"`).
			WillReturnError(gorm.ErrDuplicatedKey)

		err := repo.Create(context.Background(), makeTestApprovalRequest(t))

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormApprovalRequestRepository_SaveDecisionIfPending(t *testing.T) {
	t.Run("persists decision while request is still pending", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormApprovalRequestRepository(gormDB)

		request := makeTestApprovalRequest(t)
		require.NoError(t, request.MarkApproved(uuid.New(), "looks right"))

		mock.ExpectExec(`UPDATE "approval_requests" SET .* WHERE id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveDecisionIfPending(context.Background(), request)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("persists the entity id assigned on approval", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormApprovalRequestRepository(gormDB)

		payload := approval.BankAccountCreatePayload{BankName: "First Bank", AccountNumber: "0123456789", AccountName: "Estate Ops"}
		request, err := approval.NewApprovalRequest(payload, approval.EntityIDPending, nil, uuid.New(), "new collections account")
		require.NoError(t, err)
		require.NoError(t, request.MarkApproved(uuid.New(), "account verified"))
		request.SetEntityID(uuid.New().String())

		mock.ExpectExec(`UPDATE "approval_requests" SET .*"entity_id"=.* WHERE id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.SaveDecisionIfPending(context.Background(), request)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when another reviewer decided first", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormApprovalRequestRepository(gormDB)

		request := makeTestApprovalRequest(t)
		require.NoError(t, request.MarkRejected(uuid.New(), "duplicate of an applied change"))

		mock.ExpectExec(`UPDATE "approval_requests" SET .* WHERE id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveDecisionIfPending(context.Background(), request)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormApprovalRequestRepository_FindAll(t *testing.T) {
	t.Run("lists newest first with status filter", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormApprovalRequestRepository(gormDB)

		status := approval.RequestStatusPending

		rows := sqlmock.NewRows([]string{"id", "request_type", "entity_id", "requested_changes", "current_values", "status", "requested_by", "version"}).
			AddRow(uuid.New(), "house_plot_count", uuid.New().String(), `{"plot_count":3}`, `{"plot_count":2}`, "pending", uuid.New(), 1)

		mock.ExpectQuery(`SELECT \* FROM "approval_requests" WHERE status = \$1 ORDER BY created_at DESC`).
			WithArgs(status).
			WillReturnRows(rows)

		requests, err := repo.FindAll(context.Background(), approval.RequestFilter{Status: &status})

		assert.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, approval.RequestStatusPending, requests[0].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

package approval

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plotPayload() PlotCountChangePayload {
	return PlotCountChangePayload{HouseID: uuid.New(), PlotCount: 3}
}

func pendingRequest(t *testing.T) *ApprovalRequest {
	t.Helper()
	p := plotPayload()
	r, err := NewApprovalRequest(p, p.HouseID.String(), map[string]int{"plot_count": 1}, uuid.New(), "plots merged after survey")
	require.NoError(t, err)
	return r
}

func TestNewApprovalRequest(t *testing.T) {
	t.Run("valid request starts pending", func(t *testing.T) {
		r := pendingRequest(t)

		assert.Equal(t, RequestStatusPending, r.Status)
		assert.Equal(t, RequestTypePlotCountChange, r.Type)
		assert.Nil(t, r.ReviewedBy)
		assert.NotEmpty(t, r.RequestedChanges)
		assert.NotEmpty(t, r.CurrentValues)

		events := r.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeApprovalRequested, events[0].EventType())
	})

	t.Run("create request uses pending entity placeholder", func(t *testing.T) {
		p := BankAccountCreatePayload{BankName: "GTB", AccountName: "Estate Ops", AccountNumber: "0123456789"}
		r, err := NewApprovalRequest(p, EntityIDPending, nil, uuid.New(), "new collections account")
		require.NoError(t, err)
		assert.Equal(t, EntityIDPending, r.EntityID)
		assert.Nil(t, r.CurrentValues)
	})

	t.Run("invalid payload rejected", func(t *testing.T) {
		p := PlotCountChangePayload{HouseID: uuid.New(), PlotCount: 0}
		_, err := NewApprovalRequest(p, p.HouseID.String(), nil, uuid.New(), "")
		require.Error(t, err)
	})

	t.Run("missing requester rejected", func(t *testing.T) {
		p := plotPayload()
		_, err := NewApprovalRequest(p, p.HouseID.String(), nil, uuid.Nil, "")
		require.Error(t, err)
	})
}

func TestApprovalRequest_MarkApproved(t *testing.T) {
	t.Run("records reviewer and timestamp", func(t *testing.T) {
		r := pendingRequest(t)
		reviewer := uuid.New()
		v := r.Version

		require.NoError(t, r.MarkApproved(reviewer, "verified against survey plan"))

		assert.Equal(t, RequestStatusApproved, r.Status)
		require.NotNil(t, r.ReviewedBy)
		assert.Equal(t, reviewer, *r.ReviewedBy)
		require.NotNil(t, r.ReviewedAt)
		assert.Equal(t, v+1, r.Version)
	})

	t.Run("second decision rejected", func(t *testing.T) {
		r := pendingRequest(t)
		require.NoError(t, r.MarkApproved(uuid.New(), ""))

		err := r.MarkRejected(uuid.New(), "too late")
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "ALREADY_PROCESSED", derr.Code)
	})
}

func TestApprovalRequest_MarkRejected(t *testing.T) {
	r := pendingRequest(t)
	reviewer := uuid.New()

	require.NoError(t, r.MarkRejected(reviewer, "plot count disputed"))

	assert.Equal(t, RequestStatusRejected, r.Status)
	assert.Equal(t, "plot count disputed", r.ReviewNotes)
	require.Error(t, r.MarkApproved(uuid.New(), ""))
}

func TestApprovalRequest_Payload(t *testing.T) {
	r := pendingRequest(t)

	decoded, err := r.Payload()
	require.NoError(t, err)

	p, ok := decoded.(PlotCountChangePayload)
	require.True(t, ok)
	assert.Equal(t, 3, p.PlotCount)
}

func TestDecodePayload(t *testing.T) {
	t.Run("round trips every variant", func(t *testing.T) {
		payloads := []ChangePayload{
			BankAccountCreatePayload{BankName: "GTB", AccountName: "Estate Ops", AccountNumber: "0123456789"},
			BankAccountUpdatePayload{AccountID: uuid.New(), BankName: "GTB", AccountName: "Estate Ops", AccountNumber: "0123456789"},
			BankAccountDeletePayload{AccountID: uuid.New()},
			ProfileEffectiveDatePayload{ProfileID: uuid.New(), EffectiveDate: time.Now()},
			PlotCountChangePayload{HouseID: uuid.New(), PlotCount: 2},
			PaymentVerificationPayload{
				ResidentID:       uuid.New(),
				HouseID:          uuid.New(),
				Amount:           decimal.NewFromInt(25000),
				PaymentReference: "TRF/2026/0042",
				PaymentDate:      time.Now(),
			},
		}

		for _, p := range payloads {
			data, err := json.Marshal(p)
			require.NoError(t, err)

			decoded, err := DecodePayload(p.RequestType(), data)
			require.NoError(t, err, string(p.RequestType()))
			assert.Equal(t, p.RequestType(), decoded.RequestType())
		}
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		_, err := DecodePayload(RequestType("mystery"), []byte(`{}`))
		require.Error(t, err)
	})

	t.Run("decoded payload is validated", func(t *testing.T) {
		_, err := DecodePayload(RequestTypePlotCountChange, []byte(`{"house_id":"00000000-0000-0000-0000-000000000000","plot_count":2}`))
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_PAYLOAD", derr.Code)
	})
}

func TestPaymentVerificationPayload_Validate(t *testing.T) {
	valid := PaymentVerificationPayload{
		ResidentID:       uuid.New(),
		HouseID:          uuid.New(),
		Amount:           decimal.NewFromInt(5000),
		PaymentReference: "TRF/2026/0001",
	}
	require.NoError(t, valid.Validate())

	nonPositive := valid
	nonPositive.Amount = decimal.Zero
	require.Error(t, nonPositive.Validate())

	noRef := valid
	noRef.PaymentReference = " "
	require.Error(t, noRef.Validate())
}

package billing

import (
	"testing"
	"time"

	"github.com/estatekit/backend/internal/domain/estate"
	"github.com/estatekit/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func devLevyProfile(t *testing.T) *BillingProfile {
	t.Helper()
	p, err := NewBillingProfile(
		"Development Levy 2026",
		TargetTypeResident,
		[]estate.ResidentRole{estate.RoleResidentLandlord, estate.RoleNonResidentLandlord, estate.RoleDeveloper},
		true, true,
		time.Now(),
		[]NewBillingProfileItemInput{
			{Description: "Development levy", Amount: valueobject.NewMoneyNGNFromFloat(50000)},
		},
	)
	require.NoError(t, err)
	return p
}

func TestNewBillingProfile(t *testing.T) {
	t.Run("resident target requires roles", func(t *testing.T) {
		_, err := NewBillingProfile("Dues", TargetTypeResident, nil, false, false, time.Now(),
			[]NewBillingProfileItemInput{{Description: "dues", Amount: valueobject.NewMoneyNGNFromFloat(100)}})
		require.Error(t, err)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := NewBillingProfile("Dues", TargetTypeResident,
			[]estate.ResidentRole{estate.ResidentRole("visitor")}, false, false, time.Now(),
			[]NewBillingProfileItemInput{{Description: "dues", Amount: valueobject.NewMoneyNGNFromFloat(100)}})
		require.Error(t, err)
	})

	t.Run("requires items", func(t *testing.T) {
		_, err := NewBillingProfile("Dues", TargetTypeHouse, nil, false, false, time.Now(), nil)
		require.Error(t, err)
	})
}

func TestBillingProfile_TotalAmount(t *testing.T) {
	p, err := NewBillingProfile("Security Levy", TargetTypeHouse, nil, true, false, time.Now(),
		[]NewBillingProfileItemInput{
			{Description: "gate automation", Amount: valueobject.NewMoneyNGNFromFloat(30000)},
			{Description: "CCTV", Amount: valueobject.NewMoneyNGNFromFloat(20000)},
		})
	require.NoError(t, err)

	assert.True(t, p.TotalAmount().Equal(decimal.NewFromInt(50000)))
}

func TestBillingProfile_AppliesToRole(t *testing.T) {
	t.Run("development levy excludes tenants", func(t *testing.T) {
		p := devLevyProfile(t)
		assert.False(t, p.AppliesToRole(estate.RoleTenant))
		assert.True(t, p.AppliesToRole(estate.RoleResidentLandlord))
		assert.True(t, p.AppliesToRole(estate.RoleDeveloper))
	})

	t.Run("house target applies to any role", func(t *testing.T) {
		p, err := NewBillingProfile("Road Levy", TargetTypeHouse, nil, true, false, time.Now(),
			[]NewBillingProfileItemInput{{Description: "grading", Amount: valueobject.NewMoneyNGNFromFloat(10000)}})
		require.NoError(t, err)
		assert.True(t, p.AppliesToRole(estate.RoleTenant))
	})

	t.Run("house-target development levy still excludes tenants", func(t *testing.T) {
		p, err := NewBillingProfile("Dev Levy", TargetTypeHouse, nil, true, true, time.Now(),
			[]NewBillingProfileItemInput{{Description: "dev", Amount: valueobject.NewMoneyNGNFromFloat(10000)}})
		require.NoError(t, err)
		assert.False(t, p.AppliesToRole(estate.RoleTenant))
		assert.True(t, p.AppliesToRole(estate.RoleResidentLandlord))
	})

	t.Run("resident target limited to applicable roles", func(t *testing.T) {
		p, err := NewBillingProfile("Tenant Levy", TargetTypeResident,
			[]estate.ResidentRole{estate.RoleTenant}, true, false, time.Now(),
			[]NewBillingProfileItemInput{{Description: "tenant fee", Amount: valueobject.NewMoneyNGNFromFloat(5000)}})
		require.NoError(t, err)
		assert.True(t, p.AppliesToRole(estate.RoleTenant))
		assert.False(t, p.AppliesToRole(estate.RoleDeveloper))
	})
}

func TestBillingProfile_BuildSnapshot(t *testing.T) {
	p := devLevyProfile(t)
	snap := p.BuildSnapshot()

	require.NotNil(t, snap.ProfileID)
	assert.Equal(t, p.ID, *snap.ProfileID)
	assert.Equal(t, p.Name, snap.ProfileName)
	require.Len(t, snap.Items, 1)
	assert.True(t, snap.Items[0].Amount.Equal(decimal.NewFromInt(50000)))
}

func TestBillingProfile_SetEffectiveDate(t *testing.T) {
	p := devLevyProfile(t)
	v := p.Version
	newDate := time.Now().AddDate(0, 1, 0)

	p.SetEffectiveDate(newDate)
	assert.True(t, p.EffectiveDate.Equal(newDate))
	assert.Equal(t, v+1, p.Version)
}

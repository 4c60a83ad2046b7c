package estate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResidentRole_Rank(t *testing.T) {
	assert.Less(t, RoleTenant.Rank(), RoleResidentLandlord.Rank())
	assert.Less(t, RoleResidentLandlord.Rank(), RoleNonResidentLandlord.Rank())
	assert.Less(t, RoleNonResidentLandlord.Rank(), RoleDeveloper.Rank())
	assert.Greater(t, ResidentRole("unknown").Rank(), RoleDeveloper.Rank())
}

func TestResidentRole_IsOwnership(t *testing.T) {
	assert.False(t, RoleTenant.IsOwnership())
	assert.True(t, RoleResidentLandlord.IsOwnership())
	assert.True(t, RoleNonResidentLandlord.IsOwnership())
	assert.True(t, RoleDeveloper.IsOwnership())
	assert.False(t, ResidentRole("unknown").IsOwnership())
}

func TestPrimaryResident(t *testing.T) {
	houseID := uuid.New()

	mustAssignment := func(role ResidentRole, active bool) ResidentHouse {
		a, err := NewResidentHouse(uuid.New(), houseID, role)
		require.NoError(t, err)
		a.Active = active
		return *a
	}

	t.Run("tenant outranks landlords", func(t *testing.T) {
		tenant := mustAssignment(RoleTenant, true)
		landlord := mustAssignment(RoleResidentLandlord, true)

		primary, ok := PrimaryResident([]ResidentHouse{landlord, tenant})
		require.True(t, ok)
		assert.Equal(t, tenant.ResidentID, primary.ResidentID)
		assert.Equal(t, RoleTenant, primary.Role)
	})

	t.Run("inactive assignments ignored", func(t *testing.T) {
		tenant := mustAssignment(RoleTenant, false)
		developer := mustAssignment(RoleDeveloper, true)

		primary, ok := PrimaryResident([]ResidentHouse{tenant, developer})
		require.True(t, ok)
		assert.Equal(t, RoleDeveloper, primary.Role)
	})

	t.Run("no active assignment", func(t *testing.T) {
		tenant := mustAssignment(RoleTenant, false)

		_, ok := PrimaryResident([]ResidentHouse{tenant})
		assert.False(t, ok)
	})

	t.Run("empty input", func(t *testing.T) {
		_, ok := PrimaryResident(nil)
		assert.False(t, ok)
	})
}

func TestNewResidentHouse(t *testing.T) {
	t.Run("invalid role", func(t *testing.T) {
		_, err := NewResidentHouse(uuid.New(), uuid.New(), ResidentRole("squatter"))
		require.Error(t, err)
	})

	t.Run("missing house", func(t *testing.T) {
		_, err := NewResidentHouse(uuid.New(), uuid.Nil, RoleTenant)
		require.Error(t, err)
	})
}

func TestHouse(t *testing.T) {
	t.Run("plot count must be positive", func(t *testing.T) {
		_, err := NewHouse("H-1", "Acacia Close", 0)
		require.Error(t, err)
	})

	t.Run("set plot count", func(t *testing.T) {
		h, err := NewHouse("H-1", "Acacia Close", 1)
		require.NoError(t, err)
		v := h.Version

		require.NoError(t, h.SetPlotCount(3))
		assert.Equal(t, 3, h.PlotCount)
		assert.Equal(t, v+1, h.Version)

		require.Error(t, h.SetPlotCount(0))
	})
}

func TestBankAccount(t *testing.T) {
	t.Run("short account number rejected", func(t *testing.T) {
		_, err := NewBankAccount("First Bank", "Estate Sinking Fund", "12345")
		require.Error(t, err)
	})

	t.Run("update", func(t *testing.T) {
		acct, err := NewBankAccount("First Bank", "Estate Sinking Fund", "0123456789")
		require.NoError(t, err)

		require.NoError(t, acct.Update("GTBank", "Estate Ops", "9876543210"))
		assert.Equal(t, "GTBank", acct.BankName)
		require.Error(t, acct.Update("", "Estate Ops", "9876543210"))
	})
}

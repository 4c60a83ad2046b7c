package estate

import (
	"strings"

	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ResidentRole is the role a resident holds on a house
type ResidentRole string

const (
	RoleTenant              ResidentRole = "tenant"
	RoleResidentLandlord    ResidentRole = "resident_landlord"
	RoleNonResidentLandlord ResidentRole = "non_resident_landlord"
	RoleDeveloper           ResidentRole = "developer"
)

// IsValid checks if the role is a known resident role
func (r ResidentRole) IsValid() bool {
	switch r {
	case RoleTenant, RoleResidentLandlord, RoleNonResidentLandlord, RoleDeveloper:
		return true
	}
	return false
}

// Rank returns the explicit precedence of the role when resolving a house's
// primary resident. Lower rank wins: tenant > resident_landlord >
// non_resident_landlord > developer.
func (r ResidentRole) Rank() int {
	switch r {
	case RoleTenant:
		return 0
	case RoleResidentLandlord:
		return 1
	case RoleNonResidentLandlord:
		return 2
	case RoleDeveloper:
		return 3
	}
	return 99
}

// IsOwnership returns true for roles that represent ownership rather than tenancy
func (r ResidentRole) IsOwnership() bool {
	return r != RoleTenant && r.IsValid()
}

// Resident represents a person living in or owning property on the estate
type Resident struct {
	shared.BaseAggregateRoot
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Active    bool   `json:"active"`
}

// NewResident creates a new resident
func NewResident(firstName, lastName, email, phone string) (*Resident, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Resident name cannot be empty")
	}

	return &Resident{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         firstName,
		LastName:          lastName,
		Email:             email,
		Phone:             phone,
		Active:            true,
	}, nil
}

// FullName returns the resident's display name
func (r *Resident) FullName() string {
	return r.FirstName + " " + r.LastName
}

// ResidentHouse is an active role assignment linking a resident to a house
type ResidentHouse struct {
	shared.BaseEntity
	ResidentID uuid.UUID    `json:"resident_id"`
	HouseID    uuid.UUID    `json:"house_id"`
	Role       ResidentRole `json:"role"`
	Active     bool         `json:"active"`
}

// NewResidentHouse creates a new role assignment
func NewResidentHouse(residentID, houseID uuid.UUID, role ResidentRole) (*ResidentHouse, error) {
	if residentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESIDENT", "Resident ID cannot be empty")
	}
	if houseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_HOUSE", "House ID cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Resident role is not valid")
	}

	return &ResidentHouse{
		BaseEntity: shared.NewBaseEntity(),
		ResidentID: residentID,
		HouseID:    houseID,
		Role:       role,
		Active:     true,
	}, nil
}

// PrimaryResident resolves the house's single primary assignment from the set of
// active assignments, using the explicit role rank. Returns false when the house
// has no active assignment.
func PrimaryResident(assignments []ResidentHouse) (ResidentHouse, bool) {
	var best ResidentHouse
	found := false
	for _, a := range assignments {
		if !a.Active {
			continue
		}
		if !found || a.Role.Rank() < best.Role.Rank() {
			best = a
			found = true
		}
	}
	return best, found
}

package estate

import (
	"context"

	"github.com/google/uuid"
)

// HouseRepository defines the interface for house persistence
type HouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*House, error)
	FindActive(ctx context.Context) ([]House, error)
	Save(ctx context.Context, house *House) error
	SaveWithLock(ctx context.Context, house *House) error
}

// ResidentRepository defines the interface for resident persistence
type ResidentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Resident, error)
	Save(ctx context.Context, resident *Resident) error
}

// ResidentHouseRepository defines the interface for role assignments
type ResidentHouseRepository interface {
	FindActiveByHouse(ctx context.Context, houseID uuid.UUID) ([]ResidentHouse, error)
	FindActiveByResident(ctx context.Context, residentID uuid.UUID) ([]ResidentHouse, error)
	Save(ctx context.Context, assignment *ResidentHouse) error
}

// BankAccountRepository defines the interface for estate bank accounts
type BankAccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BankAccount, error)
	FindAll(ctx context.Context) ([]BankAccount, error)
	Save(ctx context.Context, account *BankAccount) error
	Delete(ctx context.Context, id uuid.UUID) error
}

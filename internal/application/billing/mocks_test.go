package billing

import (
	"context"

	ledgerapp "github.com/estatekit/backend/internal/application/ledger"
	"github.com/estatekit/backend/internal/domain/billing"
	"github.com/estatekit/backend/internal/domain/estate"
	"github.com/estatekit/backend/internal/domain/shared/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOutstanding(ctx context.Context, residentID, houseID uuid.UUID) ([]billing.Invoice, error) {
	args := m.Called(ctx, residentID, houseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) NextInvoiceNumber(ctx context.Context, invoiceType billing.InvoiceType) (string, error) {
	args := m.Called(ctx, invoiceType)
	return args.String(0), args.Error(1)
}

// MockCorrectionNoteRepository is a mock implementation of billing.CorrectionNoteRepository
type MockCorrectionNoteRepository struct {
	mock.Mock
}

func (m *MockCorrectionNoteRepository) CreateBatch(ctx context.Context, notes []billing.CorrectionNote) error {
	args := m.Called(ctx, notes)
	return args.Error(0)
}

func (m *MockCorrectionNoteRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]billing.CorrectionNote, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.CorrectionNote), args.Error(1)
}

// MockBillingProfileRepository is a mock implementation of billing.BillingProfileRepository
type MockBillingProfileRepository struct {
	mock.Mock
}

func (m *MockBillingProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillingProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillingProfile), args.Error(1)
}

func (m *MockBillingProfileRepository) FindActiveOneTime(ctx context.Context) ([]billing.BillingProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.BillingProfile), args.Error(1)
}

func (m *MockBillingProfileRepository) Save(ctx context.Context, profile *billing.BillingProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockBillingProfileRepository) SaveWithLock(ctx context.Context, profile *billing.BillingProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockLevyHistoryRepository is a mock implementation of billing.LevyHistoryRepository
type MockLevyHistoryRepository struct {
	mock.Mock
}

func (m *MockLevyHistoryRepository) Exists(ctx context.Context, houseID, profileID uuid.UUID) (bool, error) {
	args := m.Called(ctx, houseID, profileID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLevyHistoryRepository) CommitLevy(ctx context.Context, invoice *billing.Invoice, history *billing.HouseLevyHistory) error {
	args := m.Called(ctx, invoice, history)
	return args.Error(0)
}

func (m *MockLevyHistoryRepository) FindByHouse(ctx context.Context, houseID uuid.UUID) ([]billing.HouseLevyHistory, error) {
	args := m.Called(ctx, houseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.HouseLevyHistory), args.Error(1)
}

// MockHouseRepository is a mock implementation of estate.HouseRepository
type MockHouseRepository struct {
	mock.Mock
}

func (m *MockHouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*estate.House, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*estate.House), args.Error(1)
}

func (m *MockHouseRepository) FindActive(ctx context.Context) ([]estate.House, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]estate.House), args.Error(1)
}

func (m *MockHouseRepository) Save(ctx context.Context, house *estate.House) error {
	args := m.Called(ctx, house)
	return args.Error(0)
}

func (m *MockHouseRepository) SaveWithLock(ctx context.Context, house *estate.House) error {
	args := m.Called(ctx, house)
	return args.Error(0)
}

// MockResidentHouseRepository is a mock implementation of estate.ResidentHouseRepository
type MockResidentHouseRepository struct {
	mock.Mock
}

func (m *MockResidentHouseRepository) FindActiveByHouse(ctx context.Context, houseID uuid.UUID) ([]estate.ResidentHouse, error) {
	args := m.Called(ctx, houseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]estate.ResidentHouse), args.Error(1)
}

func (m *MockResidentHouseRepository) FindActiveByResident(ctx context.Context, residentID uuid.UUID) ([]estate.ResidentHouse, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]estate.ResidentHouse), args.Error(1)
}

func (m *MockResidentHouseRepository) Save(ctx context.Context, assignment *estate.ResidentHouse) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

// MockWalletOperations is a mock implementation of WalletOperations
type MockWalletOperations struct {
	mock.Mock
}

func (m *MockWalletOperations) CreditWallet(ctx context.Context, req ledgerapp.CreditWalletRequest) (*ledgerapp.WalletOperationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.WalletOperationResult), args.Error(1)
}

func (m *MockWalletOperations) DebitWalletForInvoice(ctx context.Context, residentID uuid.UUID, invoice *billing.Invoice) (*ledgerapp.InvoiceAllocation, error) {
	args := m.Called(ctx, residentID, invoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.InvoiceAllocation), args.Error(1)
}

// MockNotifier is a mock implementation of service.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n service.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// MockAuditLogger is a mock implementation of service.AuditLogger
type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) LogAudit(ctx context.Context, entry service.AuditEntry) {
	m.Called(ctx, entry)
}

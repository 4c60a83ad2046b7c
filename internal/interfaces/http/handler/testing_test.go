package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/estatekit/backend/internal/domain/billing"
	"github.com/estatekit/backend/internal/domain/ledger"
	"github.com/estatekit/backend/internal/domain/shared/service"
	"github.com/estatekit/backend/internal/infrastructure/auth"
	"github.com/estatekit/backend/internal/interfaces/http/middleware"
	"github.com/estatekit/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// actorContext injects an authenticated actor the way the JWT middleware does
func actorContext(actor *service.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := auth.WithActor(c.Request.Context(), actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// newTestRouter builds a gin engine with the handler's routes mounted under
// /api/v1 and the given actor authenticated.
func newTestRouter(actor *service.Actor, registrars ...router.RouteRegistrar) *gin.Engine {
	engine := gin.New()
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(actorContext(actor))
	for _, reg := range registrars {
		r.Register(reg)
	}
	r.Setup()
	return engine
}

func adminActor() *service.Actor {
	return &service.Actor{UserID: uuid.New(), Role: service.RoleAdmin}
}

func residentActor() *service.Actor {
	return &service.Actor{UserID: uuid.New(), Role: service.RoleResident}
}

func performRequest(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// MockWalletRepository is a mock implementation of ledger.WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) FindByResident(ctx context.Context, residentID uuid.UUID) (*ledger.Wallet, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Save(ctx context.Context, wallet *ledger.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) SaveWithLock(ctx context.Context, wallet *ledger.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

// MockWalletTransactionRepository is a mock implementation of ledger.WalletTransactionRepository
type MockWalletTransactionRepository struct {
	mock.Mock
}

func (m *MockWalletTransactionRepository) Create(ctx context.Context, tx *ledger.WalletTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockWalletTransactionRepository) FindByResident(ctx context.Context, residentID uuid.UUID, filter ledger.WalletTransactionFilter) ([]ledger.WalletTransaction, error) {
	args := m.Called(ctx, residentID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.WalletTransaction), args.Error(1)
}

func (m *MockWalletTransactionRepository) CountByResident(ctx context.Context, residentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, residentID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAllocationRepository is a mock implementation of ledger.AllocationRepository
type MockAllocationRepository struct {
	mock.Mock
}

func (m *MockAllocationRepository) CommitAllocation(ctx context.Context, wallet *ledger.Wallet, tx *ledger.WalletTransaction, invoice *billing.Invoice) error {
	args := m.Called(ctx, wallet, tx, invoice)
	return args.Error(0)
}

func (m *MockAllocationRepository) CommitWalletEntry(ctx context.Context, wallet *ledger.Wallet, tx *ledger.WalletTransaction) error {
	args := m.Called(ctx, wallet, tx)
	return args.Error(0)
}

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

// MockAuditLogger is a mock implementation of service.AuditLogger
type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) LogAudit(ctx context.Context, entry service.AuditEntry) {
	m.Called(ctx, entry)
}

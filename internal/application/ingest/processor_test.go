package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/client"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/order"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/cin7"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockUploadRepository struct {
	mock.Mock
}

func (m *MockUploadRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Upload, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Upload), args.Error(1)
}

func (m *MockUploadRepository) FindAllForCredential(ctx context.Context, credentialID uuid.UUID, filter shared.Filter) ([]order.Upload, error) {
	args := m.Called(ctx, credentialID, filter)
	return args.Get(0).([]order.Upload), args.Error(1)
}

func (m *MockUploadRepository) FindRecentBySource(ctx context.Context, source order.UploadSource, limit int) ([]order.Upload, error) {
	args := m.Called(ctx, source, limit)
	return args.Get(0).([]order.Upload), args.Error(1)
}

func (m *MockUploadRepository) Save(ctx context.Context, upload *order.Upload) error {
	args := m.Called(ctx, upload)
	return args.Error(0)
}

func (m *MockUploadRepository) Count(ctx context.Context, credentialID uuid.UUID) (int64, error) {
	args := m.Called(ctx, credentialID)
	return args.Get(0).(int64), args.Error(1)
}

type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Result, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Result), args.Error(1)
}

func (m *MockResultRepository) FindByUpload(ctx context.Context, uploadID uuid.UUID) ([]order.Result, error) {
	args := m.Called(ctx, uploadID)
	return args.Get(0).([]order.Result), args.Error(1)
}

func (m *MockResultRepository) FindFailed(ctx context.Context, filter shared.Filter) ([]order.Result, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]order.Result), args.Error(1)
}

func (m *MockResultRepository) FindUnresolvedFailed(ctx context.Context, filter shared.Filter) ([]order.Result, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]order.Result), args.Error(1)
}

func (m *MockResultRepository) Save(ctx context.Context, result *order.Result) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) CountByStatus(ctx context.Context, uploadID uuid.UUID, status order.ResultStatus) (int64, error) {
	args := m.Called(ctx, uploadID, status)
	return args.Get(0).(int64), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Me(ctx context.Context) (*cin7.AccountInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cin7.AccountInfo), args.Error(1)
}

func (m *MockGateway) CreateSale(ctx context.Context, sale *cin7.Sale) (*cin7.Sale, error) {
	args := m.Called(ctx, sale)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cin7.Sale), args.Error(1)
}

func (m *MockGateway) CreateSaleOrder(ctx context.Context, so *cin7.SaleOrder) (*cin7.SaleOrder, error) {
	args := m.Called(ctx, so)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cin7.SaleOrder), args.Error(1)
}

func (m *MockGateway) SearchCustomers(ctx context.Context, name string) ([]cin7.Customer, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]cin7.Customer), args.Error(1)
}

func (m *MockGateway) CreateCustomer(ctx context.Context, customer *cin7.Customer) (*cin7.Customer, error) {
	args := m.Called(ctx, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cin7.Customer), args.Error(1)
}

func (m *MockGateway) CreateCustomerAddress(ctx context.Context, customerID string, addr *cin7.Address) (*cin7.Address, error) {
	args := m.Called(ctx, customerID, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cin7.Address), args.Error(1)
}

func (m *MockGateway) GetAllCustomers(ctx context.Context) ([]cin7.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]cin7.Customer), args.Error(1)
}

func (m *MockGateway) GetAllProducts(ctx context.Context) ([]cin7.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]cin7.Product), args.Error(1)
}

func (m *MockGateway) TaxRules(ctx context.Context) ([]cin7.TaxRule, error) {
	args := m.Called(ctx)
	return args.Get(0).([]cin7.TaxRule), args.Error(1)
}

func (m *MockGateway) Locations(ctx context.Context) ([]cin7.Location, error) {
	args := m.Called(ctx)
	return args.Get(0).([]cin7.Location), args.Error(1)
}

// =============================================================================
// Tests
// =============================================================================

func newTestProcessor(uploadRepo *MockUploadRepository, resultRepo *MockResultRepository) *Processor {
	p := NewProcessor(uploadRepo, resultRepo, nil)
	p.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return p
}

func submittableOrder(key string) *order.LogicalOrder {
	return &order.LogicalOrder{
		Key:                key,
		RowNumbers:         []int{2},
		CustomerName:       "Acme Wholesale Corp",
		CustomerReference:  "PO-1",
		SaleDate:           time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		ResolvedCustomerID: "c-1",
		Lines:              []order.Line{{RowNumber: 2, SKU: "WID-100", ProductID: "p-1"}},
		FieldStatuses:      map[string]order.FieldStatus{},
	}
}

func TestProcessor_Submit(t *testing.T) {
	settings := client.DefaultSettings(uuid.New())
	settings.OrderDelay = 0

	t.Run("submits order through sale and sale order", func(t *testing.T) {
		uploadRepo := new(MockUploadRepository)
		resultRepo := new(MockResultRepository)
		gw := new(MockGateway)
		p := newTestProcessor(uploadRepo, resultRepo)

		upload, err := order.NewUpload(uuid.New(), "orders.csv", order.SourceManual, "x")
		require.NoError(t, err)

		uploadRepo.On("Save", mock.Anything, upload).Return(nil)
		resultRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Result")).Return(nil)
		gw.On("CreateSale", mock.Anything, mock.AnythingOfType("*cin7.Sale")).
			Return(&cin7.Sale{ID: "sale-1"}, nil)
		gw.On("CreateSaleOrder", mock.Anything, mock.AnythingOfType("*cin7.SaleOrder")).
			Return(&cin7.SaleOrder{ID: "so-1", SaleID: "sale-1"}, nil)

		report, err := p.Submit(context.Background(), upload, []*order.LogicalOrder{submittableOrder("INV_1")}, settings, gw)
		require.NoError(t, err)

		assert.Equal(t, 1, report.SuccessCount)
		assert.Equal(t, 0, report.FailureCount)
		assert.Equal(t, order.UploadStatusCompleted, upload.Status)
		require.Len(t, report.Results, 1)
		assert.Equal(t, "sale-1", report.Results[0].SaleID)
		assert.Equal(t, "so-1", report.Results[0].SaleOrderID)
		gw.AssertExpectations(t)
	})

	t.Run("creates customer first when flagged", func(t *testing.T) {
		uploadRepo := new(MockUploadRepository)
		resultRepo := new(MockResultRepository)
		gw := new(MockGateway)
		p := newTestProcessor(uploadRepo, resultRepo)

		upload, err := order.NewUpload(uuid.New(), "orders.csv", order.SourceManual, "x")
		require.NoError(t, err)

		o := submittableOrder("INV_1")
		o.ResolvedCustomerID = ""
		o.NeedsCustomerCreation = true

		uploadRepo.On("Save", mock.Anything, upload).Return(nil)
		resultRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Result")).Return(nil)
		gw.On("CreateCustomer", mock.Anything, mock.AnythingOfType("*cin7.Customer")).
			Return(&cin7.Customer{ID: "c-new", Name: "Acme Wholesale Corp"}, nil)
		gw.On("CreateSale", mock.Anything, mock.MatchedBy(func(s *cin7.Sale) bool {
			return s.CustomerID == "c-new"
		})).Return(&cin7.Sale{ID: "sale-1"}, nil)
		gw.On("CreateSaleOrder", mock.Anything, mock.AnythingOfType("*cin7.SaleOrder")).
			Return(&cin7.SaleOrder{SaleID: "sale-1"}, nil)

		report, err := p.Submit(context.Background(), upload, []*order.LogicalOrder{o}, settings, gw)
		require.NoError(t, err)
		assert.Equal(t, 1, report.SuccessCount)
		gw.AssertExpectations(t)
	})

	t.Run("records partial sale when sale order fails", func(t *testing.T) {
		uploadRepo := new(MockUploadRepository)
		resultRepo := new(MockResultRepository)
		gw := new(MockGateway)
		p := newTestProcessor(uploadRepo, resultRepo)

		upload, err := order.NewUpload(uuid.New(), "orders.csv", order.SourceManual, "x")
		require.NoError(t, err)

		uploadRepo.On("Save", mock.Anything, upload).Return(nil)
		resultRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Result")).Return(nil)
		gw.On("CreateSale", mock.Anything, mock.AnythingOfType("*cin7.Sale")).
			Return(&cin7.Sale{ID: "sale-1"}, nil)
		gw.On("CreateSaleOrder", mock.Anything, mock.AnythingOfType("*cin7.SaleOrder")).
			Return(nil, errors.New("line rejected"))

		report, err := p.Submit(context.Background(), upload, []*order.LogicalOrder{submittableOrder("INV_1")}, settings, gw)
		require.NoError(t, err)

		assert.Equal(t, 0, report.SuccessCount)
		assert.Equal(t, 1, report.FailureCount)
		assert.Equal(t, order.UploadStatusFailed, upload.Status)
		require.Len(t, report.Results, 1)
		assert.Equal(t, "sale-1", report.Results[0].SaleID)
		assert.Equal(t, string(order.ErrorTypeOrderCreation), report.Results[0].ErrorType)
	})

	t.Run("blocked orders fail without touching the gateway", func(t *testing.T) {
		uploadRepo := new(MockUploadRepository)
		resultRepo := new(MockResultRepository)
		gw := new(MockGateway)
		p := newTestProcessor(uploadRepo, resultRepo)

		upload, err := order.NewUpload(uuid.New(), "orders.csv", order.SourceManual, "x")
		require.NoError(t, err)

		o := submittableOrder("INV_1")
		o.FieldStatuses["SKU"] = order.FieldStatus{State: order.FieldInvalid, Message: "Unknown SKU"}

		uploadRepo.On("Save", mock.Anything, upload).Return(nil)
		resultRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Result")).Return(nil)

		report, err := p.Submit(context.Background(), upload, []*order.LogicalOrder{o}, settings, gw)
		require.NoError(t, err)

		assert.Equal(t, 1, report.SkippedCount)
		assert.Equal(t, 1, report.FailureCount)
		assert.Equal(t, string(order.ErrorTypeValidation), report.Results[0].ErrorType)
		gw.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
	})
}

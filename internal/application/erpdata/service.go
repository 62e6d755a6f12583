package erpdata

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/client"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/cin7"
)

// ERPGateway is the slice of the Cin7 client the application layer
// depends on.
type ERPGateway interface {
	Me(ctx context.Context) (*cin7.AccountInfo, error)
	CreateSale(ctx context.Context, sale *cin7.Sale) (*cin7.Sale, error)
	CreateSaleOrder(ctx context.Context, order *cin7.SaleOrder) (*cin7.SaleOrder, error)
	SearchCustomers(ctx context.Context, name string) ([]cin7.Customer, error)
	CreateCustomer(ctx context.Context, customer *cin7.Customer) (*cin7.Customer, error)
	CreateCustomerAddress(ctx context.Context, customerID string, addr *cin7.Address) (*cin7.Address, error)
	GetAllCustomers(ctx context.Context) ([]cin7.Customer, error)
	GetAllProducts(ctx context.Context) ([]cin7.Product, error)
	TaxRules(ctx context.Context) ([]cin7.TaxRule, error)
	Locations(ctx context.Context) ([]cin7.Location, error)
}

// GatewayFactory builds an ERP gateway for one stored credential.
type GatewayFactory func(cred *client.Credential) ERPGateway

// SnapshotStore is the database snapshot of ERP reference data.
type SnapshotStore interface {
	ReplaceCustomers(ctx context.Context, credentialID uuid.UUID, customers []cin7.Customer) error
	ReplaceProducts(ctx context.Context, credentialID uuid.UUID, products []cin7.Product) error
	Customers(ctx context.Context, credentialID uuid.UUID) ([]cin7.Customer, error)
	Products(ctx context.Context, credentialID uuid.UUID) ([]cin7.Product, error)
	CustomersRefreshedAt(ctx context.Context, credentialID uuid.UUID) (time.Time, error)
	ProductsRefreshedAt(ctx context.Context, credentialID uuid.UUID) (time.Time, error)
}

// HotCache is the Redis layer in front of the snapshot.
type HotCache interface {
	GetCustomers(ctx context.Context, credentialID uuid.UUID) ([]cin7.Customer, bool)
	SetCustomers(ctx context.Context, credentialID uuid.UUID, customers []cin7.Customer) error
	GetProducts(ctx context.Context, credentialID uuid.UUID) ([]cin7.Product, bool)
	SetProducts(ctx context.Context, credentialID uuid.UUID, products []cin7.Product) error
	Invalidate(ctx context.Context, credentialID uuid.UUID) error
}

// RefreshReport summarizes one cache refresh run.
type RefreshReport struct {
	CustomerCount int       `json:"customer_count"`
	ProductCount  int       `json:"product_count"`
	RefreshedAt   time.Time `json:"refreshed_at"`
}

// CacheAge reports how stale the per-credential snapshots are.
type CacheAge struct {
	CustomersRefreshedAt *time.Time `json:"customers_refreshed_at"`
	ProductsRefreshedAt  *time.Time `json:"products_refreshed_at"`
}

// Service serves ERP reference data to validation runs. Reads go
// Redis, then the database snapshot, then the ERP API.
type Service struct {
	credentialRepo client.CredentialRepository
	gateways       GatewayFactory
	snapshots      SnapshotStore
	hot            HotCache
	logger         *zap.Logger
}

// NewService creates a new erpdata Service
func NewService(
	credentialRepo client.CredentialRepository,
	gateways GatewayFactory,
	snapshots SnapshotStore,
	hot HotCache,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		credentialRepo: credentialRepo,
		gateways:       gateways,
		snapshots:      snapshots,
		hot:            hot,
		logger:         logger,
	}
}

// GatewayFor builds an ERP gateway for a stored credential.
func (s *Service) GatewayFor(ctx context.Context, credentialID uuid.UUID) (ERPGateway, error) {
	cred, err := s.credentialRepo.FindByID(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	return s.gateways(cred), nil
}

// Customers returns the customer list for a credential, refreshing
// from the ERP when no snapshot exists yet.
func (s *Service) Customers(ctx context.Context, credentialID uuid.UUID) ([]cin7.Customer, error) {
	if s.hot != nil {
		if customers, ok := s.hot.GetCustomers(ctx, credentialID); ok {
			return customers, nil
		}
	}

	customers, err := s.snapshots.Customers(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		if customers, err = s.refreshCustomers(ctx, credentialID); err != nil {
			return nil, err
		}
	}

	if s.hot != nil {
		if err := s.hot.SetCustomers(ctx, credentialID, customers); err != nil {
			s.logger.Warn("customer cache write failed", zap.Error(err))
		}
	}
	return customers, nil
}

// Products returns the product list for a credential, refreshing from
// the ERP when no snapshot exists yet.
func (s *Service) Products(ctx context.Context, credentialID uuid.UUID) ([]cin7.Product, error) {
	if s.hot != nil {
		if products, ok := s.hot.GetProducts(ctx, credentialID); ok {
			return products, nil
		}
	}

	products, err := s.snapshots.Products(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		if products, err = s.refreshProducts(ctx, credentialID); err != nil {
			return nil, err
		}
	}

	if s.hot != nil {
		if err := s.hot.SetProducts(ctx, credentialID, products); err != nil {
			s.logger.Warn("product cache write failed", zap.Error(err))
		}
	}
	return products, nil
}

// Refresh pulls both lists from the ERP and replaces the snapshots.
func (s *Service) Refresh(ctx context.Context, credentialID uuid.UUID) (*RefreshReport, error) {
	customers, err := s.refreshCustomers(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	products, err := s.refreshProducts(ctx, credentialID)
	if err != nil {
		return nil, err
	}

	if s.hot != nil {
		if err := s.hot.Invalidate(ctx, credentialID); err != nil {
			s.logger.Warn("cache invalidation failed", zap.Error(err))
		}
	}

	return &RefreshReport{
		CustomerCount: len(customers),
		ProductCount:  len(products),
		RefreshedAt:   time.Now(),
	}, nil
}

// Age reports when each snapshot was last refreshed.
func (s *Service) Age(ctx context.Context, credentialID uuid.UUID) (*CacheAge, error) {
	age := &CacheAge{}

	if t, err := s.snapshots.CustomersRefreshedAt(ctx, credentialID); err == nil {
		age.CustomersRefreshedAt = &t
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if t, err := s.snapshots.ProductsRefreshedAt(ctx, credentialID); err == nil {
		age.ProductsRefreshedAt = &t
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	return age, nil
}

// TestConnection calls /me with the credential and returns the account
// info on success.
func (s *Service) TestConnection(ctx context.Context, credentialID uuid.UUID) (*cin7.AccountInfo, error) {
	gw, err := s.GatewayFor(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	return gw.Me(ctx)
}

// InvalidateHot drops the Redis copy so the next read repopulates it.
// Called after new customers are created during submission.
func (s *Service) InvalidateHot(ctx context.Context, credentialID uuid.UUID) {
	if s.hot == nil {
		return
	}
	if err := s.hot.Invalidate(ctx, credentialID); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

func (s *Service) refreshCustomers(ctx context.Context, credentialID uuid.UUID) ([]cin7.Customer, error) {
	gw, err := s.GatewayFor(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	customers, err := gw.GetAllCustomers(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.snapshots.ReplaceCustomers(ctx, credentialID, customers); err != nil {
		return nil, err
	}
	s.logger.Info("customer snapshot refreshed",
		zap.String("credential_id", credentialID.String()),
		zap.Int("count", len(customers)))
	return customers, nil
}

func (s *Service) refreshProducts(ctx context.Context, credentialID uuid.UUID) ([]cin7.Product, error) {
	gw, err := s.GatewayFor(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	products, err := gw.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.snapshots.ReplaceProducts(ctx, credentialID, products); err != nil {
		return nil, err
	}
	s.logger.Info("product snapshot refreshed",
		zap.String("credential_id", credentialID.String()),
		zap.Int("count", len(products)))
	return products, nil
}

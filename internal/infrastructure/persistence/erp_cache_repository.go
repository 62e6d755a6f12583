package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/cin7"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/persistence/models"
)

// GormERPCacheRepository stores snapshots of ERP customers and products
// pulled during a cache refresh. Each refresh replaces the previous
// snapshot for the credential atomically.
type GormERPCacheRepository struct {
	db *gorm.DB
}

// NewGormERPCacheRepository creates a new GormERPCacheRepository
func NewGormERPCacheRepository(db *gorm.DB) *GormERPCacheRepository {
	return &GormERPCacheRepository{db: db}
}

// ReplaceCustomers swaps the cached customer snapshot for a credential
func (r *GormERPCacheRepository) ReplaceCustomers(ctx context.Context, credentialID uuid.UUID, customers []cin7.Customer) error {
	refreshedAt := time.Now()
	rows := make([]models.CachedCustomerModel, 0, len(customers))
	for _, c := range customers {
		payload, err := json.Marshal(c)
		if err != nil {
			return err
		}
		row := models.CachedCustomerModel{
			CredentialID: credentialID,
			Cin7ID:       c.ID,
			Name:         c.Name,
			Payload:      string(payload),
			RefreshedAt:  refreshedAt,
		}
		row.ID = uuid.New()
		rows = append(rows, row)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CachedCustomerModel{}, "credential_id = ?", credentialID).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 500).Error
	})
}

// ReplaceProducts swaps the cached product snapshot for a credential
func (r *GormERPCacheRepository) ReplaceProducts(ctx context.Context, credentialID uuid.UUID, products []cin7.Product) error {
	refreshedAt := time.Now()
	rows := make([]models.CachedProductModel, 0, len(products))
	for _, p := range products {
		payload, err := json.Marshal(p)
		if err != nil {
			return err
		}
		row := models.CachedProductModel{
			CredentialID: credentialID,
			Cin7ID:       p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			Payload:      string(payload),
			RefreshedAt:  refreshedAt,
		}
		row.ID = uuid.New()
		rows = append(rows, row)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CachedProductModel{}, "credential_id = ?", credentialID).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 500).Error
	})
}

// Customers returns the cached customer snapshot for a credential
func (r *GormERPCacheRepository) Customers(ctx context.Context, credentialID uuid.UUID) ([]cin7.Customer, error) {
	var rows []models.CachedCustomerModel
	if err := r.db.WithContext(ctx).
		Where("credential_id = ?", credentialID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	customers := make([]cin7.Customer, len(rows))
	for i, row := range rows {
		if err := json.Unmarshal([]byte(row.Payload), &customers[i]); err != nil {
			return nil, err
		}
	}
	return customers, nil
}

// Products returns the cached product snapshot for a credential
func (r *GormERPCacheRepository) Products(ctx context.Context, credentialID uuid.UUID) ([]cin7.Product, error) {
	var rows []models.CachedProductModel
	if err := r.db.WithContext(ctx).
		Where("credential_id = ?", credentialID).
		Order("sku ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	products := make([]cin7.Product, len(rows))
	for i, row := range rows {
		if err := json.Unmarshal([]byte(row.Payload), &products[i]); err != nil {
			return nil, err
		}
	}
	return products, nil
}

// CustomersRefreshedAt returns the time of the last customer refresh
func (r *GormERPCacheRepository) CustomersRefreshedAt(ctx context.Context, credentialID uuid.UUID) (time.Time, error) {
	var row models.CachedCustomerModel
	if err := r.db.WithContext(ctx).
		Where("credential_id = ?", credentialID).
		Order("refreshed_at DESC").
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, shared.ErrNotFound
		}
		return time.Time{}, err
	}
	return row.RefreshedAt, nil
}

// ProductsRefreshedAt returns the time of the last product refresh
func (r *GormERPCacheRepository) ProductsRefreshedAt(ctx context.Context, credentialID uuid.UUID) (time.Time, error) {
	var row models.CachedProductModel
	if err := r.db.WithContext(ctx).
		Where("credential_id = ?", credentialID).
		Order("refreshed_at DESC").
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, shared.ErrNotFound
		}
		return time.Time{}, err
	}
	return row.RefreshedAt, nil
}

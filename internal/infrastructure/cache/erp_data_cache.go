package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/cin7"
)

const (
	customerKeyPrefix = "erp:customers:"
	productKeyPrefix  = "erp:products:"
)

// ERPDataCache keeps the per-credential customer and product lists in
// Redis so validation runs do not hit the ERP API on every upload. The
// database snapshot remains the source of truth; this layer only
// shortcuts reads until the TTL expires.
type ERPDataCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// ERPDataCacheOption configures an ERPDataCache
type ERPDataCacheOption func(*ERPDataCache)

// WithCacheLogger sets the logger
func WithCacheLogger(logger *zap.Logger) ERPDataCacheOption {
	return func(c *ERPDataCache) {
		c.logger = logger
	}
}

// NewERPDataCache creates a cache with the given TTL. A zero TTL
// disables expiry.
func NewERPDataCache(client *redis.Client, ttl time.Duration, opts ...ERPDataCacheOption) *ERPDataCache {
	c := &ERPDataCache{
		client: client,
		ttl:    ttl,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCustomers returns the cached customer list, with found=false on a
// miss. Redis errors are logged and reported as a miss so callers fall
// back to the database.
func (c *ERPDataCache) GetCustomers(ctx context.Context, credentialID uuid.UUID) ([]cin7.Customer, bool) {
	raw, err := c.client.Get(ctx, customerKeyPrefix+credentialID.String()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis customer read failed", zap.Error(err))
		}
		return nil, false
	}
	var customers []cin7.Customer
	if err := json.Unmarshal(raw, &customers); err != nil {
		c.logger.Warn("cached customer payload corrupt", zap.Error(err))
		return nil, false
	}
	return customers, true
}

// SetCustomers stores the customer list for a credential
func (c *ERPDataCache) SetCustomers(ctx context.Context, credentialID uuid.UUID, customers []cin7.Customer) error {
	raw, err := json.Marshal(customers)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, customerKeyPrefix+credentialID.String(), raw, c.ttl).Err()
}

// GetProducts returns the cached product list, with found=false on a miss
func (c *ERPDataCache) GetProducts(ctx context.Context, credentialID uuid.UUID) ([]cin7.Product, bool) {
	raw, err := c.client.Get(ctx, productKeyPrefix+credentialID.String()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis product read failed", zap.Error(err))
		}
		return nil, false
	}
	var products []cin7.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		c.logger.Warn("cached product payload corrupt", zap.Error(err))
		return nil, false
	}
	return products, true
}

// SetProducts stores the product list for a credential
func (c *ERPDataCache) SetProducts(ctx context.Context, credentialID uuid.UUID, products []cin7.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productKeyPrefix+credentialID.String(), raw, c.ttl).Err()
}

// Invalidate drops both cached lists for a credential. Called after a
// refresh run or after new customers are created during submission.
func (c *ERPDataCache) Invalidate(ctx context.Context, credentialID uuid.UUID) error {
	return c.client.Del(ctx,
		customerKeyPrefix+credentialID.String(),
		productKeyPrefix+credentialID.String(),
	).Err()
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// CachedCustomerModel stores one ERP customer pulled during a cache
// refresh. The full record is kept as JSON alongside the searchable
// columns.
type CachedCustomerModel struct {
	BaseModel
	CredentialID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cached_customer,priority:1"`
	Cin7ID       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_cached_customer,priority:2"`
	Name         string    `gorm:"type:varchar(300);not null;index"`
	Payload      string    `gorm:"type:jsonb;not null"`
	RefreshedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CachedCustomerModel) TableName() string {
	return "cached_customers"
}

// CachedProductModel stores one ERP product pulled during a cache
// refresh.
type CachedProductModel struct {
	BaseModel
	CredentialID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cached_product,priority:1"`
	Cin7ID       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_cached_product,priority:2"`
	SKU          string    `gorm:"type:varchar(100);not null;index"`
	Name         string    `gorm:"type:varchar(300);not null;index"`
	Payload      string    `gorm:"type:jsonb;not null"`
	RefreshedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CachedProductModel) TableName() string {
	return "cached_products"
}

// APILogModel records one outbound ERP API call. Auth header values
// are never stored.
type APILogModel struct {
	BaseModel
	CredentialID uuid.UUID `gorm:"type:uuid;index"`
	Trigger      string    `gorm:"type:varchar(30);not null;index"`
	Endpoint     string    `gorm:"type:varchar(200);not null"`
	Method       string    `gorm:"type:varchar(10);not null"`
	StatusCode   int       `gorm:"not null"`
	DurationMs   int64     `gorm:"not null"`
	Error        string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (APILogModel) TableName() string {
	return "cin7_api_logs"
}

package client

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
)

// SaleType selects which ERP sale shape to create.
type SaleType string

const (
	SaleTypeSimple   SaleType = "Simple Sale"
	SaleTypeAdvanced SaleType = "Advanced Sale"
)

// OrderStatus is the status a created Sale Order starts in.
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "DRAFT"
	OrderStatusAuthorised OrderStatus = "AUTHORISED"
)

// Settings holds per-client ingestion behavior. Every field has a
// working default so a client is usable before anyone edits them.
type Settings struct {
	ID           uuid.UUID
	CredentialID uuid.UUID

	SaleType        SaleType
	DefaultStatus   OrderStatus
	DefaultCurrency string
	DefaultLocation string
	TaxRule         string
	TaxInclusive    bool

	RequireCustomerReference bool
	RequireInvoiceNumber     bool
	DateFormat               string

	OrderDelay time.Duration
	BatchSize  int

	UpdatedAt time.Time
}

// DefaultSettings returns settings with the stock defaults applied.
func DefaultSettings(credentialID uuid.UUID) *Settings {
	return &Settings{
		ID:                       uuid.New(),
		CredentialID:             credentialID,
		SaleType:                 SaleTypeSimple,
		DefaultStatus:            OrderStatusDraft,
		DefaultCurrency:          "USD",
		TaxInclusive:             false,
		RequireCustomerReference: true,
		RequireInvoiceNumber:     false,
		OrderDelay:               700 * time.Millisecond,
		BatchSize:                50,
		UpdatedAt:                time.Now(),
	}
}

// Validate checks settings before persisting an update.
func (s *Settings) Validate() error {
	switch s.SaleType {
	case SaleTypeSimple, SaleTypeAdvanced:
	default:
		return shared.NewDomainError("INVALID_SALE_TYPE", "Sale type must be Simple Sale or Advanced Sale")
	}
	switch s.DefaultStatus {
	case OrderStatusDraft, OrderStatusAuthorised:
	default:
		return shared.NewDomainError("INVALID_ORDER_STATUS", "Default status must be DRAFT or AUTHORISED")
	}
	if s.OrderDelay < 0 {
		return shared.NewDomainError("INVALID_DELAY", "Order delay cannot be negative")
	}
	if s.BatchSize < 1 {
		return shared.NewDomainError("INVALID_BATCH_SIZE", "Batch size must be at least 1")
	}
	return nil
}

// SettingsRepository persists per-credential settings.
type SettingsRepository interface {
	FindByCredential(ctx context.Context, credentialID uuid.UUID) (*Settings, error)
	Save(ctx context.Context, settings *Settings) error
}

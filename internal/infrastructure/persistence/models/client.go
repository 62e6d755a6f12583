package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/client"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	BaseModel
	Name   string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *client.Client {
	return &client.Client{
		ID:        m.ID,
		Name:      m.Name,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *client.Client) {
	m.ID = c.ID
	m.Name = c.Name
	m.Active = c.Active
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// CredentialModel is the persistence model for ERP credentials.
type CredentialModel struct {
	BaseModel
	ClientID       uuid.UUID `gorm:"type:uuid;not null;index"`
	AccountID      string    `gorm:"type:varchar(100);not null"`
	ApplicationKey string    `gorm:"type:varchar(200);not null"`
	Label          string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (CredentialModel) TableName() string {
	return "erp_credentials"
}

// ToDomain converts the persistence model to a domain Credential.
func (m *CredentialModel) ToDomain() *client.Credential {
	return &client.Credential{
		ID:             m.ID,
		ClientID:       m.ClientID,
		AccountID:      m.AccountID,
		ApplicationKey: m.ApplicationKey,
		Label:          m.Label,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Credential.
func (m *CredentialModel) FromDomain(c *client.Credential) {
	m.ID = c.ID
	m.ClientID = c.ClientID
	m.AccountID = c.AccountID
	m.ApplicationKey = c.ApplicationKey
	m.Label = c.Label
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// SettingsModel is the persistence model for per-credential settings.
type SettingsModel struct {
	BaseModel
	CredentialID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	SaleType                 string    `gorm:"type:varchar(30);not null;default:'Simple Sale'"`
	DefaultStatus            string    `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	DefaultCurrency          string    `gorm:"type:varchar(10);not null;default:'USD'"`
	DefaultLocation          string    `gorm:"type:varchar(100)"`
	TaxRule                  string    `gorm:"type:varchar(100)"`
	TaxInclusive             bool      `gorm:"not null;default:false"`
	RequireCustomerReference bool      `gorm:"not null;default:true"`
	RequireInvoiceNumber     bool      `gorm:"not null;default:false"`
	DateFormat               string    `gorm:"type:varchar(30)"`
	OrderDelayMs             int64     `gorm:"not null;default:700"`
	BatchSize                int       `gorm:"not null;default:50"`
}

// TableName returns the table name for GORM
func (SettingsModel) TableName() string {
	return "client_settings"
}

// ToDomain converts the persistence model to domain Settings.
func (m *SettingsModel) ToDomain() *client.Settings {
	return &client.Settings{
		ID:                       m.ID,
		CredentialID:             m.CredentialID,
		SaleType:                 client.SaleType(m.SaleType),
		DefaultStatus:            client.OrderStatus(m.DefaultStatus),
		DefaultCurrency:          m.DefaultCurrency,
		DefaultLocation:          m.DefaultLocation,
		TaxRule:                  m.TaxRule,
		TaxInclusive:             m.TaxInclusive,
		RequireCustomerReference: m.RequireCustomerReference,
		RequireInvoiceNumber:     m.RequireInvoiceNumber,
		DateFormat:               m.DateFormat,
		OrderDelay:               time.Duration(m.OrderDelayMs) * time.Millisecond,
		BatchSize:                m.BatchSize,
		UpdatedAt:                m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from domain Settings.
func (m *SettingsModel) FromDomain(s *client.Settings) {
	m.ID = s.ID
	m.CredentialID = s.CredentialID
	m.SaleType = string(s.SaleType)
	m.DefaultStatus = string(s.DefaultStatus)
	m.DefaultCurrency = s.DefaultCurrency
	m.DefaultLocation = s.DefaultLocation
	m.TaxRule = s.TaxRule
	m.TaxInclusive = s.TaxInclusive
	m.RequireCustomerReference = s.RequireCustomerReference
	m.RequireInvoiceNumber = s.RequireInvoiceNumber
	m.DateFormat = s.DateFormat
	m.OrderDelayMs = s.OrderDelay.Milliseconds()
	m.BatchSize = s.BatchSize
	m.UpdatedAt = s.UpdatedAt
}

package client

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	c, err := NewClient("  Acme Wholesale  ")
	require.NoError(t, err)
	assert.Equal(t, "Acme Wholesale", c.Name)
	assert.True(t, c.Active)

	_, err = NewClient("")
	assert.Error(t, err)
}

func TestNewCredential(t *testing.T) {
	clientID := uuid.New()
	cred, err := NewCredential(clientID, "acct-1", "key-1", "prod")
	require.NoError(t, err)
	assert.Equal(t, clientID, cred.ClientID)
	assert.Equal(t, "acct-1", cred.AccountID)

	_, err = NewCredential(uuid.Nil, "acct-1", "key-1", "")
	assert.Error(t, err)

	_, err = NewCredential(clientID, "", "key-1", "")
	assert.Error(t, err)

	_, err = NewCredential(clientID, "acct-1", "  ", "")
	assert.Error(t, err)
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings(uuid.New())
	assert.Equal(t, SaleTypeSimple, s.SaleType)
	assert.Equal(t, OrderStatusDraft, s.DefaultStatus)
	assert.Equal(t, "USD", s.DefaultCurrency)
	assert.True(t, s.RequireCustomerReference)
	assert.False(t, s.RequireInvoiceNumber)
	assert.Equal(t, 50, s.BatchSize)
	require.NoError(t, s.Validate())
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings(uuid.New())

	s.SaleType = "Mystery Sale"
	assert.Error(t, s.Validate())
	s.SaleType = SaleTypeAdvanced

	s.DefaultStatus = "SHIPPED"
	assert.Error(t, s.Validate())
	s.DefaultStatus = OrderStatusAuthorised

	s.BatchSize = 0
	assert.Error(t, s.Validate())
	s.BatchSize = 10

	s.OrderDelay = -1
	assert.Error(t, s.Validate())
	s.OrderDelay = 0

	assert.NoError(t, s.Validate())
}

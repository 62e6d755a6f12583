package client

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
)

// Client is one managed account whose orders flow through the system.
type Client struct {
	ID        uuid.UUID
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewClient creates an active client.
func NewClient(name string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot exceed 200 characters")
	}
	now := time.Now()
	return &Client{
		ID:        uuid.New(),
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Deactivate stops webhook routing for the client.
func (c *Client) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
}

// Credential holds the ERP API credentials for one client account.
type Credential struct {
	ID             uuid.UUID
	ClientID       uuid.UUID
	AccountID      string
	ApplicationKey string
	Label          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewCredential creates an ERP credential for a client.
func NewCredential(clientID uuid.UUID, accountID, applicationKey, label string) (*Credential, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Credential must belong to a client")
	}
	if strings.TrimSpace(accountID) == "" || strings.TrimSpace(applicationKey) == "" {
		return nil, shared.NewDomainError("INVALID_CREDENTIAL", "Account ID and application key are required")
	}
	now := time.Now()
	return &Credential{
		ID:             uuid.New(),
		ClientID:       clientID,
		AccountID:      strings.TrimSpace(accountID),
		ApplicationKey: strings.TrimSpace(applicationKey),
		Label:          strings.TrimSpace(label),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ClientRepository persists clients.
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindByName(ctx context.Context, name string) (*Client, error)
	FindActive(ctx context.Context) ([]Client, error)
	Save(ctx context.Context, client *Client) error
}

// CredentialRepository persists ERP credentials.
type CredentialRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Credential, error)
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]Credential, error)
	FindDefaultForClient(ctx context.Context, clientID uuid.UUID) (*Credential, error)
	Save(ctx context.Context, credential *Credential) error
}

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/client"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/persistence/models"
)

// GormCredentialRepository implements client.CredentialRepository using GORM
type GormCredentialRepository struct {
	db *gorm.DB
}

// NewGormCredentialRepository creates a new GormCredentialRepository
func NewGormCredentialRepository(db *gorm.DB) *GormCredentialRepository {
	return &GormCredentialRepository{db: db}
}

// FindByID finds a credential by its ID
func (r *GormCredentialRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.Credential, error) {
	var model models.CredentialModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByClient finds all credentials belonging to a client
func (r *GormCredentialRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]client.Credential, error) {
	var credentialModels []models.CredentialModel
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at ASC").
		Find(&credentialModels).Error; err != nil {
		return nil, err
	}

	credentials := make([]client.Credential, len(credentialModels))
	for i, model := range credentialModels {
		credentials[i] = *model.ToDomain()
	}
	return credentials, nil
}

// FindDefaultForClient finds the earliest registered credential for a
// client. Webhook runs use it when no credential is named explicitly.
func (r *GormCredentialRepository) FindDefaultForClient(ctx context.Context, clientID uuid.UUID) (*client.Credential, error) {
	var model models.CredentialModel
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists a credential
func (r *GormCredentialRepository) Save(ctx context.Context, credential *client.Credential) error {
	var model models.CredentialModel
	model.FromDomain(credential)
	return r.db.WithContext(ctx).Save(&model).Error
}

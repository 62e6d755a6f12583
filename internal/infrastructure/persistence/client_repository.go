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

// GormClientRepository implements client.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a client by its exact name
func (r *GormClientRepository) FindByName(ctx context.Context, name string) (*client.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive finds all active clients, ordered by name
func (r *GormClientRepository) FindActive(ctx context.Context) ([]client.Client, error) {
	var clientModels []models.ClientModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&clientModels).Error; err != nil {
		return nil, err
	}

	clients := make([]client.Client, len(clientModels))
	for i, model := range clientModels {
		clients[i] = *model.ToDomain()
	}
	return clients, nil
}

// Save persists a client
func (r *GormClientRepository) Save(ctx context.Context, c *client.Client) error {
	var model models.ClientModel
	model.FromDomain(c)
	return r.db.WithContext(ctx).Save(&model).Error
}

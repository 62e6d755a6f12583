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

// GormSettingsRepository implements client.SettingsRepository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// FindByCredential finds the settings for a credential
func (r *GormSettingsRepository) FindByCredential(ctx context.Context, credentialID uuid.UUID) (*client.Settings, error) {
	var model models.SettingsModel
	if err := r.db.WithContext(ctx).First(&model, "credential_id = ?", credentialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists settings, one row per credential
func (r *GormSettingsRepository) Save(ctx context.Context, settings *client.Settings) error {
	var model models.SettingsModel
	model.FromDomain(settings)
	return r.db.WithContext(ctx).Save(&model).Error
}

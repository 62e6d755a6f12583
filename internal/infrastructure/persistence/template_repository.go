package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/mapping"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/persistence/models"
)

// GormTemplateRepository implements mapping.TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindByID finds a template by its ID
func (r *GormTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*mapping.Template, error) {
	var model models.TemplateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByName finds a template by name within a credential
func (r *GormTemplateRepository) FindByName(ctx context.Context, credentialID uuid.UUID, name string) (*mapping.Template, error) {
	var model models.TemplateModel
	if err := r.db.WithContext(ctx).
		Where("credential_id = ? AND name = ?", credentialID, name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindDefault finds the default template for a credential
func (r *GormTemplateRepository) FindDefault(ctx context.Context, credentialID uuid.UUID) (*mapping.Template, error) {
	var model models.TemplateModel
	if err := r.db.WithContext(ctx).
		Where("credential_id = ? AND is_default = ?", credentialID, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAllForCredential finds all templates for a credential
func (r *GormTemplateRepository) FindAllForCredential(ctx context.Context, credentialID uuid.UUID) ([]mapping.Template, error) {
	var templateModels []models.TemplateModel
	if err := r.db.WithContext(ctx).
		Where("credential_id = ?", credentialID).
		Order("name ASC").
		Find(&templateModels).Error; err != nil {
		return nil, err
	}

	templates := make([]mapping.Template, len(templateModels))
	for i, model := range templateModels {
		t, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		templates[i] = *t
	}
	return templates, nil
}

// Save persists a template. Marking a template as default clears the
// flag on every other template for the same credential.
func (r *GormTemplateRepository) Save(ctx context.Context, template *mapping.Template) error {
	var model models.TemplateModel
	if err := model.FromDomain(template); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if template.IsDefault {
			if err := tx.Model(&models.TemplateModel{}).
				Where("credential_id = ? AND id <> ?", template.CredentialID, template.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(&model).Error
	})
}

// Delete deletes a template
func (r *GormTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TemplateModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

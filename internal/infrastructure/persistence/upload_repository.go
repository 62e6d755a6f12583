package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/order"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/persistence/models"
)

// GormUploadRepository implements order.UploadRepository using GORM
type GormUploadRepository struct {
	db *gorm.DB
}

// NewGormUploadRepository creates a new GormUploadRepository
func NewGormUploadRepository(db *gorm.DB) *GormUploadRepository {
	return &GormUploadRepository{db: db}
}

// FindByID finds an upload by its ID
func (r *GormUploadRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Upload, error) {
	var model models.UploadModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAllForCredential finds uploads for a credential matching the filter
func (r *GormUploadRepository) FindAllForCredential(ctx context.Context, credentialID uuid.UUID, filter shared.Filter) ([]order.Upload, error) {
	var uploadModels []models.UploadModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.UploadModel{}).Where("credential_id = ?", credentialID),
		filter,
	)
	if err := query.Find(&uploadModels).Error; err != nil {
		return nil, err
	}

	uploads := make([]order.Upload, len(uploadModels))
	for i, model := range uploadModels {
		u, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		uploads[i] = *u
	}
	return uploads, nil
}

// FindRecentBySource finds the most recent uploads from a source
func (r *GormUploadRepository) FindRecentBySource(ctx context.Context, source order.UploadSource, limit int) ([]order.Upload, error) {
	if limit <= 0 {
		limit = 20
	}
	var uploadModels []models.UploadModel
	if err := r.db.WithContext(ctx).
		Where("source = ?", string(source)).
		Order("created_at DESC").
		Limit(limit).
		Find(&uploadModels).Error; err != nil {
		return nil, err
	}

	uploads := make([]order.Upload, len(uploadModels))
	for i, model := range uploadModels {
		u, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		uploads[i] = *u
	}
	return uploads, nil
}

// Save persists an upload
func (r *GormUploadRepository) Save(ctx context.Context, upload *order.Upload) error {
	var model models.UploadModel
	if err := model.FromDomain(upload); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

// Count counts uploads for a credential
func (r *GormUploadRepository) Count(ctx context.Context, credentialID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UploadModel{}).
		Where("credential_id = ?", credentialID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormUploadRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("filename ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "source":
			query = query.Where("source = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

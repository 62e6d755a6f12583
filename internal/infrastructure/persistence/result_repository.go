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

// GormResultRepository implements order.ResultRepository using GORM
type GormResultRepository struct {
	db *gorm.DB
}

// NewGormResultRepository creates a new GormResultRepository
func NewGormResultRepository(db *gorm.DB) *GormResultRepository {
	return &GormResultRepository{db: db}
}

// FindByID finds a result by its ID
func (r *GormResultRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Result, error) {
	var model models.ResultModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByUpload finds all results for an upload, in row order
func (r *GormResultRepository) FindByUpload(ctx context.Context, uploadID uuid.UUID) ([]order.Result, error) {
	var resultModels []models.ResultModel
	if err := r.db.WithContext(ctx).
		Where("upload_id = ?", uploadID).
		Order("created_at ASC").
		Find(&resultModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(resultModels)
}

// FindFailed finds failed results matching the filter
func (r *GormResultRepository) FindFailed(ctx context.Context, filter shared.Filter) ([]order.Result, error) {
	var resultModels []models.ResultModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ResultModel{}).Where("status = ?", string(order.ResultStatusFailed)),
		filter,
	)
	if err := query.Find(&resultModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(resultModels)
}

// FindUnresolvedFailed finds failed results that have not been resolved
func (r *GormResultRepository) FindUnresolvedFailed(ctx context.Context, filter shared.Filter) ([]order.Result, error) {
	var resultModels []models.ResultModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ResultModel{}).
			Where("status = ? AND resolved_at IS NULL", string(order.ResultStatusFailed)),
		filter,
	)
	if err := query.Find(&resultModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(resultModels)
}

// Save persists a result
func (r *GormResultRepository) Save(ctx context.Context, result *order.Result) error {
	var model models.ResultModel
	if err := model.FromDomain(result); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

// CountByStatus counts results with a given status for an upload
func (r *GormResultRepository) CountByStatus(ctx context.Context, uploadID uuid.UUID, status order.ResultStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ResultModel{}).
		Where("upload_id = ? AND status = ?", uploadID, string(status)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormResultRepository) toDomainSlice(resultModels []models.ResultModel) ([]order.Result, error) {
	results := make([]order.Result, len(resultModels))
	for i, model := range resultModels {
		res, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		results[i] = *res
	}
	return results, nil
}

// applyFilter applies filter options to the query
func (r *GormResultRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_key ILIKE ? OR error_message ILIKE ?", searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "upload_id":
			query = query.Where("upload_id = ?", value)
		case "error_type":
			query = query.Where("error_type = ?", value)
		case "reviewed":
			query = query.Where("reviewed = ?", value)
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

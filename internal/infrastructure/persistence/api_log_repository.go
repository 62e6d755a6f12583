package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/persistence/models"
)

// APILogEntry is one recorded outbound ERP API call.
type APILogEntry struct {
	ID           uuid.UUID `json:"id"`
	CredentialID uuid.UUID `json:"credential_id"`
	Trigger      string    `json:"trigger"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	StatusCode   int       `json:"status_code"`
	DurationMs   int64     `json:"duration_ms"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// GormAPILogRepository records ERP API calls for audit and debugging
type GormAPILogRepository struct {
	db *gorm.DB
}

// NewGormAPILogRepository creates a new GormAPILogRepository
func NewGormAPILogRepository(db *gorm.DB) *GormAPILogRepository {
	return &GormAPILogRepository{db: db}
}

// Record stores one API call entry
func (r *GormAPILogRepository) Record(ctx context.Context, entry APILogEntry) error {
	model := models.APILogModel{
		CredentialID: entry.CredentialID,
		Trigger:      entry.Trigger,
		Endpoint:     entry.Endpoint,
		Method:       entry.Method,
		StatusCode:   entry.StatusCode,
		DurationMs:   entry.DurationMs,
		Error:        entry.Error,
	}
	model.ID = entry.ID
	if model.ID == uuid.Nil {
		model.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindRecent returns the most recent API calls for a credential
func (r *GormAPILogRepository) FindRecent(ctx context.Context, credentialID uuid.UUID, limit int) ([]APILogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var logModels []models.APILogModel
	if err := r.db.WithContext(ctx).
		Where("credential_id = ?", credentialID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logModels).Error; err != nil {
		return nil, err
	}

	entries := make([]APILogEntry, len(logModels))
	for i, m := range logModels {
		entries[i] = APILogEntry{
			ID:           m.ID,
			CredentialID: m.CredentialID,
			Trigger:      m.Trigger,
			Endpoint:     m.Endpoint,
			Method:       m.Method,
			StatusCode:   m.StatusCode,
			DurationMs:   m.DurationMs,
			Error:        m.Error,
			CreatedAt:    m.CreatedAt,
		}
	}
	return entries, nil
}

// PurgeOlderThan deletes log entries created before the cutoff
func (r *GormAPILogRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.APILogModel{}, "created_at < ?", cutoff)
	return result.RowsAffected, result.Error
}

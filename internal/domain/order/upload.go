package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
)

// UploadStatus represents the lifecycle state of a CSV upload.
type UploadStatus string

const (
	UploadStatusPending    UploadStatus = "PENDING"
	UploadStatusProcessing UploadStatus = "PROCESSING"
	UploadStatusCompleted  UploadStatus = "COMPLETED"
	UploadStatusFailed     UploadStatus = "FAILED"
)

// UploadSource records how an upload entered the system.
type UploadSource string

const (
	SourceManual  UploadSource = "MANUAL"
	SourceWebhook UploadSource = "WEBHOOK"
)

// CanTransitionTo checks if the status can transition to the target status
func (s UploadStatus) CanTransitionTo(target UploadStatus) bool {
	transitions := map[UploadStatus][]UploadStatus{
		UploadStatusPending:    {UploadStatusProcessing, UploadStatusFailed},
		UploadStatusProcessing: {UploadStatusCompleted, UploadStatusFailed},
		UploadStatusCompleted:  {},
		UploadStatusFailed:     {UploadStatusProcessing},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Upload is one CSV file accepted for ingestion, manual or webhook.
// The raw CSV content is kept so failed orders can be retried without
// the original file.
type Upload struct {
	ID           uuid.UUID
	CredentialID uuid.UUID
	Filename     string
	Source       UploadSource
	Status       UploadStatus
	TotalOrders  int
	SuccessCount int
	FailureCount int
	ErrorLog     []string
	CSVContent   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUpload creates a pending upload for a credential.
func NewUpload(credentialID uuid.UUID, filename string, source UploadSource, csvContent string) (*Upload, error) {
	if credentialID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREDENTIAL", "Upload must belong to a credential")
	}
	if filename == "" {
		return nil, shared.NewDomainError("INVALID_FILENAME", "Upload filename cannot be empty")
	}
	if csvContent == "" {
		return nil, shared.NewDomainError("EMPTY_FILE", "Upload CSV content cannot be empty")
	}
	now := time.Now()
	return &Upload{
		ID:           uuid.New(),
		CredentialID: credentialID,
		Filename:     filename,
		Source:       source,
		Status:       UploadStatusPending,
		CSVContent:   csvContent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Start moves the upload into processing.
func (u *Upload) Start(totalOrders int) error {
	if !u.Status.CanTransitionTo(UploadStatusProcessing) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Upload cannot start from status "+string(u.Status))
	}
	u.Status = UploadStatusProcessing
	u.TotalOrders = totalOrders
	u.UpdatedAt = time.Now()
	return nil
}

// Complete finalizes the upload with per-order outcome counts. An
// upload where every order failed is marked failed.
func (u *Upload) Complete(successCount, failureCount int) error {
	if !u.Status.CanTransitionTo(UploadStatusCompleted) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Upload cannot complete from status "+string(u.Status))
	}
	u.SuccessCount = successCount
	u.FailureCount = failureCount
	if successCount == 0 && failureCount > 0 {
		u.Status = UploadStatusFailed
	} else {
		u.Status = UploadStatusCompleted
	}
	u.UpdatedAt = time.Now()
	return nil
}

// Fail marks the upload failed before or during processing.
func (u *Upload) Fail(reason string) {
	u.Status = UploadStatusFailed
	if reason != "" {
		u.ErrorLog = append(u.ErrorLog, reason)
	}
	u.UpdatedAt = time.Now()
}

// AppendError records an upload-level error without changing status.
func (u *Upload) AppendError(msg string) {
	u.ErrorLog = append(u.ErrorLog, msg)
	u.UpdatedAt = time.Now()
}

// IsTerminal reports whether the upload has finished processing.
func (u *Upload) IsTerminal() bool {
	return u.Status == UploadStatusCompleted || u.Status == UploadStatusFailed
}

// UploadRepository persists uploads.
type UploadRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Upload, error)
	FindAllForCredential(ctx context.Context, credentialID uuid.UUID, filter shared.Filter) ([]Upload, error)
	FindRecentBySource(ctx context.Context, source UploadSource, limit int) ([]Upload, error)
	Save(ctx context.Context, upload *Upload) error
	Count(ctx context.Context, credentialID uuid.UUID) (int64, error)
}

package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
)

// ResultStatus is the outcome of submitting one logical order.
type ResultStatus string

const (
	ResultStatusProcessing ResultStatus = "PROCESSING"
	ResultStatusSuccess    ResultStatus = "SUCCESS"
	ResultStatusFailed     ResultStatus = "FAILED"
)

// ErrorType classifies where a submission failed so the retry view can
// group failures.
type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "VALIDATION"
	ErrorTypeCustomerCreation ErrorType = "CUSTOMER_CREATION"
	ErrorTypeAddressCreation  ErrorType = "ADDRESS_CREATION"
	ErrorTypeSaleCreation     ErrorType = "SALE_CREATION"
	ErrorTypeOrderCreation    ErrorType = "ORDER_CREATION"
	ErrorTypeAPI              ErrorType = "API"
)

// Result records the submission outcome for one logical order within an
// upload. A Sale created without its Sale Order keeps its SaleID here
// so the partial state is visible and retryable.
type Result struct {
	ID           uuid.UUID
	UploadID     uuid.UUID
	OrderKey     string
	RowNumbers   []int
	Status       ResultStatus
	SaleID       string
	SaleOrderID  string
	ErrorMessage string
	ErrorType    ErrorType
	OrderData    map[string]interface{}
	Reviewed     bool
	RetryCount   int
	LastRetryAt  *time.Time
	ResolvedAt   *time.Time
	ResolvedBy   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewResult creates a processing result for one logical order.
func NewResult(uploadID uuid.UUID, orderKey string, rowNumbers []int, orderData map[string]interface{}) (*Result, error) {
	if uploadID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UPLOAD", "Result must belong to an upload")
	}
	if orderKey == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_KEY", "Result order key cannot be empty")
	}
	now := time.Now()
	return &Result{
		ID:         uuid.New(),
		UploadID:   uploadID,
		OrderKey:   orderKey,
		RowNumbers: rowNumbers,
		Status:     ResultStatusProcessing,
		OrderData:  orderData,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// RecordSale stores the Sale ID as soon as the first API phase
// succeeds, before the Sale Order phase runs.
func (r *Result) RecordSale(saleID string) {
	r.SaleID = saleID
	r.UpdatedAt = time.Now()
}

// MarkSuccess finalizes the result after both API phases succeed.
func (r *Result) MarkSuccess(saleID, saleOrderID string) {
	r.Status = ResultStatusSuccess
	r.SaleID = saleID
	r.SaleOrderID = saleOrderID
	r.ErrorMessage = ""
	r.ErrorType = ""
	r.UpdatedAt = time.Now()
}

// MarkFailed records the failing step and message. Any SaleID already
// recorded is kept.
func (r *Result) MarkFailed(errorType ErrorType, message string) {
	r.Status = ResultStatusFailed
	r.ErrorType = errorType
	r.ErrorMessage = message
	r.UpdatedAt = time.Now()
}

// MarkRetried bumps the retry counter and returns the result to
// processing for another submission attempt.
func (r *Result) MarkRetried() error {
	if r.Status != ResultStatusFailed {
		return shared.NewDomainError("INVALID_STATE", "Only failed orders can be retried")
	}
	if r.ResolvedAt != nil {
		return shared.NewDomainError("INVALID_STATE", "Resolved orders cannot be retried")
	}
	now := time.Now()
	r.Status = ResultStatusProcessing
	r.RetryCount++
	r.LastRetryAt = &now
	r.UpdatedAt = now
	return nil
}

// MarkReviewed flags the failure as seen by an operator.
func (r *Result) MarkReviewed() {
	r.Reviewed = true
	r.UpdatedAt = time.Now()
}

// Resolve closes out a failed order that will not be retried, recording
// who resolved it.
func (r *Result) Resolve(resolvedBy string) error {
	if r.Status != ResultStatusFailed {
		return shared.NewDomainError("INVALID_STATE", "Only failed orders can be resolved")
	}
	if resolvedBy == "" {
		return shared.NewDomainError("INVALID_INPUT", "Resolver cannot be empty")
	}
	now := time.Now()
	r.ResolvedAt = &now
	r.ResolvedBy = resolvedBy
	r.Reviewed = true
	r.UpdatedAt = now
	return nil
}

// IsResolved reports whether the failure has been closed out.
func (r *Result) IsResolved() bool {
	return r.ResolvedAt != nil
}

// HasPartialSale reports whether a Sale exists without its Sale Order.
func (r *Result) HasPartialSale() bool {
	return r.SaleID != "" && r.SaleOrderID == ""
}

// ResultRepository persists per-order submission results.
type ResultRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Result, error)
	FindByUpload(ctx context.Context, uploadID uuid.UUID) ([]Result, error)
	FindFailed(ctx context.Context, filter shared.Filter) ([]Result, error)
	FindUnresolvedFailed(ctx context.Context, filter shared.Filter) ([]Result, error)
	Save(ctx context.Context, result *Result) error
	CountByStatus(ctx context.Context, uploadID uuid.UUID, status ResultStatus) (int64, error)
}

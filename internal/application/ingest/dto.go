package ingest

import (
	"time"

	"github.com/google/uuid"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/order"
)

// CreateUploadRequest carries a parsed multipart upload.
type CreateUploadRequest struct {
	CredentialID uuid.UUID
	Filename     string
	Content      []byte
	TemplateID   *uuid.UUID
	Source       order.UploadSource
}

// UploadResponse is the API view of an upload.
type UploadResponse struct {
	ID           uuid.UUID `json:"id"`
	CredentialID uuid.UUID `json:"credential_id"`
	Filename     string    `json:"filename"`
	Source       string    `json:"source"`
	Status       string    `json:"status"`
	TotalOrders  int       `json:"total_orders"`
	SuccessCount int       `json:"success_count"`
	FailureCount int       `json:"failure_count"`
	ErrorLog     []string  `json:"error_log,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToUploadResponse maps a domain upload to its API view.
func ToUploadResponse(u *order.Upload) UploadResponse {
	return UploadResponse{
		ID:           u.ID,
		CredentialID: u.CredentialID,
		Filename:     u.Filename,
		Source:       string(u.Source),
		Status:       string(u.Status),
		TotalOrders:  u.TotalOrders,
		SuccessCount: u.SuccessCount,
		FailureCount: u.FailureCount,
		ErrorLog:     u.ErrorLog,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// OrderReport is the validation verdict for one logical order.
type OrderReport struct {
	OrderKey              string                        `json:"order_key"`
	RowNumbers            []int                         `json:"row_numbers"`
	CustomerName          string                        `json:"customer_name"`
	LineCount             int                           `json:"line_count"`
	Total                 string                        `json:"total"`
	FieldStatuses         map[string]order.FieldStatus  `json:"field_statuses"`
	Warnings              []string                      `json:"warnings,omitempty"`
	ResolvedCustomerID    string                        `json:"resolved_customer_id,omitempty"`
	ResolvedAddressID     string                        `json:"resolved_address_id,omitempty"`
	NeedsCustomerCreation bool                          `json:"needs_customer_creation"`
	NeedsAddressCreation  bool                          `json:"needs_address_creation"`
	Submittable           bool                          `json:"submittable"`
}

// ValidationReport is the outcome of validating one upload.
type ValidationReport struct {
	UploadID      uuid.UUID     `json:"upload_id"`
	TotalRows     int           `json:"total_rows"`
	TotalOrders   int           `json:"total_orders"`
	ReadyOrders   int           `json:"ready_orders"`
	BlockedOrders int           `json:"blocked_orders"`
	NewCustomers  int           `json:"new_customers"`
	NewAddresses  int           `json:"new_addresses"`
	RowErrors     []string      `json:"row_errors,omitempty"`
	Orders        []OrderReport `json:"orders"`
}

// ResultResponse is the API view of one order result.
type ResultResponse struct {
	ID           uuid.UUID  `json:"id"`
	UploadID     uuid.UUID  `json:"upload_id"`
	OrderKey     string     `json:"order_key"`
	RowNumbers   []int      `json:"row_numbers,omitempty"`
	Status       string     `json:"status"`
	SaleID       string     `json:"sale_id,omitempty"`
	SaleOrderID  string     `json:"sale_order_id,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	ErrorType    string     `json:"error_type,omitempty"`
	Reviewed     bool       `json:"reviewed"`
	RetryCount   int        `json:"retry_count"`
	LastRetryAt  *time.Time `json:"last_retry_at,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy   string     `json:"resolved_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToResultResponse maps a domain result to its API view.
func ToResultResponse(r *order.Result) ResultResponse {
	return ResultResponse{
		ID:           r.ID,
		UploadID:     r.UploadID,
		OrderKey:     r.OrderKey,
		RowNumbers:   r.RowNumbers,
		Status:       string(r.Status),
		SaleID:       r.SaleID,
		SaleOrderID:  r.SaleOrderID,
		ErrorMessage: r.ErrorMessage,
		ErrorType:    string(r.ErrorType),
		Reviewed:     r.Reviewed,
		RetryCount:   r.RetryCount,
		LastRetryAt:  r.LastRetryAt,
		ResolvedAt:   r.ResolvedAt,
		ResolvedBy:   r.ResolvedBy,
		CreatedAt:    r.CreatedAt,
	}
}

// SubmitReport summarizes one submission run.
type SubmitReport struct {
	UploadID     uuid.UUID        `json:"upload_id"`
	TotalOrders  int              `json:"total_orders"`
	SuccessCount int              `json:"success_count"`
	FailureCount int              `json:"failure_count"`
	SkippedCount int              `json:"skipped_count"`
	Results      []ResultResponse `json:"results"`
}

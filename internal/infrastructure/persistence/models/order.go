package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/order"
)

// UploadModel is the persistence model for CSV uploads. The raw CSV
// content is stored inline so failed orders can be retried later.
type UploadModel struct {
	BaseModel
	CredentialID uuid.UUID `gorm:"type:uuid;not null;index"`
	Filename     string    `gorm:"type:varchar(300);not null"`
	Source       string    `gorm:"type:varchar(20);not null;index"`
	Status       string    `gorm:"type:varchar(20);not null;index"`
	TotalOrders  int       `gorm:"not null;default:0"`
	SuccessCount int       `gorm:"not null;default:0"`
	FailureCount int       `gorm:"not null;default:0"`
	ErrorLog     string    `gorm:"type:jsonb"`
	CSVContent   string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (UploadModel) TableName() string {
	return "sales_order_uploads"
}

// ToDomain converts the persistence model to a domain Upload.
func (m *UploadModel) ToDomain() (*order.Upload, error) {
	var errorLog []string
	if m.ErrorLog != "" {
		if err := json.Unmarshal([]byte(m.ErrorLog), &errorLog); err != nil {
			return nil, err
		}
	}
	return &order.Upload{
		ID:           m.ID,
		CredentialID: m.CredentialID,
		Filename:     m.Filename,
		Source:       order.UploadSource(m.Source),
		Status:       order.UploadStatus(m.Status),
		TotalOrders:  m.TotalOrders,
		SuccessCount: m.SuccessCount,
		FailureCount: m.FailureCount,
		ErrorLog:     errorLog,
		CSVContent:   m.CSVContent,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

// FromDomain populates the persistence model from a domain Upload.
func (m *UploadModel) FromDomain(u *order.Upload) error {
	m.ID = u.ID
	m.CredentialID = u.CredentialID
	m.Filename = u.Filename
	m.Source = string(u.Source)
	m.Status = string(u.Status)
	m.TotalOrders = u.TotalOrders
	m.SuccessCount = u.SuccessCount
	m.FailureCount = u.FailureCount
	m.CSVContent = u.CSVContent
	m.CreatedAt = u.CreatedAt
	m.UpdatedAt = u.UpdatedAt
	if len(u.ErrorLog) > 0 {
		raw, err := json.Marshal(u.ErrorLog)
		if err != nil {
			return err
		}
		m.ErrorLog = string(raw)
	} else {
		m.ErrorLog = ""
	}
	return nil
}

// ResultModel is the persistence model for per-order submission results.
type ResultModel struct {
	BaseModel
	UploadID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderKey     string     `gorm:"type:varchar(200);not null;index"`
	RowNumbers   string     `gorm:"type:jsonb"`
	Status       string     `gorm:"type:varchar(20);not null;index"`
	SaleID       string     `gorm:"type:varchar(100)"`
	SaleOrderID  string     `gorm:"type:varchar(100)"`
	ErrorMessage string     `gorm:"type:text"`
	ErrorType    string     `gorm:"type:varchar(30);index"`
	OrderData    string     `gorm:"type:jsonb"`
	Reviewed     bool       `gorm:"not null;default:false"`
	RetryCount   int        `gorm:"not null;default:0"`
	LastRetryAt  *time.Time
	ResolvedAt   *time.Time
	ResolvedBy   string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ResultModel) TableName() string {
	return "sales_order_results"
}

// ToDomain converts the persistence model to a domain Result.
func (m *ResultModel) ToDomain() (*order.Result, error) {
	var rowNumbers []int
	if m.RowNumbers != "" {
		if err := json.Unmarshal([]byte(m.RowNumbers), &rowNumbers); err != nil {
			return nil, err
		}
	}
	var orderData map[string]interface{}
	if m.OrderData != "" {
		if err := json.Unmarshal([]byte(m.OrderData), &orderData); err != nil {
			return nil, err
		}
	}
	return &order.Result{
		ID:           m.ID,
		UploadID:     m.UploadID,
		OrderKey:     m.OrderKey,
		RowNumbers:   rowNumbers,
		Status:       order.ResultStatus(m.Status),
		SaleID:       m.SaleID,
		SaleOrderID:  m.SaleOrderID,
		ErrorMessage: m.ErrorMessage,
		ErrorType:    order.ErrorType(m.ErrorType),
		OrderData:    orderData,
		Reviewed:     m.Reviewed,
		RetryCount:   m.RetryCount,
		LastRetryAt:  m.LastRetryAt,
		ResolvedAt:   m.ResolvedAt,
		ResolvedBy:   m.ResolvedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

// FromDomain populates the persistence model from a domain Result.
func (m *ResultModel) FromDomain(r *order.Result) error {
	m.ID = r.ID
	m.UploadID = r.UploadID
	m.OrderKey = r.OrderKey
	m.Status = string(r.Status)
	m.SaleID = r.SaleID
	m.SaleOrderID = r.SaleOrderID
	m.ErrorMessage = r.ErrorMessage
	m.ErrorType = string(r.ErrorType)
	m.Reviewed = r.Reviewed
	m.RetryCount = r.RetryCount
	m.LastRetryAt = r.LastRetryAt
	m.ResolvedAt = r.ResolvedAt
	m.ResolvedBy = r.ResolvedBy
	m.CreatedAt = r.CreatedAt
	m.UpdatedAt = r.UpdatedAt

	if len(r.RowNumbers) > 0 {
		raw, err := json.Marshal(r.RowNumbers)
		if err != nil {
			return err
		}
		m.RowNumbers = string(raw)
	} else {
		m.RowNumbers = ""
	}
	if len(r.OrderData) > 0 {
		raw, err := json.Marshal(r.OrderData)
		if err != nil {
			return err
		}
		m.OrderData = string(raw)
	} else {
		m.OrderData = ""
	}
	return nil
}

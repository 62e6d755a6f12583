package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpload(t *testing.T) {
	u, err := NewUpload(uuid.New(), "orders.csv", SourceManual, "a,b\n1,2\n")
	require.NoError(t, err)
	assert.Equal(t, UploadStatusPending, u.Status)
	assert.Equal(t, SourceManual, u.Source)
	assert.NotEqual(t, uuid.Nil, u.ID)
}

func TestNewUploadValidation(t *testing.T) {
	_, err := NewUpload(uuid.Nil, "orders.csv", SourceManual, "x")
	assert.Error(t, err)

	_, err = NewUpload(uuid.New(), "", SourceManual, "x")
	assert.Error(t, err)

	_, err = NewUpload(uuid.New(), "orders.csv", SourceWebhook, "")
	assert.Error(t, err)
}

func TestUploadLifecycle(t *testing.T) {
	u, err := NewUpload(uuid.New(), "orders.csv", SourceManual, "x")
	require.NoError(t, err)

	require.NoError(t, u.Start(5))
	assert.Equal(t, UploadStatusProcessing, u.Status)
	assert.Equal(t, 5, u.TotalOrders)

	require.NoError(t, u.Complete(4, 1))
	assert.Equal(t, UploadStatusCompleted, u.Status)
	assert.Equal(t, 4, u.SuccessCount)
	assert.Equal(t, 1, u.FailureCount)
	assert.True(t, u.IsTerminal())
}

func TestUploadCompleteAllFailed(t *testing.T) {
	u, _ := NewUpload(uuid.New(), "orders.csv", SourceManual, "x")
	require.NoError(t, u.Start(3))
	require.NoError(t, u.Complete(0, 3))
	assert.Equal(t, UploadStatusFailed, u.Status)
}

func TestUploadInvalidTransitions(t *testing.T) {
	u, _ := NewUpload(uuid.New(), "orders.csv", SourceManual, "x")

	// Cannot complete before starting.
	assert.Error(t, u.Complete(1, 0))

	require.NoError(t, u.Start(1))
	// Cannot start twice.
	assert.Error(t, u.Start(1))

	require.NoError(t, u.Complete(1, 0))
	// Completed is terminal.
	assert.Error(t, u.Start(1))
}

func TestUploadFailedCanReprocess(t *testing.T) {
	u, _ := NewUpload(uuid.New(), "orders.csv", SourceWebhook, "x")
	u.Fail("parse error")
	assert.Equal(t, UploadStatusFailed, u.Status)
	assert.Contains(t, u.ErrorLog, "parse error")

	// A failed upload may be reprocessed.
	assert.NoError(t, u.Start(2))
}

func TestResultLifecycle(t *testing.T) {
	r, err := NewResult(uuid.New(), "INV_1001", []int{2, 3}, map[string]interface{}{"CustomerName": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, ResultStatusProcessing, r.Status)

	r.RecordSale("sale-123")
	assert.True(t, r.HasPartialSale())

	r.MarkSuccess("sale-123", "so-456")
	assert.Equal(t, ResultStatusSuccess, r.Status)
	assert.False(t, r.HasPartialSale())
	assert.Empty(t, r.ErrorMessage)
}

func TestResultPartialFailure(t *testing.T) {
	r, _ := NewResult(uuid.New(), "SO_77", []int{4}, nil)
	r.RecordSale("sale-999")
	r.MarkFailed(ErrorTypeOrderCreation, "saleorder rejected")

	assert.Equal(t, ResultStatusFailed, r.Status)
	assert.Equal(t, "sale-999", r.SaleID)
	assert.True(t, r.HasPartialSale())
	assert.Equal(t, ErrorTypeOrderCreation, r.ErrorType)
}

func TestResultRetry(t *testing.T) {
	r, _ := NewResult(uuid.New(), "ROW_5", []int{5}, nil)

	// Cannot retry while processing.
	assert.Error(t, r.MarkRetried())

	r.MarkFailed(ErrorTypeSaleCreation, "boom")
	require.NoError(t, r.MarkRetried())
	assert.Equal(t, ResultStatusProcessing, r.Status)
	assert.Equal(t, 1, r.RetryCount)
	assert.NotNil(t, r.LastRetryAt)
}

func TestResultResolve(t *testing.T) {
	r, _ := NewResult(uuid.New(), "INV_2", []int{2}, nil)
	r.MarkFailed(ErrorTypeValidation, "missing SKU")

	assert.Error(t, r.Resolve(""))
	require.NoError(t, r.Resolve("ops@example.com"))
	assert.True(t, r.IsResolved())
	assert.True(t, r.Reviewed)

	// Resolved failures are closed to retry.
	assert.Error(t, r.MarkRetried())
}

func TestLogicalOrderTotals(t *testing.T) {
	o := &LogicalOrder{
		Key: "INV_1",
		Lines: []Line{
			{Quantity: decimal.NewFromInt(2), Price: decimal.NewFromFloat(10.50), Tax: decimal.NewFromFloat(1.05)},
			{Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(5), Discount: decimal.NewFromInt(1), Tax: decimal.Zero},
		},
	}
	assert.Equal(t, "25", o.Total().String())
	assert.Equal(t, "1.05", o.TaxTotal().String())
}

func TestLogicalOrderSubmittable(t *testing.T) {
	o := &LogicalOrder{
		FieldStatuses: map[string]FieldStatus{
			"CustomerName": {State: FieldReady},
			"ShipBy":       {State: FieldOptional},
			"Email":        {State: FieldWarning},
		},
	}
	assert.True(t, o.IsSubmittable())

	o.FieldStatuses["SKU"] = FieldStatus{State: FieldMissing}
	assert.False(t, o.IsSubmittable())
}

func TestShippingAddressLine(t *testing.T) {
	o := &LogicalOrder{
		ShippingLine1:  "123 Main St",
		ShippingCity:   "Springfield",
		ShippingState:  "IL",
		ShippingPostal: "62704",
	}
	assert.Equal(t, "123 Main St, Springfield, IL, 62704", o.ShippingAddressLine())

	assert.Empty(t, (&LogicalOrder{}).ShippingAddressLine())
}

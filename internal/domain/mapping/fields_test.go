package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "invoice no", NormalizeHeader("  Invoice_No.  "))
	assert.Equal(t, "unit price", NormalizeHeader("Unit-Price"))
	assert.Equal(t, "sku", NormalizeHeader("SKU"))
	assert.Equal(t, "qty ordered", NormalizeHeader("Qty   Ordered"))
}

func TestAutoDetectExactFieldNames(t *testing.T) {
	headers := []string{"CustomerName", "SKU", "Quantity", "Price"}
	result := AutoDetect(headers)

	require.Len(t, result, 4)
	assert.Equal(t, FieldCustomerName, result["CustomerName"])
	assert.Equal(t, FieldSKU, result["SKU"])
	assert.Equal(t, FieldQuantity, result["Quantity"])
	assert.Equal(t, FieldPrice, result["Price"])
}

func TestAutoDetectSynonyms(t *testing.T) {
	headers := []string{"Customer", "Item Code", "Qty", "Unit Price", "Inv No", "Order Date"}
	result := AutoDetect(headers)

	assert.Equal(t, FieldCustomerName, result["Customer"])
	assert.Equal(t, FieldSKU, result["Item Code"])
	assert.Equal(t, FieldQuantity, result["Qty"])
	assert.Equal(t, FieldPrice, result["Unit Price"])
	assert.Equal(t, FieldInvoiceNumber, result["Inv No"])
	assert.Equal(t, FieldSaleDate, result["Order Date"])
}

func TestAutoDetectClaimsFieldOnce(t *testing.T) {
	// Two headers both resolve to Quantity; only the first wins.
	headers := []string{"Qty", "Units"}
	result := AutoDetect(headers)

	assert.Equal(t, FieldQuantity, result["Qty"])
	_, mapped := result["Units"]
	assert.False(t, mapped)
}

func TestAutoDetectExactBeatsSynonym(t *testing.T) {
	// "Total" appears both as a field name and as a synonym candidate.
	headers := []string{"Amount", "Total"}
	result := AutoDetect(headers)

	assert.Equal(t, FieldTotal, result["Total"])
	_, mapped := result["Amount"]
	assert.False(t, mapped)
}

func TestAutoDetectUnknownHeader(t *testing.T) {
	result := AutoDetect([]string{"Warehouse Bin"})
	assert.Empty(t, result)
}

func TestMissingRequired(t *testing.T) {
	columnMapping := map[string]Field{
		"Customer": FieldCustomerName,
		"SKU":      FieldSKU,
		"Price":    FieldPrice,
	}

	missing := MissingRequired(columnMapping, true)
	assert.ElementsMatch(t, []Field{FieldCustomerReference, FieldSaleDate}, missing)

	missing = MissingRequired(columnMapping, false)
	assert.ElementsMatch(t, []Field{FieldSaleDate}, missing)
}

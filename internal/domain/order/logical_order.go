package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// FieldState classifies one mapped field of a logical order after
// validation.
type FieldState string

const (
	FieldReady    FieldState = "ready"
	FieldMissing  FieldState = "missing"
	FieldInvalid  FieldState = "invalid"
	FieldWarning  FieldState = "warning"
	FieldOptional FieldState = "optional"
)

// FieldStatus is the validation verdict for one field.
type FieldStatus struct {
	State   FieldState `json:"state"`
	Value   string     `json:"value,omitempty"`
	Message string     `json:"message,omitempty"`
}

// Blocking reports whether this field status prevents submission.
func (f FieldStatus) Blocking() bool {
	return f.State == FieldMissing || f.State == FieldInvalid
}

// Line is one product line of a logical order.
type Line struct {
	RowNumber   int
	SKU         string
	ProductName string
	ProductID   string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Discount    decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
}

// LineTotal is quantity times price less discount.
func (l Line) LineTotal() decimal.Decimal {
	return l.Quantity.Mul(l.Price).Sub(l.Discount)
}

// LogicalOrder is a group of CSV rows that submit as one ERP order.
// Continuation lines share the group key and contribute extra Lines;
// header fields come from the first row of the group.
type LogicalOrder struct {
	Key        string
	RowNumbers []int

	CustomerID        string
	CustomerName      string
	SaleOrderNumber   string
	InvoiceNumber     string
	CustomerReference string
	SaleDate          time.Time
	ShipBy            string
	Email             string
	Phone             string

	BillingAddress  string
	ShippingLine1   string
	ShippingLine2   string
	ShippingCity    string
	ShippingState   string
	ShippingPostal  string
	ShippingCompany string

	Lines []Line

	// Resolution against the ERP cache.
	ResolvedCustomerID    string
	ResolvedAddressID     string
	NeedsCustomerCreation bool
	NeedsAddressCreation  bool

	FieldStatuses map[string]FieldStatus
	Warnings      []string
}

// Total sums line totals for the Sale Order payload.
func (o *LogicalOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// TaxTotal sums line tax.
func (o *LogicalOrder) TaxTotal() decimal.Decimal {
	tax := decimal.Zero
	for _, l := range o.Lines {
		tax = tax.Add(l.Tax)
	}
	return tax
}

// IsSubmittable reports whether no blocking field status remains.
func (o *LogicalOrder) IsSubmittable() bool {
	for _, fs := range o.FieldStatuses {
		if fs.Blocking() {
			return false
		}
	}
	return true
}

// ShippingAddressLine returns the shipping address joined on one line
// for fuzzy comparison against cached ERP addresses.
func (o *LogicalOrder) ShippingAddressLine() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{o.ShippingLine1, o.ShippingLine2, o.ShippingCity, o.ShippingState, o.ShippingPostal} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	joined := parts[0]
	for _, p := range parts[1:] {
		joined += ", " + p
	}
	return joined
}

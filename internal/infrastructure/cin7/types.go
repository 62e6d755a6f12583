package cin7

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Customer is a Cin7 customer record as returned by /customer.
type Customer struct {
	ID          string    `json:"ID,omitempty"`
	Name        string    `json:"Name"`
	Currency    string    `json:"Currency,omitempty"`
	PaymentTerm string    `json:"PaymentTerm,omitempty"`
	TaxRule     string    `json:"TaxRule,omitempty"`
	Status      string    `json:"Status,omitempty"`
	Addresses   []Address `json:"Addresses,omitempty"`
	Contacts    []Contact `json:"Contacts,omitempty"`
}

// Contact is a customer contact entry.
type Contact struct {
	Name    string `json:"Name,omitempty"`
	Email   string `json:"Email,omitempty"`
	Phone   string `json:"Phone,omitempty"`
	Default bool   `json:"Default,omitempty"`
}

// Address is a Cin7 customer address.
type Address struct {
	ID             string `json:"ID,omitempty"`
	Line1          string `json:"Line1,omitempty"`
	Line2          string `json:"Line2,omitempty"`
	City           string `json:"City,omitempty"`
	State          string `json:"State,omitempty"`
	Postcode       string `json:"Postcode,omitempty"`
	Country        string `json:"Country,omitempty"`
	Company        string `json:"Company,omitempty"`
	Type           string `json:"Type,omitempty"`
	DefaultForType bool   `json:"DefaultForType,omitempty"`
}

// DisplayLine joins the address for fuzzy comparison.
func (a Address) DisplayLine() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Line1, a.Line2, a.City, a.State, a.Postcode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Product is a Cin7 product record as returned by /product.
type Product struct {
	ID         string          `json:"ID,omitempty"`
	SKU        string          `json:"SKU"`
	Name       string          `json:"Name"`
	Category   string          `json:"Category,omitempty"`
	UOM        string          `json:"UOM,omitempty"`
	Status     string          `json:"Status,omitempty"`
	PriceTier1 decimal.Decimal `json:"PriceTier1,omitempty"`
}

// SaleAddress is the address shape embedded in a Sale payload. Inline
// addresses carry display lines and never create a saved address.
type SaleAddress struct {
	ID                  string `json:"ID,omitempty"`
	Line1               string `json:"Line1,omitempty"`
	Line2               string `json:"Line2,omitempty"`
	City                string `json:"City,omitempty"`
	State               string `json:"State,omitempty"`
	Postcode            string `json:"Postcode,omitempty"`
	Country             string `json:"Country,omitempty"`
	Company             string `json:"Company,omitempty"`
	DisplayAddressLine1 string `json:"DisplayAddressLine1,omitempty"`
	DisplayAddressLine2 string `json:"DisplayAddressLine2,omitempty"`
	ShipToOther         bool   `json:"ShipToOther"`
}

// Sale is the first-phase payload sent to /sale.
type Sale struct {
	ID                string       `json:"ID,omitempty"`
	Type              string       `json:"Type,omitempty"`
	CustomerID        string       `json:"CustomerID,omitempty"`
	Customer          string       `json:"Customer,omitempty"`
	Currency          string       `json:"Currency,omitempty"`
	Location          string       `json:"Location,omitempty"`
	TaxRule           string       `json:"TaxRule,omitempty"`
	TaxInclusive      bool         `json:"TaxInclusive"`
	CustomerReference string       `json:"CustomerReference,omitempty"`
	SaleDate          string       `json:"SaleOrderDate,omitempty"`
	ShipBy            string       `json:"ShipBy,omitempty"`
	BillingAddress    *SaleAddress `json:"BillingAddress,omitempty"`
	ShippingAddress   *SaleAddress `json:"ShippingAddress,omitempty"`
}

// SaleOrderLine is one product line of a Sale Order.
type SaleOrderLine struct {
	ProductID string          `json:"ProductID,omitempty"`
	SKU       string          `json:"SKU,omitempty"`
	Name      string          `json:"Name,omitempty"`
	Quantity  decimal.Decimal `json:"Quantity"`
	Price     decimal.Decimal `json:"Price"`
	Discount  decimal.Decimal `json:"Discount"`
	Tax       decimal.Decimal `json:"Tax"`
	TaxRule   string          `json:"TaxRule,omitempty"`
	Total     decimal.Decimal `json:"Total"`
}

// SaleOrder is the second-phase payload sent to /saleorder.
type SaleOrder struct {
	ID     string          `json:"ID,omitempty"`
	SaleID string          `json:"SaleID"`
	Status string          `json:"Status,omitempty"`
	Lines  []SaleOrderLine `json:"Lines"`
	Total  decimal.Decimal `json:"Total"`
	Tax    decimal.Decimal `json:"Tax"`
}

// customerList is the paginated /customer response.
type customerList struct {
	Total        int        `json:"Total"`
	Page         int        `json:"Page"`
	CustomerList []Customer `json:"CustomerList"`
}

// productList is the paginated /product response.
type productList struct {
	Total    int       `json:"Total"`
	Page     int       `json:"Page"`
	Products []Product `json:"Products"`
}

// AccountInfo is the /me response used for connection tests.
type AccountInfo struct {
	Company  string `json:"Company"`
	Currency string `json:"Currency"`
	TimeZone string `json:"TimeZone"`
}

// Account is a /ref/account chart-of-accounts entry.
type Account struct {
	Code   string `json:"Code"`
	Name   string `json:"Name"`
	Type   string `json:"Type"`
	Status string `json:"Status"`
}

// TaxRule is a /ref/tax entry.
type TaxRule struct {
	ID         string          `json:"ID"`
	Name       string          `json:"Name"`
	TaxPercent decimal.Decimal `json:"TaxPercent"`
}

// Location is a /ref/location entry.
type Location struct {
	ID   string `json:"ID"`
	Name string `json:"Name"`
}

// ErrorDetail is one entry of a Cin7 error array.
type ErrorDetail struct {
	ErrorCode int    `json:"ErrorCode,omitempty"`
	Exception string `json:"Exception,omitempty"`
	Message   string `json:"Message,omitempty"`
}

// APIError is a non-2xx response from the ERP with any parsed details.
type APIError struct {
	StatusCode int
	Endpoint   string
	Details    []ErrorDetail
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		msgs := make([]string, 0, len(e.Details))
		for _, d := range e.Details {
			if d.Exception != "" {
				msgs = append(msgs, d.Exception)
			} else if d.Message != "" {
				msgs = append(msgs, d.Message)
			}
		}
		if len(msgs) > 0 {
			return fmt.Sprintf("cin7 %s returned %d: %s", e.Endpoint, e.StatusCode, strings.Join(msgs, "; "))
		}
	}
	return fmt.Sprintf("cin7 %s returned %d", e.Endpoint, e.StatusCode)
}

// IsRateLimited reports whether the ERP rejected the call for pace.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsAuthError reports whether the credentials were rejected.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

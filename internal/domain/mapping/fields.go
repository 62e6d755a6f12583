package mapping

import (
	"regexp"
	"strings"
)

// Field identifies a canonical ERP sales-order field that a CSV column
// can be mapped onto.
type Field string

const (
	FieldCustomerID        Field = "CustomerID"
	FieldCustomerName      Field = "CustomerName"
	FieldSaleOrderNumber   Field = "SaleOrderNumber"
	FieldInvoiceNumber     Field = "InvoiceNumber"
	FieldCustomerReference Field = "CustomerReference"
	FieldSaleDate          Field = "SaleDate"
	FieldShipBy            Field = "ShipBy"
	FieldSKU               Field = "SKU"
	FieldProductName       Field = "ProductName"
	FieldQuantity          Field = "Quantity"
	FieldPrice             Field = "Price"
	FieldDiscount          Field = "Discount"
	FieldTax               Field = "Tax"
	FieldTotal             Field = "Total"
	FieldBillingAddress    Field = "BillingAddress"
	FieldShippingLine1     Field = "ShippingAddressLine1"
	FieldShippingLine2     Field = "ShippingAddressLine2"
	FieldShippingCity      Field = "ShippingAddressCity"
	FieldShippingState     Field = "ShippingAddressState"
	FieldShippingPostcode  Field = "ShippingAddressPostcode"
	FieldShippingCompany   Field = "ShippingAddressCompany"
	FieldEmail             Field = "Email"
	FieldPhone             Field = "Phone"
)

// AllFields lists every mappable field in display order.
var AllFields = []Field{
	FieldCustomerID, FieldCustomerName, FieldSaleOrderNumber,
	FieldInvoiceNumber, FieldCustomerReference, FieldSaleDate, FieldShipBy,
	FieldSKU, FieldProductName, FieldQuantity, FieldPrice, FieldDiscount,
	FieldTax, FieldTotal, FieldBillingAddress, FieldShippingLine1,
	FieldShippingLine2, FieldShippingCity, FieldShippingState,
	FieldShippingPostcode, FieldShippingCompany, FieldEmail, FieldPhone,
}

// fieldSynonyms maps each field to the header spellings commonly seen in
// client exports. Matching is done on normalized header text.
var fieldSynonyms = map[Field][]string{
	FieldCustomerID:        {"customer id", "customerid", "cust id", "account id", "account number", "customer no"},
	FieldCustomerName:      {"customer name", "customer", "client name", "client", "account name", "bill to", "sold to", "company name", "company"},
	FieldSaleOrderNumber:   {"sale order number", "order number", "order no", "order #", "so number", "so #", "so", "sales order"},
	FieldInvoiceNumber:     {"invoice number", "invoice no", "invoice #", "inv no", "inv #", "invoice", "inv"},
	FieldCustomerReference: {"customer reference", "reference", "ref", "customer ref", "po number", "po #", "po", "purchase order"},
	FieldSaleDate:          {"sale date", "order date", "date", "invoice date", "transaction date", "created date"},
	FieldShipBy:            {"ship by", "ship date", "delivery date", "due date", "required date"},
	FieldSKU:               {"sku", "item code", "item number", "product code", "part number", "part no", "item id", "product id"},
	FieldProductName:       {"product name", "product", "item name", "item", "description", "item description", "product description"},
	FieldQuantity:          {"quantity", "qty", "qty ordered", "quantity ordered", "units", "amount ordered", "order qty"},
	FieldPrice:             {"price", "unit price", "rate", "price each", "unit cost", "each", "sell price"},
	FieldDiscount:          {"discount", "discount amount", "disc", "line discount"},
	FieldTax:               {"tax", "tax amount", "gst", "vat", "sales tax", "line tax"},
	FieldTotal:             {"total", "line total", "extended price", "ext price", "amount", "net amount", "line amount", "subtotal"},
	FieldBillingAddress:    {"billing address", "bill to address", "billing"},
	FieldShippingLine1:     {"shipping address", "ship to address", "shipping address line 1", "address line 1", "address 1", "ship to", "street address", "address"},
	FieldShippingLine2:     {"shipping address line 2", "address line 2", "address 2", "suite", "unit"},
	FieldShippingCity:      {"city", "shipping city", "ship to city", "town"},
	FieldShippingState:     {"state", "shipping state", "ship to state", "province", "region"},
	FieldShippingPostcode:  {"postcode", "zip", "zip code", "postal code", "shipping zip", "ship to zip"},
	FieldShippingCompany:   {"shipping company", "ship to company", "ship to name", "consignee"},
	FieldEmail:             {"email", "email address", "customer email", "contact email"},
	FieldPhone:             {"phone", "phone number", "telephone", "contact phone", "mobile"},
}

// RequiredFields are the fields a mapping must cover before an upload
// can be validated.
var RequiredFields = []Field{
	FieldCustomerName, FieldCustomerReference, FieldSaleDate, FieldSKU, FieldPrice,
}

var headerJunk = regexp.MustCompile(`[_\-./]+`)

// NormalizeHeader lowercases a CSV header and collapses separators so
// "Invoice_No." and "invoice no" compare equal.
func NormalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = headerJunk.ReplaceAllString(h, " ")
	h = strings.Join(strings.Fields(h), " ")
	return h
}

// AutoDetect proposes a column mapping for the given CSV headers.
// Exact normalized matches against field names win over synonym
// matches, and each field is claimed at most once.
func AutoDetect(headers []string) map[string]Field {
	result := make(map[string]Field)
	claimed := make(map[Field]bool)

	// Pass 1: the header is exactly a field name.
	for _, header := range headers {
		norm := NormalizeHeader(header)
		for _, f := range AllFields {
			if claimed[f] {
				continue
			}
			if norm == NormalizeHeader(string(f)) {
				result[header] = f
				claimed[f] = true
				break
			}
		}
	}

	// Pass 2: synonym match.
	for _, header := range headers {
		if _, ok := result[header]; ok {
			continue
		}
		norm := NormalizeHeader(header)
		for _, f := range AllFields {
			if claimed[f] {
				continue
			}
			if matchesSynonym(norm, fieldSynonyms[f]) {
				result[header] = f
				claimed[f] = true
				break
			}
		}
	}

	return result
}

func matchesSynonym(norm string, synonyms []string) bool {
	for _, s := range synonyms {
		if norm == s {
			return true
		}
	}
	return false
}

// MissingRequired returns the required fields absent from a column
// mapping, honoring per-client toggles for the reference field.
func MissingRequired(columnMapping map[string]Field, requireReference bool) []Field {
	covered := make(map[Field]bool, len(columnMapping))
	for _, f := range columnMapping {
		covered[f] = true
	}
	var missing []Field
	for _, f := range RequiredFields {
		if f == FieldCustomerReference && !requireReference {
			continue
		}
		if !covered[f] {
			missing = append(missing, f)
		}
	}
	return missing
}

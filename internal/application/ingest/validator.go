package ingest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/client"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/mapping"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/order"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/cin7"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/csvimport"
)

// Validator turns parsed CSV rows into validated logical orders using
// the cached ERP reference data.
type Validator struct {
	lookups  *Lookups
	settings *client.Settings
}

// NewValidator creates a Validator for one run.
func NewValidator(lookups *Lookups, settings *client.Settings) *Validator {
	return &Validator{lookups: lookups, settings: settings}
}

// fieldIndex inverts a header-to-field mapping. The first header
// mapped to a field wins.
func fieldIndex(columnMapping map[string]mapping.Field) map[mapping.Field]string {
	idx := make(map[mapping.Field]string, len(columnMapping))
	for header, field := range columnMapping {
		if _, ok := idx[field]; !ok {
			idx[field] = header
		}
	}
	return idx
}

func fieldValue(row *csvimport.Row, idx map[mapping.Field]string, field mapping.Field) string {
	header, ok := idx[field]
	if !ok {
		return ""
	}
	return strings.TrimSpace(row.Get(header))
}

// groupKey determines which logical order a row belongs to. Rows with
// the same invoice number merge, then rows with the same sale order
// number; rows with neither stand alone.
func groupKey(row *csvimport.Row, idx map[mapping.Field]string) string {
	if inv := fieldValue(row, idx, mapping.FieldInvoiceNumber); inv != "" {
		return "INV_" + inv
	}
	if so := fieldValue(row, idx, mapping.FieldSaleOrderNumber); so != "" {
		return "SO_" + so
	}
	return fmt.Sprintf("ROW_%d", row.LineNumber)
}

// GroupRows splits rows into logical orders preserving file order.
// Header fields come from the first row of each group; every row
// contributes a product line.
func GroupRows(rows []*csvimport.Row, columnMapping map[string]mapping.Field) []*order.LogicalOrder {
	idx := fieldIndex(columnMapping)
	byKey := make(map[string]*order.LogicalOrder)
	orders := make([]*order.LogicalOrder, 0, len(rows))

	for _, row := range rows {
		key := groupKey(row, idx)
		o, ok := byKey[key]
		if !ok {
			o = &order.LogicalOrder{
				Key:               key,
				CustomerID:        fieldValue(row, idx, mapping.FieldCustomerID),
				CustomerName:      fieldValue(row, idx, mapping.FieldCustomerName),
				SaleOrderNumber:   fieldValue(row, idx, mapping.FieldSaleOrderNumber),
				InvoiceNumber:     fieldValue(row, idx, mapping.FieldInvoiceNumber),
				CustomerReference: fieldValue(row, idx, mapping.FieldCustomerReference),
				ShipBy:            fieldValue(row, idx, mapping.FieldShipBy),
				Email:             fieldValue(row, idx, mapping.FieldEmail),
				Phone:             fieldValue(row, idx, mapping.FieldPhone),
				BillingAddress:    fieldValue(row, idx, mapping.FieldBillingAddress),
				ShippingLine1:     fieldValue(row, idx, mapping.FieldShippingLine1),
				ShippingLine2:     fieldValue(row, idx, mapping.FieldShippingLine2),
				ShippingCity:      fieldValue(row, idx, mapping.FieldShippingCity),
				ShippingState:     fieldValue(row, idx, mapping.FieldShippingState),
				ShippingPostal:    fieldValue(row, idx, mapping.FieldShippingPostcode),
				ShippingCompany:   fieldValue(row, idx, mapping.FieldShippingCompany),
				FieldStatuses:     make(map[string]order.FieldStatus),
			}
			byKey[key] = o
			orders = append(orders, o)
		}
		o.RowNumbers = append(o.RowNumbers, row.LineNumber)
		o.Lines = append(o.Lines, order.Line{
			RowNumber:   row.LineNumber,
			SKU:         fieldValue(row, idx, mapping.FieldSKU),
			ProductName: fieldValue(row, idx, mapping.FieldProductName),
		})
	}
	return orders
}

// rawLineValues carries the unparsed numeric cells for one row so the
// validator can report parse failures with row context.
type rawLineValues struct {
	Quantity string
	Price    string
	Discount string
	Tax      string
	Total    string
}

func collectRawLines(rows []*csvimport.Row, columnMapping map[string]mapping.Field) map[int]rawLineValues {
	idx := fieldIndex(columnMapping)
	raw := make(map[int]rawLineValues, len(rows))
	for _, row := range rows {
		raw[row.LineNumber] = rawLineValues{
			Quantity: fieldValue(row, idx, mapping.FieldQuantity),
			Price:    fieldValue(row, idx, mapping.FieldPrice),
			Discount: fieldValue(row, idx, mapping.FieldDiscount),
			Tax:      fieldValue(row, idx, mapping.FieldTax),
			Total:    fieldValue(row, idx, mapping.FieldTotal),
		}
	}
	return raw
}

func collectRawDates(rows []*csvimport.Row, columnMapping map[string]mapping.Field) map[int]string {
	idx := fieldIndex(columnMapping)
	dates := make(map[int]string, len(rows))
	for _, row := range rows {
		dates[row.LineNumber] = fieldValue(row, idx, mapping.FieldSaleDate)
	}
	return dates
}

// Validate groups the rows and validates every logical order. It
// always returns the full order list; blocked orders carry blocking
// field statuses instead of being dropped.
func (v *Validator) Validate(rows []*csvimport.Row, columnMapping map[string]mapping.Field) []*order.LogicalOrder {
	orders := GroupRows(rows, columnMapping)
	rawLines := collectRawLines(rows, columnMapping)
	rawDates := collectRawDates(rows, columnMapping)

	for _, o := range orders {
		v.validateHeader(o, rawDates)
		v.validateLines(o, rawLines)
		v.resolveCustomer(o)
	}
	return orders
}

func (v *Validator) validateHeader(o *order.LogicalOrder, rawDates map[int]string) {
	if o.CustomerName == "" && o.CustomerID == "" {
		o.FieldStatuses[string(mapping.FieldCustomerName)] = order.FieldStatus{
			State:   order.FieldMissing,
			Message: "Customer name is required",
		}
	} else {
		o.FieldStatuses[string(mapping.FieldCustomerName)] = order.FieldStatus{
			State: order.FieldReady,
			Value: o.CustomerName,
		}
	}

	refState := order.FieldOptional
	if v.settings.RequireCustomerReference && o.CustomerReference == "" {
		refState = order.FieldMissing
	} else if o.CustomerReference != "" {
		refState = order.FieldReady
	}
	o.FieldStatuses[string(mapping.FieldCustomerReference)] = order.FieldStatus{
		State:   refState,
		Value:   o.CustomerReference,
		Message: messageIf(refState == order.FieldMissing, "Customer reference is required"),
	}

	if v.settings.RequireInvoiceNumber && o.InvoiceNumber == "" {
		o.FieldStatuses[string(mapping.FieldInvoiceNumber)] = order.FieldStatus{
			State:   order.FieldMissing,
			Message: "Invoice number is required",
		}
	}

	rawDate := ""
	if len(o.RowNumbers) > 0 {
		rawDate = rawDates[o.RowNumbers[0]]
	}
	switch {
	case rawDate == "":
		o.FieldStatuses[string(mapping.FieldSaleDate)] = order.FieldStatus{
			State:   order.FieldMissing,
			Message: "Sale date is required",
		}
	default:
		parsed, err := mapping.ParseDate(rawDate)
		if err != nil {
			o.FieldStatuses[string(mapping.FieldSaleDate)] = order.FieldStatus{
				State:   order.FieldInvalid,
				Value:   rawDate,
				Message: fmt.Sprintf("Unrecognized date %q", rawDate),
			}
		} else {
			o.SaleDate = parsed
			o.FieldStatuses[string(mapping.FieldSaleDate)] = order.FieldStatus{
				State: order.FieldReady,
				Value: parsed.Format("2006-01-02"),
			}
		}
	}

	if o.ShipBy != "" {
		if _, err := mapping.ParseDate(o.ShipBy); err != nil {
			o.Warnings = append(o.Warnings, fmt.Sprintf("Ship-by date %q not recognized, ignored", o.ShipBy))
			o.ShipBy = ""
		}
	}
}

func (v *Validator) validateLines(o *order.LogicalOrder, rawLines map[int]rawLineValues) {
	skuState := order.FieldReady
	priceState := order.FieldReady
	var skuMessages, priceMessages []string

	for i := range o.Lines {
		line := &o.Lines[i]
		raw := rawLines[line.RowNumber]

		if line.SKU == "" {
			skuState = order.FieldMissing
			skuMessages = append(skuMessages, fmt.Sprintf("SKU missing on row %d", line.RowNumber))
		} else if product, ok := v.lookups.ResolveProduct(line.SKU, line.ProductName); ok {
			line.ProductID = product.ID
			if line.ProductName == "" {
				line.ProductName = product.Name
			}
		} else {
			skuState = order.FieldInvalid
			skuMessages = append(skuMessages, fmt.Sprintf("Unknown SKU %q on row %d", line.SKU, line.RowNumber))
		}

		if msg := v.parseLineAmounts(line, raw); msg != "" {
			priceState = order.FieldInvalid
			priceMessages = append(priceMessages, msg)
		}
	}

	o.FieldStatuses[string(mapping.FieldSKU)] = order.FieldStatus{
		State:   skuState,
		Message: strings.Join(skuMessages, "; "),
	}
	o.FieldStatuses[string(mapping.FieldPrice)] = order.FieldStatus{
		State:   priceState,
		Message: strings.Join(priceMessages, "; "),
	}
}

// parseLineAmounts fills the numeric line fields, deriving quantity or
// price from the row total when one of them is absent.
func (v *Validator) parseLineAmounts(line *order.Line, raw rawLineValues) string {
	var err error
	hasQty := raw.Quantity != ""
	hasPrice := raw.Price != ""
	hasTotal := raw.Total != ""

	if hasQty {
		if line.Quantity, err = mapping.ParseDecimal(raw.Quantity); err != nil {
			return fmt.Sprintf("Bad quantity %q on row %d", raw.Quantity, line.RowNumber)
		}
	}
	if hasPrice {
		if line.Price, err = mapping.ParseDecimal(raw.Price); err != nil {
			return fmt.Sprintf("Bad price %q on row %d", raw.Price, line.RowNumber)
		}
	}
	if hasTotal {
		if line.Total, err = mapping.ParseDecimal(raw.Total); err != nil {
			return fmt.Sprintf("Bad total %q on row %d", raw.Total, line.RowNumber)
		}
	}
	if raw.Discount != "" {
		if line.Discount, err = mapping.ParseDecimal(raw.Discount); err != nil {
			return fmt.Sprintf("Bad discount %q on row %d", raw.Discount, line.RowNumber)
		}
	}
	if raw.Tax != "" {
		if line.Tax, err = mapping.ParseDecimal(raw.Tax); err != nil {
			return fmt.Sprintf("Bad tax %q on row %d", raw.Tax, line.RowNumber)
		}
	}

	switch {
	case hasQty && hasPrice:
	case !hasQty && hasPrice && hasTotal:
		if line.Price.IsZero() {
			return fmt.Sprintf("Cannot derive quantity from zero price on row %d", line.RowNumber)
		}
		line.Quantity = line.Total.Div(line.Price)
	case hasQty && !hasPrice && hasTotal:
		if line.Quantity.IsZero() {
			return fmt.Sprintf("Cannot derive price from zero quantity on row %d", line.RowNumber)
		}
		line.Price = line.Total.Div(line.Quantity)
	case !hasPrice:
		return fmt.Sprintf("Price missing on row %d", line.RowNumber)
	default:
		// Price present, quantity absent, no total to derive from.
		line.Quantity = decimal.NewFromInt(1)
	}

	if line.Total.IsZero() {
		line.Total = line.LineTotal()
	}
	return ""
}

func (v *Validator) resolveCustomer(o *order.LogicalOrder) {
	if o.CustomerID != "" && mapping.IsUUID(o.CustomerID) {
		if c, ok := v.lookups.CustomerByID(o.CustomerID); ok {
			o.ResolvedCustomerID = c.ID
			if o.CustomerName == "" {
				o.CustomerName = c.Name
			}
			v.resolveAddress(o, c)
			return
		}
		o.Warnings = append(o.Warnings, fmt.Sprintf("Customer ID %s not found, matching by name", o.CustomerID))
	}

	c, score, ok := v.lookups.ResolveCustomer(o.CustomerName)
	if !ok {
		if o.CustomerName != "" {
			o.NeedsCustomerCreation = true
			o.FieldStatuses[string(mapping.FieldCustomerName)] = order.FieldStatus{
				State:   order.FieldWarning,
				Value:   o.CustomerName,
				Message: "Customer not found, will be created",
			}
		}
		return
	}
	o.ResolvedCustomerID = c.ID
	if score < 1 {
		o.Warnings = append(o.Warnings,
			fmt.Sprintf("Customer %q matched to %q (%.0f%%)", o.CustomerName, c.Name, score*100))
	}
	v.resolveAddress(o, c)
}

func (v *Validator) resolveAddress(o *order.LogicalOrder, c *cin7.Customer) {
	line := o.ShippingAddressLine()
	if line == "" {
		return
	}
	if id, ok := v.lookups.ResolveAddress(c, line); ok {
		o.ResolvedAddressID = id
		return
	}
	o.NeedsAddressCreation = true
	o.Warnings = append(o.Warnings, "Shipping address not on file, will be created")
}

func messageIf(cond bool, msg string) string {
	if cond {
		return msg
	}
	return ""
}

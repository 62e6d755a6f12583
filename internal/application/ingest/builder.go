package ingest

import (
	"github.com/dangreenberg93/cin7-uploader/internal/domain/client"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/matching"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/order"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/cin7"
)

const saleDateLayout = "2006-01-02"

// BuildSale builds the first-phase /sale payload for a logical order.
// The shipping address is sent by saved address ID when one matched,
// otherwise inline with display lines only.
func BuildSale(o *order.LogicalOrder, settings *client.Settings) *cin7.Sale {
	sale := &cin7.Sale{
		Type:              string(settings.SaleType),
		Currency:          settings.DefaultCurrency,
		Location:          settings.DefaultLocation,
		TaxRule:           settings.TaxRule,
		TaxInclusive:      settings.TaxInclusive,
		CustomerReference: o.CustomerReference,
		ShipBy:            o.ShipBy,
	}
	if !o.SaleDate.IsZero() {
		sale.SaleDate = o.SaleDate.Format(saleDateLayout)
	}

	if o.ResolvedCustomerID != "" {
		sale.CustomerID = o.ResolvedCustomerID
	} else {
		sale.Customer = o.CustomerName
	}

	if o.BillingAddress != "" {
		parsed := matching.ParseAddress(o.BillingAddress)
		sale.BillingAddress = &cin7.SaleAddress{
			Line1:               parsed.Line1,
			Line2:               parsed.Line2,
			City:                parsed.City,
			State:               parsed.State,
			Postcode:            parsed.Postcode,
			Company:             parsed.Company,
			DisplayAddressLine1: o.BillingAddress,
			ShipToOther:         false,
		}
	}

	sale.ShippingAddress = buildShippingAddress(o)
	return sale
}

func buildShippingAddress(o *order.LogicalOrder) *cin7.SaleAddress {
	if o.ResolvedAddressID != "" {
		return &cin7.SaleAddress{ID: o.ResolvedAddressID, ShipToOther: false}
	}
	line := o.ShippingAddressLine()
	if line == "" {
		return nil
	}
	return &cin7.SaleAddress{
		Line1:               o.ShippingLine1,
		Line2:               o.ShippingLine2,
		City:                o.ShippingCity,
		State:               o.ShippingState,
		Postcode:            o.ShippingPostal,
		Company:             o.ShippingCompany,
		DisplayAddressLine1: o.ShippingLine1,
		DisplayAddressLine2: o.ShippingLine2,
		ShipToOther:         false,
	}
}

// BuildSaleOrder builds the second-phase /saleorder payload.
func BuildSaleOrder(saleID string, o *order.LogicalOrder, settings *client.Settings) *cin7.SaleOrder {
	lines := make([]cin7.SaleOrderLine, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = cin7.SaleOrderLine{
			ProductID: l.ProductID,
			SKU:       l.SKU,
			Name:      l.ProductName,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Discount:  l.Discount,
			Tax:       l.Tax,
			TaxRule:   settings.TaxRule,
			Total:     l.LineTotal(),
		}
	}
	return &cin7.SaleOrder{
		SaleID: saleID,
		Status: string(settings.DefaultStatus),
		Lines:  lines,
		Total:  o.Total(),
		Tax:    o.TaxTotal(),
	}
}

// BuildCustomer builds the /customer payload when an order needs a new
// customer created. The shipping address and contact details travel
// with it so the customer lands complete.
func BuildCustomer(o *order.LogicalOrder, settings *client.Settings) *cin7.Customer {
	customer := &cin7.Customer{
		Name:     o.CustomerName,
		Currency: settings.DefaultCurrency,
		TaxRule:  settings.TaxRule,
		Status:   "Active",
	}

	if addr := newCustomerAddress(o); addr != nil {
		customer.Addresses = []cin7.Address{*addr}
	}
	if o.Email != "" || o.Phone != "" {
		customer.Contacts = []cin7.Contact{{
			Name:    o.CustomerName,
			Email:   o.Email,
			Phone:   o.Phone,
			Default: true,
		}}
	}
	return customer
}

// BuildCustomerAddress builds the /customeraddress payload when an
// existing customer needs the shipping address added.
func BuildCustomerAddress(o *order.LogicalOrder) *cin7.Address {
	return newCustomerAddress(o)
}

func newCustomerAddress(o *order.LogicalOrder) *cin7.Address {
	if o.ShippingAddressLine() == "" {
		return nil
	}
	return &cin7.Address{
		Line1:          o.ShippingLine1,
		Line2:          o.ShippingLine2,
		City:           o.ShippingCity,
		State:          o.ShippingState,
		Postcode:       o.ShippingPostal,
		Company:        o.ShippingCompany,
		Type:           "Shipping",
		DefaultForType: true,
	}
}

package ingest

import (
	"strings"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/matching"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/cin7"
)

// Lookups indexes the cached ERP reference data for one validation
// run. Built once per run so row validation stays in memory.
type Lookups struct {
	customersByID   map[string]*cin7.Customer
	customersByName map[string]*cin7.Customer
	customersByFold map[string]*cin7.Customer
	customerNames   []string
	customerByIdx   []*cin7.Customer

	productsByID   map[string]*cin7.Product
	productsBySKU  map[string]*cin7.Product
	productsByFold map[string]*cin7.Product
	productsByName map[string]*cin7.Product
}

// NewLookups indexes customers and products.
func NewLookups(customers []cin7.Customer, products []cin7.Product) *Lookups {
	l := &Lookups{
		customersByID:   make(map[string]*cin7.Customer, len(customers)),
		customersByName: make(map[string]*cin7.Customer, len(customers)),
		customersByFold: make(map[string]*cin7.Customer, len(customers)),
		customerNames:   make([]string, 0, len(customers)),
		customerByIdx:   make([]*cin7.Customer, 0, len(customers)),
		productsByID:    make(map[string]*cin7.Product, len(products)),
		productsBySKU:   make(map[string]*cin7.Product, len(products)),
		productsByFold:  make(map[string]*cin7.Product, len(products)),
		productsByName:  make(map[string]*cin7.Product, len(products)),
	}

	for i := range customers {
		c := &customers[i]
		if c.ID != "" {
			l.customersByID[c.ID] = c
		}
		if c.Name != "" {
			l.customersByName[c.Name] = c
			fold := strings.ToLower(strings.TrimSpace(c.Name))
			if _, ok := l.customersByFold[fold]; !ok {
				l.customersByFold[fold] = c
			}
			l.customerNames = append(l.customerNames, c.Name)
			l.customerByIdx = append(l.customerByIdx, c)
		}
	}

	for i := range products {
		p := &products[i]
		if p.ID != "" {
			l.productsByID[p.ID] = p
		}
		if p.SKU != "" {
			l.productsBySKU[p.SKU] = p
			fold := strings.ToLower(strings.TrimSpace(p.SKU))
			if _, ok := l.productsByFold[fold]; !ok {
				l.productsByFold[fold] = p
			}
		}
		if p.Name != "" {
			if _, ok := l.productsByName[p.Name]; !ok {
				l.productsByName[p.Name] = p
			}
		}
	}

	return l
}

// CustomerByID resolves an exact ERP customer ID.
func (l *Lookups) CustomerByID(id string) (*cin7.Customer, bool) {
	c, ok := l.customersByID[id]
	return c, ok
}

// ResolveCustomer resolves a name: exact, casefolded, then fuzzy at
// the customer threshold. The score is 1 for exact matches.
func (l *Lookups) ResolveCustomer(name string) (*cin7.Customer, float64, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, 0, false
	}
	if c, ok := l.customersByName[name]; ok {
		return c, 1, true
	}
	if c, ok := l.customersByFold[strings.ToLower(name)]; ok {
		return c, 1, true
	}
	match, ok := matching.BestMatch(name, l.customerNames, matching.CustomerThreshold)
	if !ok {
		return nil, 0, false
	}
	return l.customerByIdx[match.Index], match.Score, true
}

// ResolveProduct resolves a SKU, falling back to the product name.
func (l *Lookups) ResolveProduct(sku, name string) (*cin7.Product, bool) {
	sku = strings.TrimSpace(sku)
	if sku != "" {
		if p, ok := l.productsBySKU[sku]; ok {
			return p, true
		}
		if p, ok := l.productsByFold[strings.ToLower(sku)]; ok {
			return p, true
		}
	}
	name = strings.TrimSpace(name)
	if name != "" {
		if p, ok := l.productsByName[name]; ok {
			return p, true
		}
	}
	return nil, false
}

// ResolveAddress fuzzy-matches the shipping address against the
// customer's saved addresses and returns the best address ID.
func (l *Lookups) ResolveAddress(c *cin7.Customer, addressLine string) (string, bool) {
	if c == nil || strings.TrimSpace(addressLine) == "" {
		return "", false
	}

	bestID := ""
	bestScore := 0.0
	for _, addr := range c.Addresses {
		line := addr.DisplayLine()
		if line == "" || addr.ID == "" {
			continue
		}
		score := matching.AddressSimilarity(addressLine, line)
		if score > bestScore {
			bestScore = score
			bestID = addr.ID
		}
	}
	if bestScore >= matching.AddressThreshold {
		return bestID, true
	}
	return "", false
}

// CustomerCount reports how many customers are indexed.
func (l *Lookups) CustomerCount() int {
	return len(l.customerByIdx)
}

// ProductCount reports how many products are indexed.
func (l *Lookups) ProductCount() int {
	return len(l.productsBySKU)
}

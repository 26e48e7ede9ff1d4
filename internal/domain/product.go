package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry. Products are only ever created in bulk
// by a catalog import and are never mutated individually.
type Product struct {
	ID                string          `json:"id"`
	Name              string          `json:"product_name"`
	Price             decimal.Decimal `json:"price_usd"`
	AvailableQuantity int             `json:"available_quantity"`
}

// SearchProducts returns the products whose name contains term, ignoring case.
// An empty term matches nothing.
func SearchProducts(products []Product, term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	var found []Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) {
			found = append(found, p)
		}
	}
	return found
}

// FindProduct looks a product up by id.
func FindProduct(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Package catalog matches free-text item descriptions against the product catalog.
//
// Matching is exact and case sensitive. When several products share a
// description the first one in catalog order wins.
package catalog

import (
	"invoicer/pkg/models"
)

// Resolve returns the first product whose description equals description
func Resolve(description string, products []models.Product) (models.Product, bool) {
	for _, p := range products {
		if p.Description == description {
			return p, true
		}
	}
	return models.Product{}, false
}

// ApplyProduct copies the catalog fields of p onto item. Quantity is left alone.
func ApplyProduct(item models.LineItem, p models.Product) models.LineItem {
	item.Description = p.Description
	item.HSNCode = p.HSNCode
	item.Rate = p.Rate
	item.Unit = p.Unit
	item.TaxRatePercent = p.TaxRatePercent
	return item
}

// ApplyDescription sets the description of item and, when it names a catalog
// product, fills HSN code, rate, unit and tax rate from it. Without a match only
// the description changes.
func ApplyDescription(item models.LineItem, description string, products []models.Product) (models.LineItem, bool) {
	item.Description = description
	p, ok := Resolve(description, products)
	if !ok {
		return item, false
	}
	return ApplyProduct(item, p), true
}

// Duplicates lists descriptions that occur more than once, in first-seen order
func Duplicates(products []models.Product) []string {
	counts := make(map[string]int, len(products))
	var order []string
	for _, p := range products {
		if counts[p.Description] == 0 {
			order = append(order, p.Description)
		}
		counts[p.Description]++
	}

	var dups []string
	for _, d := range order {
		if counts[d] > 1 {
			dups = append(dups, d)
		}
	}
	return dups
}

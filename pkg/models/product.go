package models

import (
	"github.com/shopspring/decimal"
)

// Product is a reusable catalog entry. Line items reference it by description text only.
type Product struct {
	ID             string          `json:"id"`
	Description    string          `json:"description"`
	HSNCode        string          `json:"hsnCode"`
	Rate           decimal.Decimal `json:"rate"`
	Unit           string          `json:"unit"`
	TaxRatePercent decimal.Decimal `json:"taxRate"`
}

// ProductDraft is a product that has not been assigned an identifier yet
type ProductDraft struct {
	Description    string
	HSNCode        string
	Rate           decimal.Decimal
	Unit           string
	TaxRatePercent decimal.Decimal
}

// NewProductDraft returns the defaults the product form starts with
func NewProductDraft() ProductDraft {
	return ProductDraft{
		Rate:           decimal.Zero,
		Unit:           "PCS",
		TaxRatePercent: decimal.NewFromInt(18),
	}
}

// Product converts the draft into a product with the given id
func (d ProductDraft) Product(id string) Product {
	return Product{
		ID:             id,
		Description:    d.Description,
		HSNCode:        d.HSNCode,
		Rate:           d.Rate,
		Unit:           d.Unit,
		TaxRatePercent: d.TaxRatePercent,
	}
}

// ProductPatch carries a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Description    *string
	HSNCode        *string
	Rate           *decimal.Decimal
	Unit           *string
	TaxRatePercent *decimal.Decimal
}

// Apply merges the non-nil fields of the patch into p
func (patch ProductPatch) Apply(p *Product) {
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.HSNCode != nil {
		p.HSNCode = *patch.HSNCode
	}
	if patch.Rate != nil {
		p.Rate = *patch.Rate
	}
	if patch.Unit != nil {
		p.Unit = *patch.Unit
	}
	if patch.TaxRatePercent != nil {
		p.TaxRatePercent = *patch.TaxRatePercent
	}
}

// IsEmpty reports whether the patch changes nothing
func (patch ProductPatch) IsEmpty() bool {
	return patch.Description == nil && patch.HSNCode == nil && patch.Rate == nil &&
		patch.Unit == nil && patch.TaxRatePercent == nil
}

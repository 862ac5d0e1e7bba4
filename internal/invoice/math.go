package invoice

import (
	"github.com/shopspring/decimal"
	"invoicer/pkg/models"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// TaxSplit is the presentation of the total tax. CGST + SGST + IGST always equals the total tax.
type TaxSplit struct {
	Mode models.TaxMode  `json:"mode"`
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
}

// Totals bundles every figure the preview and the print layout show below the item table
type Totals struct {
	SubTotal      decimal.Decimal `json:"sub_total"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	Split         TaxSplit        `json:"tax_split"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	RoundOff      decimal.Decimal `json:"round_off"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	AmountInWords string          `json:"amount_in_words"`
}

// ItemAmount is quantity times rate, unrounded
func ItemAmount(item models.LineItem) decimal.Decimal {
	return item.Quantity.Mul(item.Rate)
}

// ItemTax is the tax of a single line, computed on its own amount
func ItemTax(item models.LineItem) decimal.Decimal {
	return ItemAmount(item).Mul(item.TaxRatePercent).Div(hundred)
}

// ItemTotal is the line amount plus the line tax
func ItemTotal(item models.LineItem) decimal.Decimal {
	return ItemAmount(item).Add(ItemTax(item))
}

// SubTotal sums the item amounts. An empty list yields zero.
func SubTotal(items []models.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(ItemAmount(item))
	}
	return sum
}

// TotalTax sums the per-line taxes. There is no invoice level rate.
func TotalTax(items []models.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(ItemTax(item))
	}
	return sum
}

// TotalAmount is SubTotal plus TotalTax
func TotalAmount(items []models.LineItem) decimal.Decimal {
	return SubTotal(items).Add(TotalTax(items))
}

// TotalQuantity sums the quantities of all items
func TotalQuantity(items []models.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Quantity)
	}
	return sum
}

// roundTotal rounds to the nearest integer, halves away from zero (1534.5 -> 1535).
// RoundOff and FinalAmount must both go through here.
func roundTotal(total decimal.Decimal) decimal.Decimal {
	return total.Round(0)
}

// FinalAmount is the total rounded to a whole number
func FinalAmount(total decimal.Decimal) decimal.Decimal {
	return roundTotal(total)
}

// RoundOff is the signed residual FinalAmount - total
func RoundOff(total decimal.Decimal) decimal.Decimal {
	return roundTotal(total).Sub(total)
}

// SplitTax allocates the total tax for display. In local mode the second half is
// derived by subtraction so that the halves always sum to totalTax.
func SplitTax(totalTax decimal.Decimal, mode models.TaxMode) TaxSplit {
	if mode == models.TaxModeIGST {
		return TaxSplit{
			Mode: mode,
			CGST: decimal.Zero,
			SGST: decimal.Zero,
			IGST: totalTax,
		}
	}
	cgst := totalTax.Div(two)
	return TaxSplit{
		Mode: models.TaxModeLocal,
		CGST: cgst,
		SGST: totalTax.Sub(cgst),
		IGST: decimal.Zero,
	}
}

// Total returns the sum of all components
func (s TaxSplit) Total() decimal.Decimal {
	return s.CGST.Add(s.SGST).Add(s.IGST)
}

// Compute derives every aggregate figure of an item list
func Compute(items []models.LineItem, mode models.TaxMode) Totals {
	subTotal := SubTotal(items)
	totalTax := TotalTax(items)
	total := subTotal.Add(totalTax)
	final := FinalAmount(total)

	return Totals{
		SubTotal:      subTotal,
		TotalTax:      totalTax,
		Split:         SplitTax(totalTax, mode),
		TotalAmount:   total,
		RoundOff:      RoundOff(total),
		FinalAmount:   final,
		TotalQuantity: TotalQuantity(items),
		AmountInWords: AmountInWords(final.IntPart()),
	}
}

// FormatMoney renders an amount with two decimals
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatQuantity renders a quantity with three decimals
func FormatQuantity(d decimal.Decimal) string {
	return d.StringFixed(3)
}

package invoice_test

import (
	"fmt"

	"github.com/shopspring/decimal"
	"invoicer/internal/invoice"
	"invoicer/pkg/models"
)

// Example computes the figures shown below the item table of an intra-state invoice.
func Example() {
	items := []models.LineItem{
		{
			ID:             "1",
			Description:    "Vitrified tile 600x600",
			Quantity:       decimal.NewFromInt(5),
			Rate:           decimal.NewFromInt(260),
			TaxRatePercent: decimal.NewFromInt(18),
		},
	}

	totals := invoice.Compute(items, models.TaxModeLocal)

	fmt.Println("Sub total:", invoice.FormatMoney(totals.SubTotal))
	fmt.Println("CGST:", invoice.FormatMoney(totals.Split.CGST))
	fmt.Println("SGST:", invoice.FormatMoney(totals.Split.SGST))
	fmt.Println("Net amount:", totals.FinalAmount)
	fmt.Println(totals.AmountInWords)
	// Output:
	// Sub total: 1300.00
	// CGST: 117.00
	// SGST: 117.00
	// Net amount: 1534
	// One thousand five hundred and thirty four only
}

// ExampleCompute_igst shows the single tax component of an inter-state invoice.
func ExampleCompute_igst() {
	items := []models.LineItem{
		{ID: "1", Quantity: decimal.RequireFromString("2.5"), Rate: decimal.NewFromInt(100), TaxRatePercent: decimal.NewFromInt(12)},
		{ID: "2", Quantity: decimal.NewFromInt(1), Rate: decimal.RequireFromString("19.75"), TaxRatePercent: decimal.NewFromInt(5)},
	}

	totals := invoice.Compute(items, models.TaxModeIGST)

	fmt.Println("IGST:", invoice.FormatMoney(totals.Split.IGST))
	fmt.Println("Total:", invoice.FormatMoney(totals.TotalAmount))
	fmt.Println("Round off:", invoice.FormatMoney(totals.RoundOff))
	fmt.Println("Net amount:", totals.FinalAmount)
	// Output:
	// IGST: 30.99
	// Total: 300.74
	// Round off: 0.26
	// Net amount: 301
}

// ExampleToWords spells amounts on the Indian scale.
func ExampleToWords() {
	fmt.Println(invoice.ToWords(120))
	fmt.Println(invoice.ToWords(150000))
	fmt.Println(invoice.ToWords(12500000))
	// Output:
	// One hundred and twenty
	// One lakh fifty thousand
	// One crore twenty five lakh
}

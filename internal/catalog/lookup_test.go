package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicer/pkg/models"
)

var products = []models.Product{
	{ID: "p1", Description: "Tile 600x600", HSNCode: "6907", Rate: decimal.NewFromInt(260), Unit: "BOX", TaxRatePercent: decimal.NewFromInt(18)},
	{ID: "p2", Description: "Grout", HSNCode: "3214", Rate: decimal.NewFromInt(90), Unit: "KG", TaxRatePercent: decimal.NewFromInt(28)},
	{ID: "p3", Description: "Tile 600x600", HSNCode: "0000", Rate: decimal.NewFromInt(1), Unit: "PCS", TaxRatePercent: decimal.Zero},
}

func TestResolve(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		p, ok := Resolve("Grout", products)
		require.True(t, ok)
		assert.Equal(t, "p2", p.ID)
	})

	t.Run("first match wins on duplicates", func(t *testing.T) {
		p, ok := Resolve("Tile 600x600", products)
		require.True(t, ok)
		assert.Equal(t, "p1", p.ID)
	})

	for _, desc := range []string{"grout", "Grout ", "Gro", ""} {
		t.Run("no match for "+desc, func(t *testing.T) {
			_, ok := Resolve(desc, products)
			assert.False(t, ok)
		})
	}

	t.Run("empty catalog", func(t *testing.T) {
		_, ok := Resolve("Grout", nil)
		assert.False(t, ok)
	})
}

func TestApplyDescription(t *testing.T) {
	base := models.LineItem{
		ID:             "row1",
		Description:    "old",
		HSNCode:        "1111",
		Quantity:       decimal.RequireFromString("2.5"),
		Unit:           "NOS",
		Rate:           decimal.NewFromInt(10),
		TaxRatePercent: decimal.NewFromInt(5),
	}

	t.Run("match fills catalog fields and keeps quantity", func(t *testing.T) {
		got, ok := ApplyDescription(base, "Grout", products)
		require.True(t, ok)

		assert.Equal(t, "row1", got.ID)
		assert.Equal(t, "Grout", got.Description)
		assert.Equal(t, "3214", got.HSNCode)
		assert.Equal(t, "KG", got.Unit)
		assert.True(t, got.Rate.Equal(decimal.NewFromInt(90)))
		assert.True(t, got.TaxRatePercent.Equal(decimal.NewFromInt(28)))
		assert.True(t, got.Quantity.Equal(decimal.RequireFromString("2.5")))
	})

	t.Run("no match changes only the description", func(t *testing.T) {
		got, ok := ApplyDescription(base, "Labour", products)
		assert.False(t, ok)

		want := base
		want.Description = "Labour"
		assert.Equal(t, want, got)
	})

	t.Run("input item is not modified", func(t *testing.T) {
		_, _ = ApplyDescription(base, "Grout", products)
		assert.Equal(t, "old", base.Description)
	})
}

func TestDuplicates(t *testing.T) {
	assert.Equal(t, []string{"Tile 600x600"}, Duplicates(products))
	assert.Empty(t, Duplicates(products[:2]))
	assert.Empty(t, Duplicates(nil))
}

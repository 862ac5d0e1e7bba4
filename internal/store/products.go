package store

import (
	"context"

	"github.com/rs/zerolog"
	"invoicer/internal/catalog"
	"invoicer/internal/logger"
	"invoicer/pkg/models"
	"invoicer/pkg/services"
)

var _ services.ProductCatalog = (*ProductCatalog)(nil)

// ProductCatalog keeps reusable products in insertion order
type ProductCatalog struct {
	records *RecordStore[models.Product]
	log     zerolog.Logger
}

var productIdentity = Identity[models.Product]{
	Get: func(p models.Product) string { return p.ID },
	Set: func(p *models.Product, id string) { p.ID = id },
}

// NewProductCatalog creates the catalog on kv
func NewProductCatalog(kv KeyValue) *ProductCatalog {
	return &ProductCatalog{
		records: NewRecordStore(kv, ProductsKey, Append, productIdentity),
		log:     logger.WithComponent("product-catalog"),
	}
}

// OpenProductCatalog creates and loads the catalog
func OpenProductCatalog(ctx context.Context, kv KeyValue) (*ProductCatalog, error) {
	c := NewProductCatalog(kv)
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the stored catalog
func (c *ProductCatalog) Load(ctx context.Context) error {
	if err := c.records.Load(ctx); err != nil {
		return err
	}
	if dups := catalog.Duplicates(c.records.List()); len(dups) > 0 {
		c.log.Warn().
			Strs("descriptions", dups).
			Msg("Catalog has duplicate descriptions, lookups use the first match")
	}
	return nil
}

func (c *ProductCatalog) List() []models.Product {
	return c.records.List()
}

// Get returns a product by identifier
func (c *ProductCatalog) Get(id string) (models.Product, bool) {
	return c.records.Get(id)
}

// Add appends a product built from draft. Any identifier is assigned by the store.
func (c *ProductCatalog) Add(ctx context.Context, draft models.ProductDraft) (models.Product, error) {
	p, err := c.records.Insert(ctx, draft.Product(""))
	if err != nil {
		return models.Product{}, err
	}

	c.log.Info().
		Str("id", p.ID).
		Str("description", p.Description).
		Msg("Product added")

	return p, nil
}

func (c *ProductCatalog) Update(ctx context.Context, id string, patch models.ProductPatch) error {
	found, err := c.records.Update(ctx, id, patch.Apply)
	if err != nil {
		return err
	}
	if found {
		c.log.Info().Str("id", id).Msg("Product updated")
	}
	return nil
}

func (c *ProductCatalog) Delete(ctx context.Context, id string) error {
	return c.records.Remove(ctx, id)
}

func (c *ProductCatalog) Resolve(description string) (models.Product, bool) {
	return catalog.Resolve(description, c.records.List())
}

// Warnings returns recovered load problems
func (c *ProductCatalog) Warnings() []Warning {
	return c.records.Warnings()
}

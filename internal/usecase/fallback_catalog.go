package usecase

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/yaadplay/storefront/internal/models"
	"github.com/yaadplay/storefront/internal/repo/docstore"
)

//go:embed fallback_products.yaml
var fallbackProductsData []byte

// FallbackCatalog is the fixed product list served when the remote store cannot be
// used. It is read-only; every query returns copies.
type FallbackCatalog struct {
	products []models.Product
}

func NewFallbackCatalog() (*FallbackCatalog, error) {
	return parseFallbackCatalog(fallbackProductsData)
}

func parseFallbackCatalog(data []byte) (*FallbackCatalog, error) {
	var docs []docstore.Document
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fallback products: %w", err)
	}

	products, err := TransformDocuments(docs)
	if err != nil {
		return nil, fmt.Errorf("fallback products: %w", err)
	}

	ids := lo.Map(products, func(p models.Product, _ int) string { return p.ID })
	if dup := lo.FindDuplicates(ids); len(dup) > 0 {
		return nil, fmt.Errorf("fallback products: duplicate ids %v", dup)
	}
	return &FallbackCatalog{products: products}, nil
}

func (c *FallbackCatalog) All() []models.Product {
	return c.filter(func(models.Product) bool { return true })
}

func (c *FallbackCatalog) ByID(id string) *models.Product {
	p, ok := lo.Find(c.products, func(p models.Product) bool { return p.ID == id })
	if !ok {
		return nil
	}
	out := p.Clone()
	return &out
}

func (c *FallbackCatalog) ByCategory(category string) []models.Product {
	return c.filter(func(p models.Product) bool { return p.Category == category })
}

// Search matches term against name or description, ignoring case.
func (c *FallbackCatalog) Search(term string) []models.Product {
	term = strings.ToLower(term)
	return c.filter(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term)
	})
}

func (c *FallbackCatalog) Featured() []models.Product {
	return c.filter(func(p models.Product) bool { return p.Featured })
}

func (c *FallbackCatalog) filter(keep func(models.Product) bool) []models.Product {
	matched := lo.Filter(c.products, func(p models.Product, _ int) bool { return keep(p) })
	return lo.Map(matched, func(p models.Product, _ int) models.Product { return p.Clone() })
}

package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/yaadplay/storefront/internal/models"
	"github.com/yaadplay/storefront/internal/repo/docstore"
	"github.com/yaadplay/storefront/pkg/logger"
)

// ErrSeedNotConfigured is returned when the target database or collection is unknown.
var ErrSeedNotConfigured = errors.New("database id or collection id is not configured")

type SeedOptions struct {
	// PreserveIDs writes fallback ids instead of letting the store generate them.
	PreserveIDs bool
}

type SeedSummary struct {
	Success int
	Errors  int
	Total   int
}

// SeedUsecase copies the fallback catalog into the remote document store.
type SeedUsecase interface {
	SeedProducts(ctx context.Context, opts SeedOptions) (SeedSummary, error)
}

type seedUsecase struct {
	cfg      CatalogConfig
	store    docstore.Store
	fallback *FallbackCatalog
	log      *zap.SugaredLogger
}

func NewSeedUsecase(cfg CatalogConfig, store docstore.Store, fallback *FallbackCatalog) SeedUsecase {
	return &seedUsecase{
		cfg:      cfg,
		store:    store,
		fallback: fallback,
		log:      logger.MustNamed("seed"),
	}
}

// SeedProducts creates one document per product. A failed record is counted and the
// run continues with the next one.
func (u *seedUsecase) SeedProducts(ctx context.Context, opts SeedOptions) (SeedSummary, error) {
	if !u.cfg.Configured() {
		return SeedSummary{}, ErrSeedNotConfigured
	}

	products := u.fallback.All()
	summary := SeedSummary{Total: len(products)}
	u.log.Infow("Starting product seeding",
		"database_id", u.cfg.DatabaseID,
		"collection_id", u.cfg.CollectionID,
		"products", len(products),
		"preserve_ids", opts.PreserveIDs)

	for _, product := range products {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		documentID := docstore.UniqueID
		if opts.PreserveIDs {
			documentID = product.ID
		}
		data, err := seedDocument(product)
		if err == nil {
			_, err = u.store.CreateDocument(ctx, u.cfg.DatabaseID, u.cfg.CollectionID, documentID, data)
		}
		if err != nil {
			summary.Errors++
			u.log.Errorw("Failed to create product", "name", product.Name, "error", err)
			continue
		}
		summary.Success++
		u.log.Infow("Created product", "name", product.Name)
	}

	u.log.Infow("Seeding summary",
		"success", summary.Success,
		"errors", summary.Errors,
		"total", summary.Total)
	return summary, nil
}

// seedDocument lays a product out as stored remotely: specifications as a JSON string
// (empty when absent) and images as a list.
func seedDocument(p models.Product) (map[string]any, error) {
	specs := ""
	if len(p.Specifications) > 0 {
		data, err := json.Marshal(p.Specifications)
		if err != nil {
			return nil, fmt.Errorf("encode specifications: %w", err)
		}
		specs = string(data)
	}

	images := p.Images
	if images == nil {
		images = []string{}
	}
	return map[string]any{
		"name":           p.Name,
		"category":       p.Category,
		"price":          p.Price,
		"image":          p.Image,
		"description":    p.Description,
		"rating":         p.Rating,
		"inStock":        p.InStock,
		"featured":       p.Featured,
		"specifications": specs,
		"images":         images,
	}, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yaadplay/storefront/internal/models"
	"github.com/yaadplay/storefront/internal/repo/docstore"
	"github.com/yaadplay/storefront/pkg/logger"
	"github.com/yaadplay/storefront/pkg/util"
)

type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// DegradedReason says why a read was served from the fallback catalog.
type DegradedReason string

const (
	ReasonNone            DegradedReason = ""
	ReasonUnconfigured    DegradedReason = "unconfigured"
	ReasonRemoteError     DegradedReason = "remote_error"
	ReasonMalformedRecord DegradedReason = "malformed_record"
)

const (
	opGetAll        = "get_all"
	opGetByID       = "get_by_id"
	opGetByCategory = "get_by_category"
	opSearch        = "search"
	opGetFeatured   = "get_featured"
)

// ReadInfo records which path served a catalog read. Err is set only for degraded
// reads caused by the remote store.
type ReadInfo struct {
	Source Source
	Reason DegradedReason
	Err    error
}

func (r ReadInfo) Degraded() bool {
	return r.Source == SourceFallback
}

type ProductsResult struct {
	Products []models.Product
	ReadInfo
}

// ProductResult holds a nil Product when the id exists in neither source.
type ProductResult struct {
	Product *models.Product
	ReadInfo
}

type StorefrontResult struct {
	Featured   ProductsResult
	All        ProductsResult
	Categories []models.Category
}

// CatalogConfig locates the product collection. Leaving either id empty runs the
// catalog from the fallback list only.
type CatalogConfig struct {
	DatabaseID   string
	CollectionID string
}

func (c CatalogConfig) Configured() bool {
	return c.DatabaseID != "" && c.CollectionID != ""
}

// CatalogUsecase serves product reads. Reads never fail: when the remote store is
// unconfigured or misbehaves they are answered from the fallback catalog.
type CatalogUsecase interface {
	GetAllProducts(ctx context.Context) ProductsResult
	GetProductByID(ctx context.Context, id string) ProductResult
	GetProductsByCategory(ctx context.Context, category string) ProductsResult
	SearchProducts(ctx context.Context, term string) ProductsResult
	GetFeaturedProducts(ctx context.Context) ProductsResult
	Categories() []models.Category
	Storefront(ctx context.Context) (*StorefrontResult, error)
}

type catalogUsecase struct {
	cfg      CatalogConfig
	store    docstore.Store
	fallback *FallbackCatalog
	reads    *prometheus.CounterVec
	log      *zap.SugaredLogger
}

func NewCatalogUsecase(cfg CatalogConfig, store docstore.Store, fallback *FallbackCatalog) (CatalogUsecase, error) {
	if fallback == nil {
		return nil, errors.New("fallback catalog is required")
	}
	reads, err := util.GetCounterVec("catalog_reads_total", "catalog reads by operation and serving source",
		"operation", "source", "reason")
	if err != nil {
		return nil, fmt.Errorf("get counter vec: %w", err)
	}
	return &catalogUsecase{
		cfg:      cfg,
		store:    store,
		fallback: fallback,
		reads:    reads,
		log:      logger.MustNamed("catalog"),
	}, nil
}

func (c *catalogUsecase) GetAllProducts(ctx context.Context) ProductsResult {
	return c.list(ctx, opGetAll, nil, c.fallback.All)
}

func (c *catalogUsecase) GetProductsByCategory(ctx context.Context, category string) ProductsResult {
	return c.list(ctx, opGetByCategory,
		[]docstore.Query{docstore.Equal("category", category)},
		func() []models.Product { return c.fallback.ByCategory(category) })
}

// SearchProducts matches the remote name index; the fallback also matches descriptions.
func (c *catalogUsecase) SearchProducts(ctx context.Context, term string) ProductsResult {
	return c.list(ctx, opSearch,
		[]docstore.Query{docstore.Search("name", term)},
		func() []models.Product { return c.fallback.Search(term) })
}

func (c *catalogUsecase) GetFeaturedProducts(ctx context.Context) ProductsResult {
	return c.list(ctx, opGetFeatured,
		[]docstore.Query{docstore.Equal("featured", true)},
		c.fallback.Featured)
}

func (c *catalogUsecase) GetProductByID(ctx context.Context, id string) ProductResult {
	degrade := func(reason DegradedReason, err error) ProductResult {
		info := c.degraded(opGetByID, reason, err, "product_id", id)
		return ProductResult{Product: c.fallback.ByID(id), ReadInfo: info}
	}

	if !c.configured() {
		return degrade(ReasonUnconfigured, nil)
	}

	doc, err := c.store.GetDocument(ctx, c.cfg.DatabaseID, c.cfg.CollectionID, id)
	if err != nil {
		return degrade(ReasonRemoteError, err)
	}
	product, err := TransformDocument(doc)
	if err != nil {
		return degrade(ReasonMalformedRecord, err)
	}

	c.reads.WithLabelValues(opGetByID, string(SourceRemote), string(ReasonNone)).Inc()
	return ProductResult{Product: &product, ReadInfo: ReadInfo{Source: SourceRemote}}
}

func (c *catalogUsecase) Categories() []models.Category {
	out := make([]models.Category, len(models.Categories))
	copy(out, models.Categories)
	return out
}

// Storefront loads the home page data, fetching featured and all products concurrently.
func (c *catalogUsecase) Storefront(ctx context.Context) (*StorefrontResult, error) {
	res := &StorefrontResult{Categories: c.Categories()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.Featured = c.GetFeaturedProducts(gctx)
		return gctx.Err()
	})
	g.Go(func() error {
		res.All = c.GetAllProducts(gctx)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load storefront: %w", err)
	}
	return res, nil
}

func (c *catalogUsecase) configured() bool {
	return c.store != nil && c.cfg.Configured()
}

func (c *catalogUsecase) list(ctx context.Context, op string, queries []docstore.Query, fallback func() []models.Product) ProductsResult {
	degrade := func(reason DegradedReason, err error) ProductsResult {
		info := c.degraded(op, reason, err, "queries", queries)
		return ProductsResult{Products: fallback(), ReadInfo: info}
	}

	if !c.configured() {
		return degrade(ReasonUnconfigured, nil)
	}

	docs, err := c.store.ListDocuments(ctx, c.cfg.DatabaseID, c.cfg.CollectionID, queries...)
	if err != nil {
		return degrade(ReasonRemoteError, err)
	}
	products, err := TransformDocuments(docs)
	if err != nil {
		return degrade(ReasonMalformedRecord, err)
	}

	c.reads.WithLabelValues(op, string(SourceRemote), string(ReasonNone)).Inc()
	return ProductsResult{Products: products, ReadInfo: ReadInfo{Source: SourceRemote}}
}

func (c *catalogUsecase) degraded(op string, reason DegradedReason, err error, kv ...any) ReadInfo {
	c.reads.WithLabelValues(op, string(SourceFallback), string(reason)).Inc()

	fields := append([]any{"operation", op, "reason", reason}, kv...)
	if reason == ReasonUnconfigured {
		c.log.Debugw("Remote catalog not configured, serving fallback products", fields...)
	} else {
		c.log.Warnw("Remote catalog read failed, serving fallback products", append(fields, "error", err)...)
	}
	return ReadInfo{Source: SourceFallback, Reason: reason, Err: err}
}

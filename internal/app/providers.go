package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/yaadplay/storefront/internal/config"
	"github.com/yaadplay/storefront/internal/kafka"
	"github.com/yaadplay/storefront/internal/repo/appwrite"
	"github.com/yaadplay/storefront/internal/repo/docstore"
	"github.com/yaadplay/storefront/internal/repo/mongodb"
	"github.com/yaadplay/storefront/internal/repo/webhook"
	"github.com/yaadplay/storefront/internal/usecase"
	"github.com/yaadplay/storefront/pkg/logger"
)

const appName = "yaadplay-storefront"

func newCatalogConfig(cfg *config.Config) usecase.CatalogConfig {
	return usecase.CatalogConfig{
		DatabaseID:   cfg.Store.DatabaseID,
		CollectionID: cfg.Store.CollectionID,
	}
}

func newSurveyConfig(cfg *config.Config) usecase.SurveyConfig {
	return usecase.SurveyConfig{Source: cfg.Webhook.Source}
}

// documentStoreProvider returns a nil store when the catalog is not configured, in
// which case every read is served from the fallback list.
func documentStoreProvider(retryCount int) func(fx.Lifecycle, *config.Config) (docstore.Store, error) {
	return func(lc fx.Lifecycle, cfg *config.Config) (docstore.Store, error) {
		log := logger.MustNamed("store")
		if !cfg.Store.Configured() {
			log.Infow("document store not configured, serving fallback catalog")
			return nil, nil
		}

		switch cfg.Store.Backend {
		case config.StoreBackendMongoDB:
			db, err := mongodb.NewConnection(context.Background(), cfg.Store.Endpoint, appName, cfg.Store.Timeout)
			if err != nil {
				return nil, fmt.Errorf("init mongo store: %w", err)
			}
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					if err := db.Ping(ctx); err != nil {
						log.Warnw("mongodb is not reachable yet", "error", err)
						return nil
					}
					if err := db.EnsureCatalogIndexes(ctx, cfg.Store.DatabaseID, cfg.Store.CollectionID); err != nil {
						log.Warnw("failed to ensure catalog indexes", "error", err)
					}
					return nil
				},
				OnStop: func(ctx context.Context) error {
					return db.Close(ctx)
				},
			})
			return mongodb.NewDocumentStore(db), nil
		case config.StoreBackendAppwrite:
			return appwrite.NewClient(appwrite.Config{
				Endpoint:   cfg.Store.Endpoint,
				ProjectID:  cfg.Store.ProjectID,
				APIKey:     cfg.Store.APIKey,
				Timeout:    cfg.Store.Timeout,
				RetryCount: retryCount,
			}), nil
		}
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func newWebhookClient(cfg *config.Config) webhook.Client {
	return webhook.NewClient(webhook.Config{
		URL:     cfg.Webhook.URL,
		Timeout: cfg.Webhook.Timeout,
	})
}

func newLeadPublisher(lc fx.Lifecycle, cfg *config.Config) (kafka.LeadPublisher, error) {
	publisher, err := kafka.NewLeadPublisher(&cfg.Kafka)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}

// startCartSweeper evicts idle carts on a ticker for the lifetime of the app.
func startCartSweeper(lc fx.Lifecycle, cfg *config.Config, carts usecase.CartUsecase) {
	if cfg.Cart.IdleTTL <= 0 || cfg.Cart.SweepInterval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.Cart.SweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						carts.EvictIdle(ctx, cfg.Cart.IdleTTL)
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

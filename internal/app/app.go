package app

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/yaadplay/storefront/internal/config"
	"github.com/yaadplay/storefront/internal/server"
	"github.com/yaadplay/storefront/internal/usecase"
	"github.com/yaadplay/storefront/pkg/logger"
)

// Invoke builds the serving application: catalog, carts, survey and the HTTP layer.
func Invoke(funcs ...any) *fx.App {
	conf := mustInit()
	return fx.New(
		fxLogger(),
		fx.Supply(conf),
		fx.Provide(
			newCatalogConfig,
			newSurveyConfig,
			documentStoreProvider(0),
			usecase.NewFallbackCatalog,
			newWebhookClient,
			newLeadPublisher,

			usecase.NewCatalogUsecase,
			usecase.NewCartUsecase,
			usecase.NewSurveyUsecase,

			server.NewHandler,
			server.NewCatalogController,
			server.NewCartController,
			server.NewSurveyController,
		),
		fx.Invoke(startCartSweeper),
		fx.Invoke(funcs...),
	)
}

// NewSeedApp builds only what the seeding command needs. Remote writes are retried.
func NewSeedApp(opts ...fx.Option) *fx.App {
	conf := mustInit()
	return fx.New(
		fxLogger(),
		fx.Supply(conf),
		fx.Provide(
			newCatalogConfig,
			documentStoreProvider(2),
			usecase.NewFallbackCatalog,
			usecase.NewSeedUsecase,
		),
		fx.Options(opts...),
	)
}

func mustInit() *config.Config {
	conf := config.MustLoad()
	if err := logger.Init(logger.Config{
		Level: conf.Log.Level,
		Mode:  conf.Log.Mode,
		File:  conf.Log.File,
	}); err != nil {
		panic(err)
	}
	logger.MustNamed("app").Debugw("config loaded",
		"store_backend", conf.Store.Backend,
		"store_configured", conf.Store.Configured(),
		"kafka_enabled", conf.Kafka.Enabled(),
	)
	return conf
}

func fxLogger() fx.Option {
	return fx.WithLogger(func() fxevent.Logger {
		l := &fxevent.ZapLogger{
			Logger: logger.Root().Named("fx"),
		}
		l.UseLogLevel(zapcore.DebugLevel)
		return l
	})
}

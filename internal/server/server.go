package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"github.com/yaadplay/storefront/internal/config"
	pkgmdw "github.com/yaadplay/storefront/internal/server/middleware"
	"github.com/yaadplay/storefront/pkg/logger"
)

type Controllers struct {
	fx.In

	Handler Controller
	Catalog CatalogController
	Cart    CartController
	Survey  SurveyController
}

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	controllers Controllers,
) error {
	e, err := NewEcho(conf, controllers)
	if err != nil {
		return err
	}
	log := logger.MustNamed("http")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow("starting HTTP server", "addr", conf.Server.Addr)
				if err := e.Start(conf.Server.Addr); !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("HTTP server stopped", "error", err)
					sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
	return nil
}

// NewEcho builds the router with middleware and every route registered.
func NewEcho(conf *config.Config, controllers Controllers) (*echo.Echo, error) {
	corsPattern, err := regexp.Compile(conf.Server.CORSPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid cors pattern: %w", err)
	}
	log := logger.MustNamed("http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(log)

	logConfig := pkgmdw.LogRequestConfig{
		Logger: log,
		Enabled: func(c echo.Context) bool {
			uri := c.Request().RequestURI
			return uri != "/health" && uri != "/metrics"
		},
		QueryParams: func(c echo.Context) bool { return true },
	}

	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw("PANIC RECOVER", "error", err, "stack", string(stack), "request_id", pkgmdw.GetRequestID(c))
			return err
		},
	}))
	e.Use(pkgmdw.CORS(corsPattern))

	if conf.Server.Pprof {
		pkgmdw.PprofWrap(e)
	}

	e.GET("/health", controllers.Handler.Health)

	api := e.Group("/api/v1")
	api.GET("/storefront", pkgmdw.WrapHandler(controllers.Catalog.Storefront))
	api.GET("/products", pkgmdw.WrapHandler(controllers.Catalog.ListProducts))
	api.GET("/products/:id", pkgmdw.WrapHandler(controllers.Catalog.GetProduct))
	api.GET("/categories", pkgmdw.WrapHandler(controllers.Catalog.Categories))
	api.GET("/rental-plans", pkgmdw.WrapHandler(controllers.Catalog.RentalPlans))

	api.POST("/carts", pkgmdw.WrapHandler(controllers.Cart.CreateCart))
	api.GET("/carts/:id", pkgmdw.WrapHandler(controllers.Cart.GetCart))
	api.POST("/carts/:id/items", pkgmdw.WrapHandler(controllers.Cart.AddItem))
	api.PATCH("/carts/:id/items/:product_id", pkgmdw.WrapHandler(controllers.Cart.UpdateItem))
	api.DELETE("/carts/:id/items/:product_id", pkgmdw.WrapHandler(controllers.Cart.RemoveItem))

	api.GET("/survey/questions", pkgmdw.WrapHandler(controllers.Survey.Questions))
	api.POST("/survey/submissions", pkgmdw.WrapHandler(controllers.Survey.Submit))

	return e, nil
}

package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yaadplay/storefront/internal/usecase"
)

type Controller interface {
	Health(c echo.Context) error
}

type controller struct {
	catalogCfg usecase.CatalogConfig
}

func NewHandler(catalogCfg usecase.CatalogConfig) Controller {
	return &controller{
		catalogCfg: catalogCfg,
	}
}

func (h *controller) Health(c echo.Context) error {
	catalog := string(usecase.SourceRemote)
	if !h.catalogCfg.Configured() {
		catalog = "fallback-only"
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "storefront",
		"catalog": catalog,
	})
}

package server

import (
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/yaadplay/storefront/internal/models"
	pkgmdw "github.com/yaadplay/storefront/internal/server/middleware"
	"github.com/yaadplay/storefront/internal/usecase"
)

// ListProductsRequest picks one catalog read by precedence q, featured, category.
// Filters not used for the read narrow its result.
type ListProductsRequest struct {
	Category string `query:"category" validate:"category"`
	Query    string `query:"q" validate:"max=100"`
	Featured bool   `query:"featured"`
}

type GetProductRequest struct {
	ID string `param:"id" validate:"required"`
}

type StorefrontResponse struct {
	Featured   []models.Product  `json:"featured"`
	Products   []models.Product  `json:"products"`
	Categories []models.Category `json:"categories"`
}

type CatalogController interface {
	Storefront(c echo.Context, req struct{}) (*StorefrontResponse, error)
	ListProducts(c echo.Context, req ListProductsRequest) ([]models.Product, error)
	GetProduct(c echo.Context, req GetProductRequest) (*models.Product, error)
	Categories(c echo.Context, req struct{}) ([]models.Category, error)
	RentalPlans(c echo.Context, req struct{}) ([]models.RentalPlan, error)
}

type catalogController struct {
	catalog usecase.CatalogUsecase
}

func NewCatalogController(catalog usecase.CatalogUsecase) CatalogController {
	return &catalogController{catalog: catalog}
}

func (h *catalogController) Storefront(c echo.Context, _ struct{}) (*StorefrontResponse, error) {
	res, err := h.catalog.Storefront(c.Request().Context())
	if err != nil {
		return nil, err
	}

	info := res.All.ReadInfo
	if !info.Degraded() {
		info = res.Featured.ReadInfo
	}
	setCatalogHeaders(c, info)

	return &StorefrontResponse{
		Featured:   res.Featured.Products,
		Products:   res.All.Products,
		Categories: res.Categories,
	}, nil
}

func (h *catalogController) ListProducts(c echo.Context, req ListProductsRequest) ([]models.Product, error) {
	ctx := c.Request().Context()
	category := req.Category
	if category == models.CategoryAll {
		category = ""
	}

	var res usecase.ProductsResult
	switch {
	case req.Query != "":
		res = h.catalog.SearchProducts(ctx, req.Query)
	case req.Featured:
		res = h.catalog.GetFeaturedProducts(ctx)
	case category != "":
		res = h.catalog.GetProductsByCategory(ctx, category)
	default:
		res = h.catalog.GetAllProducts(ctx)
	}
	setCatalogHeaders(c, res.ReadInfo)

	return lo.Filter(res.Products, func(p models.Product, _ int) bool {
		if req.Featured && !p.Featured {
			return false
		}
		return category == "" || p.Category == category
	}), nil
}

func (h *catalogController) GetProduct(c echo.Context, req GetProductRequest) (*models.Product, error) {
	res := h.catalog.GetProductByID(c.Request().Context(), req.ID)
	setCatalogHeaders(c, res.ReadInfo)
	if res.Product == nil {
		return nil, models.ErrNotFound
	}
	return res.Product, nil
}

func (h *catalogController) Categories(_ echo.Context, _ struct{}) ([]models.Category, error) {
	return h.catalog.Categories(), nil
}

func (h *catalogController) RentalPlans(_ echo.Context, _ struct{}) ([]models.RentalPlan, error) {
	return models.RentalPlans, nil
}

func setCatalogHeaders(c echo.Context, info usecase.ReadInfo) {
	header := c.Response().Header()
	header.Set(pkgmdw.HeaderCatalogSource, string(info.Source))
	if info.Reason != usecase.ReasonNone {
		header.Set(pkgmdw.HeaderCatalogDegradedReason, string(info.Reason))
	}
}

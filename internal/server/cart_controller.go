package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yaadplay/storefront/internal/models"
	pkgmdw "github.com/yaadplay/storefront/internal/server/middleware"
	"github.com/yaadplay/storefront/internal/usecase"
)

type CartRequest struct {
	CartID string `param:"id" json:"-" validate:"required"`
}

type AddCartItemRequest struct {
	CartID    string          `param:"id" json:"-" validate:"required"`
	ProductID string          `json:"product_id" validate:"required"`
	Type      models.ItemType `json:"type" validate:"omitempty,oneof=purchase rental"`
	PlanID    string          `json:"plan_id" validate:"rental_plan"`
	Quantity  int             `json:"quantity" validate:"omitempty,min=1,max=99"`
}

type UpdateCartItemRequest struct {
	CartID    string `param:"id" json:"-" validate:"required"`
	ProductID string `param:"product_id" json:"-" validate:"required"`
	Delta     int    `json:"delta" validate:"required,min=-99,max=99"`
}

type RemoveCartItemRequest struct {
	CartID    string `param:"id" json:"-" validate:"required"`
	ProductID string `param:"product_id" json:"-" validate:"required"`
}

type CartResponse struct {
	ID             string            `json:"id"`
	Items          []models.CartItem `json:"items"`
	ItemCount      int               `json:"item_count"`
	Total          int64             `json:"total"`
	FormattedTotal string            `json:"formatted_total"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func newCartResponse(cart *models.Cart) *CartResponse {
	return &CartResponse{
		ID:             cart.ID,
		Items:          cart.Items,
		ItemCount:      cart.ItemCount(),
		Total:          cart.Total(),
		FormattedTotal: models.FormatPrice(cart.Total()),
		CreatedAt:      cart.CreatedAt,
		UpdatedAt:      cart.UpdatedAt,
	}
}

type CartController interface {
	CreateCart(c echo.Context, req struct{}) (*pkgmdw.Response, error)
	GetCart(c echo.Context, req CartRequest) (*CartResponse, error)
	AddItem(c echo.Context, req AddCartItemRequest) (*CartResponse, error)
	UpdateItem(c echo.Context, req UpdateCartItemRequest) (*CartResponse, error)
	RemoveItem(c echo.Context, req RemoveCartItemRequest) (*CartResponse, error)
}

type cartController struct {
	carts usecase.CartUsecase
}

func NewCartController(carts usecase.CartUsecase) CartController {
	return &cartController{carts: carts}
}

func (h *cartController) CreateCart(c echo.Context, _ struct{}) (*pkgmdw.Response, error) {
	cart, err := h.carts.CreateCart(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &pkgmdw.Response{
		Status:  http.StatusCreated,
		Success: true,
		Data:    newCartResponse(cart),
	}, nil
}

func (h *cartController) GetCart(c echo.Context, req CartRequest) (*CartResponse, error) {
	return cartResult(h.carts.GetCart(c.Request().Context(), req.CartID))
}

func (h *cartController) AddItem(c echo.Context, req AddCartItemRequest) (*CartResponse, error) {
	return cartResult(h.carts.AddItem(c.Request().Context(), req.CartID, usecase.AddCartItemRequest{
		ProductID: req.ProductID,
		Type:      req.Type,
		PlanID:    req.PlanID,
		Quantity:  req.Quantity,
	}))
}

func (h *cartController) UpdateItem(c echo.Context, req UpdateCartItemRequest) (*CartResponse, error) {
	return cartResult(h.carts.UpdateItemQuantity(c.Request().Context(), req.CartID, req.ProductID, req.Delta))
}

func (h *cartController) RemoveItem(c echo.Context, req RemoveCartItemRequest) (*CartResponse, error) {
	return cartResult(h.carts.RemoveItem(c.Request().Context(), req.CartID, req.ProductID))
}

func cartResult(cart *models.Cart, err error) (*CartResponse, error) {
	if err != nil {
		return nil, err
	}
	return newCartResponse(cart), nil
}

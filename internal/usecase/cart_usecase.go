package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yaadplay/storefront/internal/models"
	"github.com/yaadplay/storefront/pkg/logger"
)

type AddCartItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Type      models.ItemType `json:"type" validate:"omitempty,oneof=purchase rental"`
	PlanID    string          `json:"plan_id" validate:"required_if=Type rental"`
	Quantity  int             `json:"quantity" validate:"omitempty,min=1,max=99"`
}

// CartUsecase owns shopping carts. Carts live in process memory only.
type CartUsecase interface {
	CreateCart(ctx context.Context) (*models.Cart, error)
	GetCart(ctx context.Context, cartID string) (*models.Cart, error)
	AddItem(ctx context.Context, cartID string, req AddCartItemRequest) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, cartID, productID string, delta int) (*models.Cart, error)
	RemoveItem(ctx context.Context, cartID, productID string) (*models.Cart, error)
	// EvictIdle drops carts not updated within maxIdle and returns how many were dropped.
	EvictIdle(ctx context.Context, maxIdle time.Duration) int
}

type cartUsecase struct {
	catalog CatalogUsecase
	now     func() time.Time
	log     *zap.SugaredLogger

	mu    sync.Mutex
	carts map[string]*models.Cart
}

func NewCartUsecase(catalog CatalogUsecase) CartUsecase {
	return &cartUsecase{
		catalog: catalog,
		now:     time.Now,
		log:     logger.MustNamed("cart"),
		carts:   make(map[string]*models.Cart),
	}
}

func (u *cartUsecase) CreateCart(ctx context.Context) (*models.Cart, error) {
	cart := models.NewCart(uuid.NewString(), u.now().UTC())

	u.mu.Lock()
	u.carts[cart.ID] = cart
	u.mu.Unlock()

	u.log.Debugw("Created cart", "cart_id", cart.ID)
	return cart.Clone(), nil
}

func (u *cartUsecase) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	cart, ok := u.carts[cartID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cart.Clone(), nil
}

// AddItem resolves the product through the catalog, so it works in fallback mode too.
func (u *cartUsecase) AddItem(ctx context.Context, cartID string, req AddCartItemRequest) (*models.Cart, error) {
	if req.Type == "" {
		req.Type = models.ItemTypePurchase
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	var plan *models.RentalPlan
	if req.Type == models.ItemTypeRental {
		p, ok := models.FindRentalPlan(req.PlanID)
		if !ok {
			return nil, models.ErrUnknownPlan
		}
		plan = &p
	}

	res := u.catalog.GetProductByID(ctx, req.ProductID)
	if res.Product == nil {
		return nil, models.ErrNotFound
	}
	if req.Type == models.ItemTypePurchase && !res.Product.InStock {
		return nil, models.ErrOutOfStock
	}

	return u.mutate(cartID, func(cart *models.Cart) error {
		return cart.Add(*res.Product, req.Type, plan, req.Quantity)
	})
}

func (u *cartUsecase) UpdateItemQuantity(ctx context.Context, cartID, productID string, delta int) (*models.Cart, error) {
	return u.mutate(cartID, func(cart *models.Cart) error {
		return cart.UpdateQuantity(productID, delta)
	})
}

func (u *cartUsecase) RemoveItem(ctx context.Context, cartID, productID string) (*models.Cart, error) {
	return u.mutate(cartID, func(cart *models.Cart) error {
		if !cart.Remove(productID) {
			return models.ErrNotFound
		}
		return nil
	})
}

func (u *cartUsecase) EvictIdle(ctx context.Context, maxIdle time.Duration) int {
	cutoff := u.now().UTC().Add(-maxIdle)

	u.mu.Lock()
	evicted := 0
	for id, cart := range u.carts {
		if cart.UpdatedAt.Before(cutoff) {
			delete(u.carts, id)
			evicted++
		}
	}
	remaining := len(u.carts)
	u.mu.Unlock()

	if evicted > 0 {
		u.log.Infow("Evicted idle carts", "evicted", evicted, "remaining", remaining)
	}
	return evicted
}

func (u *cartUsecase) mutate(cartID string, fn func(cart *models.Cart) error) (*models.Cart, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	cart, ok := u.carts[cartID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if err := fn(cart); err != nil {
		return nil, err
	}
	cart.UpdatedAt = u.now().UTC()
	return cart.Clone(), nil
}

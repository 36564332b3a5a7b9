package models

import (
	"slices"
	"time"
)

type ItemType string

const (
	ItemTypePurchase ItemType = "purchase"
	ItemTypeRental   ItemType = "rental"
)

func (t ItemType) Valid() bool {
	return t == ItemTypePurchase || t == ItemTypeRental
}

type RentalPlan struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Duration string   `json:"duration" yaml:"duration"`
	Days     int      `json:"days" yaml:"days"`
	Price    int64    `json:"price" yaml:"price"`
	Discount string   `json:"discount" yaml:"discount"`
	Features []string `json:"features" yaml:"features"`
	Popular  bool     `json:"popular,omitempty" yaml:"popular"`
}

var RentalPlans = []RentalPlan{
	{
		ID:       "weekly",
		Name:     "Weekly Rental",
		Duration: "7 days",
		Days:     7,
		Price:    15000,
		Discount: "15% off purchase",
		Features: []string{
			"Full console access",
			"All accessories included",
			"Free delivery & pickup",
			"Technical support",
			"15% discount if you buy",
		},
	},
	{
		ID:       "monthly",
		Name:     "Monthly Rental",
		Duration: "30 days",
		Days:     30,
		Price:    45000,
		Discount: "25% off purchase",
		Features: []string{
			"Full console access",
			"All accessories included",
			"Free delivery & pickup",
			"Priority technical support",
			"25% discount if you buy",
			"Game recommendations",
		},
		Popular: true,
	},
	{
		ID:       "extended",
		Name:     "Extended Rental",
		Duration: "90 days",
		Days:     90,
		Price:    120000,
		Discount: "40% off purchase",
		Features: []string{
			"Full console access",
			"All accessories included",
			"Free delivery & pickup",
			"Priority technical support",
			"40% discount if you buy",
			"Game recommendations",
			"Free game trial access",
		},
	},
}

func FindRentalPlan(id string) (RentalPlan, bool) {
	i := slices.IndexFunc(RentalPlans, func(p RentalPlan) bool { return p.ID == id })
	if i < 0 {
		return RentalPlan{}, false
	}
	return RentalPlans[i], true
}

type CartItem struct {
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	Category  string      `json:"category"`
	Image     string      `json:"image"`
	UnitPrice int64       `json:"unit_price"`
	Quantity  int         `json:"quantity"`
	Type      ItemType    `json:"type"`
	Plan      *RentalPlan `json:"rental_plan,omitempty"`
}

func (i CartItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

func (i CartItem) key() lineKey {
	k := lineKey{productID: i.ProductID, itemType: i.Type}
	if i.Plan != nil {
		k.planID = i.Plan.ID
	}
	return k
}

type lineKey struct {
	productID string
	itemType  ItemType
	planID    string
}

// Cart is an ordered list of lines. A product appears at most once per item type and
// rental plan; adding it again increments the existing line.
type Cart struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewCart(id string, now time.Time) *Cart {
	return &Cart{
		ID:        id,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MaxLineQuantity caps the units held on one cart line.
const MaxLineQuantity = 99

// Add puts quantity units of product in the cart. Rentals are priced at the plan price.
func (c *Cart) Add(product Product, itemType ItemType, plan *RentalPlan, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > MaxLineQuantity {
		return ErrQuantityLimit
	}
	if !itemType.Valid() {
		return ErrInvalidItemType
	}
	if itemType == ItemTypeRental && plan == nil {
		return ErrUnknownPlan
	}

	item := CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Category:  product.Category,
		Image:     product.Image,
		UnitPrice: product.Price,
		Quantity:  quantity,
		Type:      itemType,
	}
	if itemType == ItemTypeRental {
		p := *plan
		item.Plan = &p
		item.UnitPrice = plan.Price
	}

	k := item.key()
	for i := range c.Items {
		if c.Items[i].key() == k {
			if c.Items[i].Quantity+quantity > MaxLineQuantity {
				return ErrQuantityLimit
			}
			c.Items[i].Quantity += quantity
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// Remove drops every line for productID.
func (c *Cart) Remove(productID string) bool {
	n := len(c.Items)
	c.Items = slices.DeleteFunc(c.Items, func(i CartItem) bool { return i.ProductID == productID })
	return len(c.Items) != n
}

// UpdateQuantity shifts the quantity of every line for productID by delta. Lines whose
// quantity drops to zero or below are removed. The cart is left unchanged on error.
func (c *Cart) UpdateQuantity(productID string, delta int) error {
	found := false
	for _, item := range c.Items {
		if item.ProductID != productID {
			continue
		}
		found = true
		if item.Quantity+delta > MaxLineQuantity {
			return ErrQuantityLimit
		}
	}
	if !found {
		return ErrNotFound
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += delta
		}
	}
	c.Items = slices.DeleteFunc(c.Items, func(i CartItem) bool { return i.Quantity <= 0 })
	return nil
}

func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Clone returns a deep copy safe to hand to renderers.
func (c *Cart) Clone() *Cart {
	out := *c
	out.Items = make([]CartItem, len(c.Items))
	for i, item := range c.Items {
		if item.Plan != nil {
			p := *item.Plan
			item.Plan = &p
		}
		out.Items[i] = item
	}
	return &out
}

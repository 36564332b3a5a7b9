package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id string, price int64) Product {
	return Product{ID: id, Name: "Product " + id, Category: CategoryConsoles, Price: price, InStock: true}
}

func TestCartAddMergesSameLine(t *testing.T) {
	cart := NewCart("c1", time.Unix(0, 0))
	p := testProduct("1", 89999)

	require.NoError(t, cart.Add(p, ItemTypePurchase, nil, 1))
	require.NoError(t, cart.Add(p, ItemTypePurchase, nil, 2))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, int64(3*89999), cart.Total())
	assert.Equal(t, 3, cart.ItemCount())
}

func TestCartRentalIsSeparateLine(t *testing.T) {
	cart := NewCart("c1", time.Unix(0, 0))
	p := testProduct("1", 89999)
	monthly, ok := FindRentalPlan("monthly")
	require.True(t, ok)

	require.NoError(t, cart.Add(p, ItemTypePurchase, nil, 1))
	require.NoError(t, cart.Add(p, ItemTypeRental, &monthly, 1))

	require.Len(t, cart.Items, 2)
	assert.Equal(t, int64(45000), cart.Items[1].UnitPrice)
	assert.Equal(t, int64(89999+45000), cart.Total())
}

func TestCartAddRejectsInvalidInput(t *testing.T) {
	cart := NewCart("c1", time.Unix(0, 0))
	p := testProduct("1", 100)

	assert.ErrorIs(t, cart.Add(p, ItemTypePurchase, nil, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, cart.Add(p, ItemType("gift"), nil, 1), ErrInvalidItemType)
	assert.ErrorIs(t, cart.Add(p, ItemTypeRental, nil, 1), ErrUnknownPlan)
	assert.Empty(t, cart.Items)
}

func TestCartUpdateQuantity(t *testing.T) {
	tests := []struct {
		name      string
		delta     int
		wantErr   error
		wantItems int
		wantQty   int
	}{
		{name: "increment", delta: 1, wantItems: 1, wantQty: 3},
		{name: "decrement", delta: -1, wantItems: 1, wantQty: 1},
		{name: "drop to zero removes line", delta: -2, wantItems: 0},
		{name: "below zero removes line", delta: -5, wantItems: 0},
		{name: "up to the line limit", delta: MaxLineQuantity - 2, wantItems: 1, wantQty: MaxLineQuantity},
		{name: "past the line limit", delta: MaxLineQuantity, wantErr: ErrQuantityLimit, wantItems: 1, wantQty: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := NewCart("c1", time.Unix(0, 0))
			require.NoError(t, cart.Add(testProduct("7", 7500), ItemTypePurchase, nil, 2))

			err := cart.UpdateQuantity("7", tt.delta)

			assert.ErrorIs(t, err, tt.wantErr)
			require.Len(t, cart.Items, tt.wantItems)
			if tt.wantItems > 0 {
				assert.Equal(t, tt.wantQty, cart.Items[0].Quantity)
			}
		})
	}

	cart := NewCart("c1", time.Unix(0, 0))
	assert.ErrorIs(t, cart.UpdateQuantity("missing", 1), ErrNotFound)
}

func TestCartLineQuantityLimit(t *testing.T) {
	cart := NewCart("c1", time.Unix(0, 0))
	p := testProduct("1", 89999)

	assert.ErrorIs(t, cart.Add(p, ItemTypePurchase, nil, MaxLineQuantity+1), ErrQuantityLimit)
	require.NoError(t, cart.Add(p, ItemTypePurchase, nil, MaxLineQuantity))
	assert.ErrorIs(t, cart.Add(p, ItemTypePurchase, nil, 1), ErrQuantityLimit)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, MaxLineQuantity, cart.Items[0].Quantity)
	assert.Equal(t, int64(MaxLineQuantity)*89999, cart.Total())
}

func TestCartRemove(t *testing.T) {
	cart := NewCart("c1", time.Unix(0, 0))
	require.NoError(t, cart.Add(testProduct("1", 100), ItemTypePurchase, nil, 1))
	require.NoError(t, cart.Add(testProduct("2", 200), ItemTypePurchase, nil, 1))

	assert.True(t, cart.Remove("1"))
	assert.False(t, cart.Remove("1"))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "2", cart.Items[0].ProductID)
}

func TestCartClone(t *testing.T) {
	cart := NewCart("c1", time.Unix(0, 0))
	weekly, _ := FindRentalPlan("weekly")
	require.NoError(t, cart.Add(testProduct("1", 100), ItemTypeRental, &weekly, 1))

	clone := cart.Clone()
	clone.Items[0].Quantity = 10
	clone.Items[0].Plan.Price = 1

	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, int64(15000), cart.Items[0].Plan.Price)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "JMD 89,999", FormatPrice(89999))
	assert.Equal(t, "JMD 7,500", FormatPrice(7500))
	assert.Equal(t, "JMD 120,000", FormatPrice(120000))
	assert.Equal(t, "JMD 0", FormatPrice(0))
}

package service

import (
	"context"
	"testing"

	"storefront-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct() *models.Product {
	return &models.Product{
		ID:    "p1",
		Name:  "Plain Tee",
		Price: 10.00,
		Image: "https://cdn.example.com/tee.jpg",
		Stock: 5,
	}
}

func newCartFixture(products ...*models.Product) (*CartService, *fakeCartStore, *fakeProductStore) {
	carts := newFakeCartStore()
	catalog := newFakeProductStore(products...)
	return NewCartService(carts, catalog), carts, catalog
}

func TestGetOrCreateCartIdempotent(t *testing.T) {
	svc, carts, _ := newCartFixture()
	ctx := context.Background()

	first, err := svc.GetOrCreateCart(ctx, "u1")
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	assert.Empty(t, first.Items)

	second, err := svc.GetOrCreateCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, 1, carts.inserts)
}

func TestAddItemMergesSameVariant(t *testing.T) {
	svc, _, _ := newCartFixture(testProduct())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "p1", 2, "M", "")
	require.NoError(t, err)

	// Same tuple modulo case: one line, summed quantity
	cart, err := svc.AddItem(ctx, "u1", "p1", 1, "m", "")
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 30.00, cart.Total())
}

func TestAddItemDifferentVariantAddsLine(t *testing.T) {
	svc, _, _ := newCartFixture(testProduct())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "p1", 1, "M", "")
	require.NoError(t, err)

	cart, err := svc.AddItem(ctx, "u1", "p1", 1, "L", "")
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.NotEqual(t, cart.Items[0].ItemID, cart.Items[1].ItemID)
}

func TestAddItemRefreshesSnapshot(t *testing.T) {
	product := testProduct()
	svc, _, catalog := newCartFixture(product)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "p1", 1, "M", "")
	require.NoError(t, err)

	catalog.products["p1"].Price = 12.50
	catalog.products["p1"].Name = "Plain Tee v2"

	cart, err := svc.AddItem(ctx, "u1", "p1", 1, "M", "")
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 12.50, cart.Items[0].Price)
	assert.Equal(t, "Plain Tee v2", cart.Items[0].Name)
}

func TestAddItemProductNotFound(t *testing.T) {
	svc, _, _ := newCartFixture()
	_, err := svc.AddItem(context.Background(), "u1", "missing", 1, "", "")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddItemOutOfStock(t *testing.T) {
	product := testProduct()
	product.Stock = 0
	svc, _, _ := newCartFixture(product)

	_, err := svc.AddItem(context.Background(), "u1", "p1", 1, "", "")
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestAddItemQuantityExceedsStock(t *testing.T) {
	svc, _, _ := newCartFixture(testProduct())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "p1", 6, "", "")
	assert.ErrorIs(t, err, ErrQuantityExceedsStock)

	cart, err := svc.GetOrCreateCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "failed add must leave the cart unchanged")
}

func TestAddItemCumulativeQuantityExceedsStock(t *testing.T) {
	svc, _, _ := newCartFixture(testProduct())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "p1", 3, "M", "")
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "u1", "p1", 3, "M", "")
	assert.ErrorIs(t, err, ErrQuantityExceedsStock)

	cart, err := svc.GetOrCreateCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestUpdateItemQuantity(t *testing.T) {
	svc, _, catalog := newCartFixture(testProduct())
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "u1", "p1", 1, "M", "")
	require.NoError(t, err)
	itemID := cart.Items[0].ItemID

	catalog.products["p1"].Price = 11.00

	cart, err = svc.UpdateItemQuantity(ctx, "u1", itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, 11.00, cart.Items[0].Price)
}

func TestUpdateItemQuantityExceedsStock(t *testing.T) {
	svc, _, _ := newCartFixture(testProduct())
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "u1", "p1", 1, "", "")
	require.NoError(t, err)

	_, err = svc.UpdateItemQuantity(ctx, "u1", cart.Items[0].ItemID, 6)
	assert.ErrorIs(t, err, ErrQuantityExceedsStock)
}

func TestUpdateItemQuantityNotFound(t *testing.T) {
	svc, _, _ := newCartFixture(testProduct())
	_, err := svc.UpdateItemQuantity(context.Background(), "u1", "nope", 1)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	svc, _, _ := newCartFixture(testProduct())
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "u1", "p1", 1, "", "")
	require.NoError(t, err)

	cart, err = svc.RemoveItem(ctx, "u1", cart.Items[0].ItemID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestRemoveItemNotFound(t *testing.T) {
	svc, _, _ := newCartFixture(testProduct())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "p1", 2, "", "")
	require.NoError(t, err)

	_, err = svc.RemoveItem(ctx, "u1", "nope")
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	cart, err := svc.GetOrCreateCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestClearCartIdempotent(t *testing.T) {
	svc, _, _ := newCartFixture(testProduct())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "p1", 2, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, "u1"))
	require.NoError(t, svc.ClearCart(ctx, "u1"))

	cart, err := svc.GetOrCreateCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

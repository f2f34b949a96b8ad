package services_test

import (
	"context"
	"errors"
	"testing"

	"storefront-service/database"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---- mock repository ----

type mockCartRepo struct {
	carts     map[string][]models.CartItem
	getErr    error
	saveErr   error
	saveCalls int
	delCalls  int
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string][]models.CartItem)}
}

func (m *mockCartRepo) GetCart(_ context.Context, cartID string) (*models.Cart, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	items, ok := m.carts[cartID]
	if !ok {
		return nil, nil
	}
	copied := make([]models.CartItem, len(items))
	copy(copied, items)
	return &models.Cart{ID: cartID, Items: copied}, nil
}

func (m *mockCartRepo) SaveCart(_ context.Context, cart *models.Cart) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saveCalls++
	copied := make([]models.CartItem, len(cart.Items))
	copy(copied, cart.Items)
	m.carts[cart.ID] = copied
	return nil
}

func (m *mockCartRepo) DeleteCart(_ context.Context, cartID string) error {
	m.delCalls++
	delete(m.carts, cartID)
	return nil
}

func newTestCartService() (*services.CartService, *mockCartRepo) {
	repo := newMockCartRepo()
	return services.NewCartService(repo, zap.NewNop()), repo
}

func addReq(productID, variantID string, price float64, packQty, qty int) models.AddItemRequest {
	return models.AddItemRequest{
		Product:  models.Product{ID: productID, Name: "Ivermectin Paste 1.87%", Image: "/assets/1.webp"},
		Variant:  models.Variant{ID: variantID, Name: variantID, PackQuantity: packQty, Price: price, OriginalPrice: price + 5, Savings: 5},
		Quantity: qty,
	}
}

// ---- tests ----

func TestCartService_AddItem_NewEntrySnapshotsVariant(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "cart-1", addReq("ivermectin-paste-187", "pack-2", 21.99, 2, 1))

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	item := cart.Items[0]
	assert.Equal(t, "ivermectin-paste-187-pack-2", item.ID)
	assert.Equal(t, 21.99, item.Price)
	assert.Equal(t, 26.99, item.OriginalPrice)
	assert.Equal(t, 5.0, item.Savings)
	assert.Equal(t, 2, item.PackQuantity)
	assert.Equal(t, 1, item.Quantity)
}

func TestCartService_AddItem_SameKeyIncrementsQuantity(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "cart-1", addReq("p1", "v1", 14.99, 1, 2))
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, "cart-1", addReq("p1", "v1", 14.99, 1, 3))
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCartService_AddItem_PriceChangeDoesNotAffectExistingEntry(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "cart-1", addReq("p1", "v1", 14.99, 1, 1))
	require.NoError(t, err)
	// Same compound key with a new catalog price: only quantity moves.
	cart, err := svc.AddItem(ctx, "cart-1", addReq("p1", "v1", 17.99, 1, 1))
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 14.99, cart.Items[0].Price)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCartService_AddItem_DefaultsQuantityToOne(t *testing.T) {
	svc, _ := newTestCartService()

	cart, err := svc.AddItem(context.Background(), "cart-1", addReq("p1", "v1", 14.99, 1, 0))

	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCartService_ItemCountEqualsSumOfQuantities(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "cart-1", addReq("p1", "v1", 14.99, 1, 2))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "cart-1", addReq("p1", "v2", 21.99, 2, 1))
	require.NoError(t, err)
	_, err = svc.UpdateQuantity(ctx, "cart-1", "p1-v1", 4)
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, "cart-1", addReq("p1", "v3", 34.99, 3, 1))
	require.NoError(t, err)

	sum := 0
	seen := map[string]bool{}
	for _, item := range cart.Items {
		sum += item.Quantity
		assert.False(t, seen[item.ID], "duplicate compound key %s", item.ID)
		seen[item.ID] = true
	}
	assert.Equal(t, sum, cart.Summary().ItemCount)
	assert.Equal(t, 6, cart.Summary().ItemCount)
}

func TestCartService_UpdateQuantityZeroEqualsRemove(t *testing.T) {
	ctx := context.Background()

	svcA, _ := newTestCartService()
	svcB, _ := newTestCartService()
	for _, svc := range []*services.CartService{svcA, svcB} {
		_, err := svc.AddItem(ctx, "cart-1", addReq("p1", "v1", 14.99, 1, 2))
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, "cart-1", addReq("p1", "v2", 21.99, 2, 1))
		require.NoError(t, err)
	}

	cartA, err := svcA.UpdateQuantity(ctx, "cart-1", "p1-v1", 0)
	require.NoError(t, err)
	cartB, err := svcB.RemoveItem(ctx, "cart-1", "p1-v1")
	require.NoError(t, err)

	assert.Equal(t, cartB.Items, cartA.Items)
}

func TestCartService_UpdateQuantity_SetsExactValue(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "cart-1", addReq("p1", "v1", 14.99, 1, 2))
	require.NoError(t, err)
	cart, err := svc.UpdateQuantity(ctx, "cart-1", "p1-v1", 7)
	require.NoError(t, err)

	assert.Equal(t, 7, cart.Items[0].Quantity)
}

func TestCartService_RemoveAbsentKeyIsNoOp(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "cart-1", addReq("p1", "v1", 14.99, 1, 1))
	require.NoError(t, err)
	cart, err := svc.RemoveItem(ctx, "cart-1", "no-such-key")
	require.NoError(t, err)

	assert.Len(t, cart.Items, 1)
}

func TestCartService_PersistReloadRoundTrip(t *testing.T) {
	svc, repo := newTestCartService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "cart-1", addReq("p1", "v1", 14.99, 1, 2))
	require.NoError(t, err)
	before, err := svc.AddItem(ctx, "cart-1", addReq("p1", "v2", 21.99, 2, 1))
	require.NoError(t, err)

	// A fresh service over the same store sees identical items.
	reloaded, err := services.NewCartService(repo, zap.NewNop()).GetCart(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, before.Items, reloaded.Items)
}

func TestCartService_EveryMutationPersists(t *testing.T) {
	svc, repo := newTestCartService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "cart-1", addReq("p1", "v1", 14.99, 1, 1))
	require.NoError(t, err)
	_, err = svc.UpdateQuantity(ctx, "cart-1", "p1-v1", 3)
	require.NoError(t, err)
	_, err = svc.RemoveItem(ctx, "cart-1", "p1-v1")
	require.NoError(t, err)

	assert.Equal(t, 3, repo.saveCalls)
}

func TestCartService_MalformedSnapshotFallsBackToEmptyCart(t *testing.T) {
	repo := newMockCartRepo()
	repo.getErr = database.ErrMalformedSnapshot
	svc := services.NewCartService(repo, zap.NewNop())

	cart, err := svc.GetCart(context.Background(), "cart-1")

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_RepoErrorPropagates(t *testing.T) {
	repo := newMockCartRepo()
	repo.getErr = errors.New("redis down")
	svc := services.NewCartService(repo, zap.NewNop())

	_, err := svc.GetCart(context.Background(), "cart-1")

	assert.Error(t, err)
}

func TestCartService_ClearCartIsIdempotent(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "cart-1", addReq("p1", "v1", 14.99, 1, 1))
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, "cart-1"))
	// Clearing the already-empty cart succeeds too.
	require.NoError(t, svc.ClearCart(ctx, "cart-1"))

	cart, err := svc.GetCart(ctx, "cart-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

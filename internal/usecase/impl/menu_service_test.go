package impl

import (
	"context"
	"net/http"
	"testing"

	domainerrors "dinein/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuService_Browse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.menu.Browse(ctx, "")
	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)

	f.login(t)

	view, err := f.menu.Browse(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalProducts)
	assert.Equal(t, 3, view.MatchCount)
	require.Len(t, view.Sections, 2)
	assert.Equal(t, "Mains", view.Sections[0].Category.Name)
	assert.Len(t, view.Sections[0].Products, 2)

	view, err = f.menu.Browse(ctx, "COFFEE")
	require.NoError(t, err)
	assert.Equal(t, 1, view.MatchCount)
	require.Len(t, view.Sections, 1)
	assert.Equal(t, "Drinks", view.Sections[0].Category.Name)

	view, err = f.menu.Browse(ctx, "rice")
	require.NoError(t, err)
	assert.Equal(t, "Idli", view.Sections[0].Products[0].Name)
}

func TestMenuService_ProductUsesCachedMenu(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	product, err := f.menu.Product(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "Filter Coffee", product.Name)

	_, err = f.menu.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.backend.Calls(http.MethodGet, "/customer/menu"))

	_, err = f.menu.Product(ctx, "p404")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.Equal(t, 2, f.backend.Calls(http.MethodGet, "/customer/menu"))
}

func TestOrderService_History(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orders.List(ctx)
	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)

	f.login(t)
	require.NoError(t, f.cart.Add(ctx, f.addInput(t, "p1", 1)))
	placed, err := f.cart.PlaceOrder(ctx, "")
	require.NoError(t, err)

	orders, err := f.orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, placed.ID, orders[0].ID)

	order, err := f.orders.Get(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, "Masala Dosa", order.Items[0].Name)

	_, err = f.orders.Get(ctx, " ")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = f.orders.Get(ctx, "order-404")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

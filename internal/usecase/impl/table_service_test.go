package impl

import (
	"context"
	"net/http"
	"testing"

	"dinein/internal/domain/constants"
	domainerrors "dinein/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableService_RouteParamBeatsStoredMarker(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	require.NoError(t, f.table.Remember(ctx, "T2"))

	table, err := f.table.Bind(ctx, "T1")

	require.NoError(t, err)
	assert.Equal(t, "T1", table.Table.ID)
	assert.Equal(t, 1, f.backend.Calls(http.MethodPost, "/customer/scan-table/T1"))
	assert.Zero(t, f.backend.Calls(http.MethodPost, "/customer/scan-table/T2"))
	assert.Empty(t, f.table.Pending(ctx))
}

func TestTableService_StoredMarkerUsedWithoutRouteParam(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	require.NoError(t, f.table.Remember(ctx, "T2"))

	table, err := f.table.Bind(ctx, "")

	require.NoError(t, err)
	assert.Equal(t, "T2", table.Table.ID)
	assert.Empty(t, f.table.Pending(ctx))
	assert.True(t, f.session.State().HasTable())
}

func TestTableService_NothingToBind(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	table, err := f.table.Bind(context.Background(), "")

	assert.NoError(t, err)
	assert.Nil(t, table)
}

func TestTableService_BeforeLoginRemembersRouteParam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.table.Bind(ctx, "T1")

	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)
	assert.Equal(t, "T1", f.table.Pending(ctx))

	f.login(t)
	table, err := f.table.Bind(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "T1", table.Table.ID)
}

func TestTableService_FailedBindClearsMarker(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	require.NoError(t, f.table.Remember(ctx, "T9"))

	_, err := f.table.Bind(ctx, "")

	assert.ErrorIs(t, err, domainerrors.ErrTableNotFound)
	assert.True(t, domainerrors.IsTableBindError(err))
	_, ok := f.stored(t, constants.StorageKeyPendingTableID)
	assert.False(t, ok)

	// no retry loop: the next bind has nothing to do
	table, err := f.table.Bind(ctx, "")
	assert.NoError(t, err)
	assert.Nil(t, table)
}

func TestTableService_RememberRejectsGarbage(t *testing.T) {
	f := newFixture(t)

	err := f.table.Remember(context.Background(), "../../etc/passwd")

	assert.ErrorIs(t, err, domainerrors.ErrTableNotFound)
	assert.Empty(t, f.table.Pending(context.Background()))
}

func TestTableService_Scan(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantID  string
		wantErr error
	}{
		{name: "link", payload: "http://localhost:3000/table/T1", wantID: "T1"},
		{name: "json", payload: `{"table_id":"T2","type":"table"}`, wantID: "T2"},
		{name: "bare id", payload: "T1", wantID: "T1"},
		{name: "not a table", payload: `{"table_id":"T2","type":"menu"}`, wantErr: domainerrors.ErrTableNotFound},
		{name: "unknown table", payload: "http://localhost:3000/table/T404", wantErr: domainerrors.ErrTableNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.login(t)

			table, err := f.table.Scan(context.Background(), tt.payload)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, table.Table.ID)
		})
	}
}

func TestTableService_CheckoutClearsCart(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	_, err := f.table.Bind(ctx, "T1")
	require.NoError(t, err)
	require.NoError(t, f.cart.Add(ctx, f.addInput(t, "p1", 1)))

	require.NoError(t, f.table.Checkout(ctx))

	assert.False(t, f.session.State().HasTable())
	assert.True(t, f.cart.Snapshot().Empty())
	assert.Empty(t, f.backend.CartQuantities())
}

func TestTableService_CheckoutWithoutTableKeepsCart(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	require.NoError(t, f.cart.Add(ctx, f.addInput(t, "p1", 2)))

	require.NoError(t, f.table.Checkout(ctx))

	assert.Zero(t, f.backend.Calls(http.MethodPost, "/customer/checkout"))
	assert.Zero(t, f.backend.Calls(http.MethodDelete, "/customer/cart"))
	assert.Len(t, f.cart.Snapshot().Lines, 1)
	assert.Len(t, f.backend.CartQuantities(), 1)
}

func TestTableService_CheckoutFailureKeepsTable(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	_, err := f.table.Bind(ctx, "T1")
	require.NoError(t, err)
	require.NoError(t, f.cart.Add(ctx, f.addInput(t, "p1", 1)))
	f.backend.FailNext(http.MethodPost, "/customer/checkout", http.StatusInternalServerError, "")

	err = f.table.Checkout(ctx)

	assert.ErrorIs(t, err, domainerrors.ErrServer)
	assert.True(t, f.session.State().HasTable())
	assert.Len(t, f.cart.Snapshot().Lines, 1)
}

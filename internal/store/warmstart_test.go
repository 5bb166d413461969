package store

import (
	"context"
	"testing"

	"backoffice-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarmStartFillsEmptyContainer(t *testing.T) {
	env := newTestEnv(t)
	snaps := newMemorySnapshots()
	ctx := context.Background()

	// a previous run cached two records the server no longer has
	cached := []models.Product{
		{ID: 101, Name: "Cached Scanner", Brand: "Acme", Active: true},
		{ID: 102, Name: "Cached Probe", Brand: "Probe", Active: true},
	}
	require.NoError(t, snaps.Store(ctx, "products", cached))

	products := NewProducts(env.client, env.notifier, snaps)
	products.WarmStart(ctx)

	assert.Equal(t, []int64{101, 102}, entityIDs(products.Items()))
	assert.NoError(t, products.Err())
	assert.False(t, products.Loading())

	// warmed items are not server-confirmed: the next fetch replaces the
	// list wholesale and drops records the server does not hold
	list, err := products.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.NotContains(t, entityIDs(products.Items()), int64(101))
	assert.NotContains(t, entityIDs(products.Items()), int64(102))

	// the fetch refreshed the cached snapshot too
	var stored []models.Product
	ok, err := snaps.Load(ctx, "products", &stored)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entityIDs(list), entityIDs(stored))
}

func TestWarmStartSkipsPopulatedContainer(t *testing.T) {
	env := newTestEnv(t)
	snaps := newMemorySnapshots()
	ctx := context.Background()

	products := NewProducts(env.client, env.notifier, snaps)
	fetched, err := products.FetchAll(ctx)
	require.NoError(t, err)

	require.NoError(t, snaps.Store(ctx, "products", []models.Product{{ID: 200, Name: "Stale"}}))
	products.WarmStart(ctx)

	assert.Equal(t, entityIDs(fetched), entityIDs(products.Items()))
}

func TestWarmStartWithoutSnapshot(t *testing.T) {
	env := newTestEnv(t)
	products := NewProducts(env.client, env.notifier, newMemorySnapshots())

	products.WarmStart(context.Background())

	assert.Empty(t, products.Items())
	assert.NoError(t, products.Err())
}

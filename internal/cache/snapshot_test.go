package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Skip("Integration test - requires redis")

	snaps, err := New("localhost:6379", "", 0, time.Minute)
	require.NoError(t, err)
	defer snaps.Close()

	ctx := context.Background()

	stored := []record{{ID: 1, Name: "first"}, {ID: 2, Name: "second"}}
	require.NoError(t, snaps.Store(ctx, "records", stored))

	var loaded []record
	ok, err := snaps.Load(ctx, "records", &loaded)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, stored, loaded)

	require.NoError(t, snaps.Invalidate(ctx, "records"))
	ok, err = snaps.Load(ctx, "records", &loaded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadMissingSnapshot(t *testing.T) {
	t.Skip("Integration test - requires redis")

	snaps, err := New("localhost:6379", "", 0, time.Minute)
	require.NoError(t, err)
	defer snaps.Close()

	var loaded []record
	ok, err := snaps.Load(context.Background(), "never-stored", &loaded)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, loaded)
}

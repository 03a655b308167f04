package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/sessions/internal/tokenstore"
)

func TestFakeStore_TTL(t *testing.T) {
	ctx := context.Background()
	store := NewFakeStore()

	now := time.Now()
	store.SetClock(func() time.Time { return now })

	require.NoError(t, store.Set(ctx, "key", []byte("value"), time.Minute))

	value, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)

	// Step past the TTL
	now = now.Add(2 * time.Minute)

	_, err = store.Get(ctx, "key")
	assert.ErrorIs(t, err, tokenstore.ErrKeyNotFound)
}

func TestFakeStore_MarkerSkipsExpiredTTL(t *testing.T) {
	ctx := context.Background()
	store := NewFakeStore()

	require.NoError(t, store.SetMarker(ctx, "marker", -time.Second))

	exists, err := store.Exists(ctx, "marker")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFakeStore_ScanPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewFakeStore()

	require.NoError(t, store.Set(ctx, "session:token:a", []byte("1"), time.Minute))
	require.NoError(t, store.Set(ctx, "session:token:b", []byte("1"), time.Minute))
	require.NoError(t, store.Set(ctx, "revoked:c", []byte("1"), time.Minute))

	keys, err := store.ScanPrefix(ctx, "session:token:")
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestFakeStore_Err(t *testing.T) {
	ctx := context.Background()
	store := NewFakeStore()
	store.Err = tokenstore.ErrStoreUnavailable

	assert.ErrorIs(t, store.Set(ctx, "key", nil, time.Minute), tokenstore.ErrStoreUnavailable)

	_, err := store.Get(ctx, "key")
	assert.ErrorIs(t, err, tokenstore.ErrStoreUnavailable)
}

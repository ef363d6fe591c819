package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/infrastructure/storage"
)

func setupTestRedis(t *testing.T) (*Store, *miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, "storefront:"), mr, client
}

func TestStore_GetNotFound(t *testing.T) {
	store, _, _ := setupTestRedis(t)

	got, err := store.Get(context.Background(), "wishlist")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_SetThenGet(t *testing.T) {
	store, mr, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "wishlist", []byte(`[{"id":3}]`)))

	raw, err := mr.Get("storefront:wishlist")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":3}]`, raw)
	assert.Zero(t, mr.TTL("storefront:wishlist"), "values do not expire")

	got, err := store.Get(ctx, "wishlist")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":3}]`, string(got))
}

func TestStore_Overwrite(t *testing.T) {
	store, _, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "wishlist", []byte(`[1]`)))
	require.NoError(t, store.Set(ctx, "wishlist", []byte(`[]`)))

	got, err := store.Get(ctx, "wishlist")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestStore_ConnectionError(t *testing.T) {
	store, mr, _ := setupTestRedis(t)
	mr.Close()

	_, err := store.Get(context.Background(), "wishlist")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	assert.Contains(t, err.Error(), "redis get wishlist")

	err = store.Set(context.Background(), "wishlist", []byte(`[]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis set wishlist")
}

func TestClient_Health(t *testing.T) {
	_, _, client := setupTestRedis(t)
	c := &Client{Redis: client}

	assert.NoError(t, c.Health(context.Background()))
	assert.Same(t, client, c.GetClient())
}

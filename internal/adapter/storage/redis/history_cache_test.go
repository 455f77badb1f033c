package redis

import (
	"context"
	"testing"
	"time"

	"github.com/jeff007ali/lendledger/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewHistoryCache(client)
	ctx := context.Background()

	key := domain.LendHistoryKey(uuid.New())
	value := []byte(`[{"transaction_amount":50,"transaction_type":"lend"}]`)

	// Get before set => nil
	result, err := cache.Get(ctx, key)
	assert.NoError(t, err)
	assert.Nil(t, result)

	// Set
	err = cache.Set(ctx, key, value, time.Minute)
	require.NoError(t, err)

	// Get after set
	result, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, value, result)
}

func TestHistoryCache_Expiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewHistoryCache(client)
	ctx := context.Background()

	key := domain.BorrowHistoryKey(uuid.New())
	err := cache.Set(ctx, key, []byte("[]"), time.Minute)
	require.NoError(t, err)

	s.FastForward(2 * time.Minute)

	result, err := cache.Get(ctx, key)
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestHistoryCache_Delete(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewHistoryCache(client)
	ctx := context.Background()

	lender := uuid.New()
	borrower := uuid.New()
	keys := domain.HistoryKeysFor(lender, borrower)
	for _, k := range keys {
		require.NoError(t, cache.Set(ctx, k, []byte("[]"), time.Minute))
	}

	err := cache.Delete(ctx, keys...)
	require.NoError(t, err)

	for _, k := range keys {
		result, err := cache.Get(ctx, k)
		assert.NoError(t, err)
		assert.Nil(t, result)
	}
}

func TestHistoryCache_DeleteMissingKeys(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewHistoryCache(client)

	err := cache.Delete(context.Background(), "history:lend:missing")
	assert.NoError(t, err)

	err = cache.Delete(context.Background())
	assert.NoError(t, err)
}

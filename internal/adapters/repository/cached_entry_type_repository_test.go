package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-diary/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

func TestCachedEntryTypeRepository_Integration(t *testing.T) {
	ctx := context.Background()
	rdb, err := cache.NewRedisClient(ctx, cache.Config{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       2,
	})
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	defer rdb.Close()
	require.NoError(t, rdb.FlushDB(ctx).Err())

	next := NewInMemoryEntryTypeRepository()
	repo := NewCachedEntryTypeRepository(next, rdb)

	read, _ := domain.NewEntryType("cache-user", "Read", domain.RoutineDaily, 1, 1, [2]string{})
	require.NoError(t, repo.Create(ctx, read))

	t.Run("Miss fills the cache", func(t *testing.T) {
		list, err := repo.ListByUserID(ctx, "cache-user")
		require.NoError(t, err)
		require.Len(t, list, 1)

		exists, err := rdb.Exists(ctx, repo.cacheKey("cache-user")).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), exists)
	})

	t.Run("Hit serves cached data", func(t *testing.T) {
		run, _ := domain.NewEntryType("cache-user", "Run", domain.RoutineDaily, 1, 1, [2]string{})
		require.NoError(t, next.Create(ctx, run))

		list, err := repo.ListByUserID(ctx, "cache-user")
		require.NoError(t, err)
		assert.Len(t, list, 1)
		assert.Equal(t, "cache-user", list[0].UserID)
	})

	t.Run("Writes invalidate", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "cache-user", "read"))

		list, err := repo.ListByUserID(ctx, "cache-user")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "run", list[0].ID)
	})

	t.Run("Corrupted cache falls back to the store", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, repo.cacheKey("cache-user"), "{not json", 0).Err())

		list, err := repo.ListByUserID(ctx, "cache-user")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

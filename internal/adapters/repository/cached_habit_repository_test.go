package repository

import (
	"context"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-habits/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	rdb, err := cache.NewRedisClient(context.Background(), cache.Options{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       2,
	})
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	require.NoError(t, rdb.FlushDB(context.Background()).Err())
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

// countingHabitRepo counts list calls that reach the backing store.
// afterLoad runs once, between reading the list and returning it.
type countingHabitRepo struct {
	*InMemoryHabitRepository
	lists     int
	afterLoad func()
}

func (c *countingHabitRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	c.lists++
	list, err := c.InMemoryHabitRepository.ListByUserID(ctx, userID)
	if hook := c.afterLoad; hook != nil {
		c.afterLoad = nil
		hook()
	}
	return list, err
}

func TestCachedHabitRepository_Integration(t *testing.T) {
	rdb := setupTestRedis(t)
	backing := &countingHabitRepo{InMemoryHabitRepository: NewInMemoryHabitRepository()}
	repo := NewCachedHabitRepository(backing, cache.NewStore(rdb, "kanso-test", time.Minute))
	ctx := context.Background()

	h, err := domain.NewHabit("Cached", "user-1")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, h))

	t.Run("Second list is served from Redis", func(t *testing.T) {
		first, err := repo.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		second, err := repo.ListByUserID(ctx, "user-1")
		require.NoError(t, err)

		assert.Equal(t, 1, backing.lists)
		require.Len(t, second, 1)
		assert.Equal(t, first[0].ID, second[0].ID)
	})

	t.Run("Streak updates invalidate the list", func(t *testing.T) {
		require.NoError(t, repo.UpdateStreaks(ctx, h.ID, 3, 3))

		list, err := repo.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 2, backing.lists)
		assert.Equal(t, 3, list[0].CurrentStreak)
	})

	t.Run("A write during a cache fill is not hidden by the stale list", func(t *testing.T) {
		other, err := domain.NewHabit("Cached", "user-2")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, other))

		backing.afterLoad = func() {
			current, err := backing.GetByID(ctx, other.ID)
			require.NoError(t, err)
			current.Title = "Renamed"
			require.NoError(t, repo.Update(ctx, current))
		}

		stale, err := repo.ListByUserID(ctx, "user-2")
		require.NoError(t, err)
		assert.Equal(t, "Cached", stale[0].Title)

		fresh, err := repo.ListByUserID(ctx, "user-2")
		require.NoError(t, err)
		require.Len(t, fresh, 1)
		assert.Equal(t, "Renamed", fresh[0].Title)
	})

	t.Run("Delete invalidates the list", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, h.ID))

		list, err := repo.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("Corrupted entry falls back to the store", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, "kanso-test:habits:user-9:v0", "garbage", 0).Err())

		list, err := repo.ListByUserID(ctx, "user-9")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

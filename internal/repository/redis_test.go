package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCalendarCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	cache := NewRedisCalendarCache(client, time.Hour)
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		dates := []string{"2026-09-10", "2026-09-11"}
		require.NoError(t, cache.SetCalendar(ctx, 1, dates))

		got, found, err := cache.GetCalendar(ctx, 1)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, dates, got)
	})

	t.Run("Miss", func(t *testing.T) {
		_, found, err := cache.GetCalendar(ctx, 999)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("EmptyCalendarIsCached", func(t *testing.T) {
		require.NoError(t, cache.SetCalendar(ctx, 2, []string{}))

		got, found, err := cache.GetCalendar(ctx, 2)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Empty(t, got)
	})

	t.Run("Invalidate", func(t *testing.T) {
		require.NoError(t, cache.SetCalendar(ctx, 3, []string{"2026-09-10"}))
		require.NoError(t, cache.Invalidate(ctx, 3))

		_, found, err := cache.GetCalendar(ctx, 3)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("TTLExpiry", func(t *testing.T) {
		require.NoError(t, cache.SetCalendar(ctx, 4, []string{"2026-09-10"}))
		s.FastForward(2 * time.Hour)

		_, found, err := cache.GetCalendar(ctx, 4)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestRedisCalendarCacheNilClient(t *testing.T) {
	cache := NewRedisCalendarCache(nil, time.Hour)
	ctx := context.Background()

	_, _, err := cache.GetCalendar(ctx, 1)
	assert.Error(t, err)
	assert.Error(t, cache.SetCalendar(ctx, 1, nil))
	assert.Error(t, cache.Invalidate(ctx, 1))
}

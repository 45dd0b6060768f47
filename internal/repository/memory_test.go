package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCalendarCache(t *testing.T) {
	cache := NewMemoryCalendarCache(time.Hour)
	ctx := context.Background()

	dates := []string{"2026-09-10", "2026-09-11"}
	require.NoError(t, cache.SetCalendar(ctx, 1, dates))

	got, found, err := cache.GetCalendar(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, dates, got)

	_, found, err = cache.GetCalendar(ctx, 2)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Invalidate(ctx, 1))
	_, found, err = cache.GetCalendar(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCalendarCacheExpiry(t *testing.T) {
	cache := NewMemoryCalendarCache(time.Millisecond)
	ctx := context.Background()

	require.NoError(t, cache.SetCalendar(ctx, 1, []string{"2026-09-10"}))
	time.Sleep(5 * time.Millisecond)

	_, found, err := cache.GetCalendar(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)
}

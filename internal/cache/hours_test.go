package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codr1/bagelshop/internal/availability"
)

func newTestCache(t *testing.T) (*HoursCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	return NewHoursCache(client, time.Minute), mr
}

func TestHoursCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	_, key, ok, err := c.Get(ctx, "2025-03-03")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NotEmpty(t, key)

	view := &availability.BusinessHours{
		Schedule:      availability.Schedule{ID: "s", Name: "Regular", IsActive: true},
		WeekOverrides: []availability.DateOverride{{ID: "o", Date: "2025-03-04", Name: "Closed"}},
	}
	require.NoError(t, c.Set(ctx, key, view))

	got, _, ok, err := c.Get(ctx, "2025-03-03")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, "Regular", got.Schedule.Name)
	assert.Len(t, got.WeekOverrides, 1)
	assert.Nil(t, got.TodayOverride)
}

func TestHoursCacheStoresNilView(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	_, key, _, err := c.Get(ctx, "2025-03-03")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, key, nil))

	got, _, ok, err := c.Get(ctx, "2025-03-03")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, got)
}

func TestHoursCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	_, key, _, err := c.Get(ctx, "2025-03-03")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, key, &availability.BusinessHours{}))
	require.NoError(t, c.Invalidate(ctx))

	_, _, ok, err := c.Get(ctx, "2025-03-03")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHoursCacheSetAfterInvalidateStaysDead(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	// A reader misses, a writer commits and invalidates, then the reader
	// stores the view it loaded before the write.
	_, key, ok, err := c.Get(ctx, "2025-03-03")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Invalidate(ctx))

	stale := &availability.BusinessHours{Schedule: availability.Schedule{ID: "old", Name: "OLD"}}
	require.NoError(t, c.Set(ctx, key, stale))

	got, _, ok, err := c.Get(ctx, "2025-03-03")
	require.NoError(t, err)
	assert.False(t, ok, "stale view must not be served after invalidation, got %+v", got)
}

func TestHoursCacheSetRequiresKey(t *testing.T) {
	c, _ := newTestCache(t)
	assert.Error(t, c.Set(context.Background(), "", nil))
}

func TestHoursCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	_, key, _, err := c.Get(ctx, "2025-03-03")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, key, &availability.BusinessHours{}))
	mr.FastForward(2 * time.Minute)

	_, _, ok, err := c.Get(ctx, "2025-03-03")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHoursCacheUnavailable(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	mr.Close()

	_, _, _, err := c.Get(ctx, "2025-03-03")
	assert.Error(t, err)
	assert.Error(t, c.Invalidate(ctx))
}

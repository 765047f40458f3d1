package seed_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codr1/bagelshop/internal/availability"
	"github.com/codr1/bagelshop/internal/db"
	"github.com/codr1/bagelshop/internal/menu"
	"github.com/codr1/bagelshop/internal/seed"
	"github.com/codr1/bagelshop/internal/testutil"
)

func TestSchedulesSeedsOnce(t *testing.T) {
	now := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	svc := availability.NewService(
		db.NewAvailabilityStore(testutil.NewTestDB(t)),
		availability.WithClock(clockwork.NewFakeClockAt(now)),
		availability.WithLocation(time.UTC),
	)
	ctx := context.Background()

	seeded, err := seed.Schedules(ctx, svc, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, seeded)

	schedules, err := svc.ListSchedules(ctx)
	require.NoError(t, err)
	require.Len(t, schedules, 3)
	active := 0
	for _, s := range schedules {
		assert.Len(t, s.WeeklyHours, availability.DaysPerWeek)
		if s.IsActive {
			active++
			assert.Equal(t, "Regular Business Hours", s.Name)
		}
	}
	assert.Equal(t, 1, active)

	overrides, err := svc.ListOverrides(ctx)
	require.NoError(t, err)
	dates := map[string]string{}
	for _, o := range overrides {
		dates[o.Name] = o.Date
	}
	assert.Equal(t, "2025-12-25", dates["Christmas Day"])
	assert.Equal(t, "2026-01-01", dates["New Year's Day"])
	assert.Equal(t, "2026-07-04", dates["Independence Day"])
	assert.Equal(t, "2025-11-29", dates["Black Friday"])

	// Friday 2025-08-01 09:00 falls inside the regular hours.
	open, err := svc.IsCurrentlyOpen(ctx)
	require.NoError(t, err)
	assert.True(t, open)

	seeded, err = seed.Schedules(ctx, svc, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestMenuSeedsOnce(t *testing.T) {
	svc := menu.NewService(db.NewMenuStore(testutil.NewTestDB(t)))
	ctx := context.Background()

	seeded, err := seed.Menu(ctx, svc, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, seeded)

	grouped, err := svc.ListByCategory(ctx)
	require.NoError(t, err)
	assert.Len(t, grouped.Drinks, 5)
	assert.Len(t, grouped.Sides, 4)
	assert.Len(t, grouped.Bagels, 6)

	options, err := svc.BatchOptions(ctx)
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.Equal(t, "Dozen", options[2].Name)

	seeded, err = seed.Menu(ctx, svc, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, seeded)
}

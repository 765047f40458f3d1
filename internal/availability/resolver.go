package availability

import (
	"sort"
	"time"

	"github.com/codr1/bagelshop/internal/timerange"
)

// IsOpenAt decides whether the shop is open at now, read in loc. A closed
// override for today always wins; an override with its own window replaces the
// regular hours; an open override without times falls back to the regular day.
// Windows are half-open and never cross midnight.
func IsOpenAt(now time.Time, loc *time.Location, active *Schedule, overrides []DateOverride) bool {
	if active == nil {
		return false
	}
	local := inZone(now, loc)
	today := local.Format(timerange.DateLayout)
	current := local.Format(timerange.Layout)

	if override := SelectOverride(overrides, today); override != nil {
		if !override.IsOpen {
			return false
		}
		if w, ok := override.Window(); ok {
			return w.Contains(current)
		}
	}

	day, ok := active.Day(int(local.Weekday()))
	if !ok || !day.IsOpen {
		return false
	}
	w, ok := day.Window()
	if !ok {
		return false
	}
	return w.Contains(current)
}

// BusinessHoursAt builds the public view for the day containing now. It returns
// nil when there is no active schedule.
func BusinessHoursAt(now time.Time, loc *time.Location, active *Schedule, overrides []DateOverride) *BusinessHours {
	if active == nil {
		return nil
	}
	local := inZone(now, loc)
	from, to := UpcomingWindow(local)

	week := make([]DateOverride, 0)
	for _, o := range overrides {
		if o.Date >= from && o.Date <= to {
			week = append(week, o)
		}
	}
	sortOverrides(week)

	return &BusinessHours{
		Schedule:      *active,
		TodayOverride: SelectOverride(week, from),
		WeekOverrides: week,
	}
}

// UpcomingWindow returns the first and last date of the public override window
// starting on the local date of t.
func UpcomingWindow(t time.Time) (from, to string) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start.Format(timerange.DateLayout), start.AddDate(0, 0, UpcomingDays-1).Format(timerange.DateLayout)
}

// SelectOverride picks the override for date. Duplicates resolve to the earliest
// created record, then the lowest id.
func SelectOverride(overrides []DateOverride, date string) *DateOverride {
	var picked *DateOverride
	for i := range overrides {
		o := &overrides[i]
		if o.Date != date {
			continue
		}
		if picked == nil || createdBefore(*o, *picked) {
			picked = o
		}
	}
	if picked == nil {
		return nil
	}
	found := *picked
	return &found
}

func sortOverrides(overrides []DateOverride) {
	sort.SliceStable(overrides, func(i, j int) bool {
		if overrides[i].Date != overrides[j].Date {
			return overrides[i].Date < overrides[j].Date
		}
		return createdBefore(overrides[i], overrides[j])
	})
}

func createdBefore(a, b DateOverride) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func inZone(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}

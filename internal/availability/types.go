// Package availability owns weekly schedules, date overrides and the rules that
// decide whether the shop is open at a given instant.
package availability

import (
	"time"

	"github.com/codr1/bagelshop/internal/timerange"
)

const (
	DaysPerWeek      = 7
	MaxNameLength    = 100
	DefaultOpenTime  = "09:00"
	DefaultCloseTime = "17:00"
	// UpcomingDays is the size of the override window shown on the public display,
	// today included.
	UpcomingDays = 7
)

// DaySchedule is one row of a schedule's weekly table. DayOfWeek is 0 for Sunday.
type DaySchedule struct {
	DayOfWeek int    `json:"dayOfWeek"`
	IsOpen    bool   `json:"isOpen"`
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
}

// Window returns the day's hours when both ends are present and well ordered.
func (d DaySchedule) Window() (timerange.Range, bool) {
	return window(d.OpenTime, d.CloseTime)
}

type Schedule struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	IsActive    bool          `json:"isActive"`
	WeeklyHours []DaySchedule `json:"weeklyHours"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Day returns the entry for dayOfWeek.
func (s Schedule) Day(dayOfWeek int) (DaySchedule, bool) {
	for _, day := range s.WeeklyHours {
		if day.DayOfWeek == dayOfWeek {
			return day, true
		}
	}
	return DaySchedule{}, false
}

// DateOverride replaces the regular hours for a single calendar date.
// An open override without times keeps the regular hours for that day.
type DateOverride struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Name      string    `json:"name"`
	IsOpen    bool      `json:"isOpen"`
	OpenTime  string    `json:"openTime,omitempty"`
	CloseTime string    `json:"closeTime,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Window returns the override's own hours, if it has both ends.
func (o DateOverride) Window() (timerange.Range, bool) {
	return window(o.OpenTime, o.CloseTime)
}

// BusinessHours is the view rendered by the public display.
type BusinessHours struct {
	Schedule      Schedule       `json:"schedule"`
	TodayOverride *DateOverride  `json:"todayOverride"`
	WeekOverrides []DateOverride `json:"weekOverrides"`
}

type ScheduleInput struct {
	Name        string        `json:"name"`
	IsActive    bool          `json:"isActive"`
	WeeklyHours []DaySchedule `json:"weeklyHours"`
}

// SchedulePatch carries a partial update. Nil fields are left untouched;
// WeeklyHours entries are merged into the stored week by DayOfWeek.
type SchedulePatch struct {
	Name        *string       `json:"name,omitempty"`
	IsActive    *bool         `json:"isActive,omitempty"`
	WeeklyHours []DaySchedule `json:"weeklyHours,omitempty"`
}

type OverrideInput struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	IsOpen    bool   `json:"isOpen"`
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
}

type OverridePatch struct {
	Date      *string `json:"date,omitempty"`
	Name      *string `json:"name,omitempty"`
	IsOpen    *bool   `json:"isOpen,omitempty"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
}

func window(open, close string) (timerange.Range, bool) {
	if open == "" || close == "" {
		return timerange.Range{}, false
	}
	r, err := timerange.ValidateTimeRange(open, close)
	if err != nil {
		return timerange.Range{}, false
	}
	return r, true
}

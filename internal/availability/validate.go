package availability

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/codr1/bagelshop/internal/timerange"
)

func validateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", invalid("name", "name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", invalid("name", fmt.Sprintf("name must be at most %d characters", MaxNameLength))
	}
	return name, nil
}

// validateWeek checks a full weekly table and returns it sorted by day with
// missing times filled with the defaults.
func validateWeek(days []DaySchedule) ([]DaySchedule, error) {
	if len(days) != DaysPerWeek {
		return nil, invalid("weekly_hours", "weekly hours must contain exactly 7 days")
	}
	seen := make(map[int]bool, DaysPerWeek)
	week := make([]DaySchedule, 0, DaysPerWeek)
	for _, day := range days {
		if err := checkDayShape(day, seen); err != nil {
			return nil, err
		}
		if day.OpenTime == "" {
			day.OpenTime = DefaultOpenTime
		}
		if day.CloseTime == "" {
			day.CloseTime = DefaultCloseTime
		}
		if err := checkDayRange(day); err != nil {
			return nil, err
		}
		week = append(week, day)
	}
	sortWeek(week)
	return week, nil
}

// mergeWeek applies partial day entries onto an existing week. Times left blank in
// an entry keep the stored value for that day.
func mergeWeek(current, patch []DaySchedule) ([]DaySchedule, error) {
	if len(patch) > DaysPerWeek {
		return nil, invalid("weekly_hours", "weekly hours must contain at most 7 days")
	}
	byDay := make(map[int]DaySchedule, DaysPerWeek)
	for _, day := range current {
		byDay[day.DayOfWeek] = day
	}

	seen := make(map[int]bool, len(patch))
	for _, day := range patch {
		if err := checkDayShape(day, seen); err != nil {
			return nil, err
		}
		existing := byDay[day.DayOfWeek]
		if day.OpenTime == "" {
			day.OpenTime = existing.OpenTime
		}
		if day.CloseTime == "" {
			day.CloseTime = existing.CloseTime
		}
		if err := checkDayRange(day); err != nil {
			return nil, err
		}
		byDay[day.DayOfWeek] = day
	}

	merged := make([]DaySchedule, 0, len(byDay))
	for _, day := range byDay {
		merged = append(merged, day)
	}
	if len(merged) != DaysPerWeek {
		return nil, invalid("weekly_hours", "weekly hours must contain exactly 7 days")
	}
	sortWeek(merged)
	return merged, nil
}

func checkDayShape(day DaySchedule, seen map[int]bool) error {
	if day.DayOfWeek < 0 || day.DayOfWeek >= DaysPerWeek {
		return invalidDay(day.DayOfWeek, "day of week must be between 0 and 6", nil)
	}
	if seen[day.DayOfWeek] {
		return invalidDay(day.DayOfWeek, "day appears more than once", nil)
	}
	seen[day.DayOfWeek] = true

	for _, value := range []string{day.OpenTime, day.CloseTime} {
		if value == "" {
			continue
		}
		if err := timerange.ValidateTime(value); err != nil {
			return invalidDay(day.DayOfWeek, fmt.Sprintf("invalid time %q, expected HH:MM", value), err)
		}
	}
	return nil
}

func checkDayRange(day DaySchedule) error {
	if !day.IsOpen || day.OpenTime == "" || day.CloseTime == "" {
		return nil
	}
	if _, err := timerange.ValidateTimeRange(day.OpenTime, day.CloseTime); err != nil {
		return invalidDay(day.DayOfWeek, "opening time must be before closing time", err)
	}
	return nil
}

func sortWeek(days []DaySchedule) {
	sort.Slice(days, func(i, j int) bool { return days[i].DayOfWeek < days[j].DayOfWeek })
}

// normalizeOverride validates o in place. Closed overrides drop any times.
func normalizeOverride(o *DateOverride) error {
	o.Date = strings.TrimSpace(o.Date)
	if _, err := timerange.ValidateDate(o.Date); err != nil {
		return &ValidationError{Field: "date", Reason: err.Error(), Err: err}
	}

	name, err := validateName(o.Name)
	if err != nil {
		return err
	}
	o.Name = name

	o.OpenTime = strings.TrimSpace(o.OpenTime)
	o.CloseTime = strings.TrimSpace(o.CloseTime)
	if !o.IsOpen {
		o.OpenTime, o.CloseTime = "", ""
		return nil
	}
	switch {
	case o.OpenTime == "" && o.CloseTime == "":
		return nil
	case o.OpenTime == "" || o.CloseTime == "":
		return invalid("open_time", "open_time and close_time must be provided together")
	}
	if _, err := timerange.ValidateTimeRange(o.OpenTime, o.CloseTime); err != nil {
		var terr *timerange.Error
		field := "close_time"
		if errors.As(err, &terr) {
			field = terr.Field
		}
		return &ValidationError{Field: field, Reason: err.Error(), Err: err}
	}
	return nil
}

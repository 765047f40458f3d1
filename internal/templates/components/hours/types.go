package hours

import (
	"time"

	"github.com/codr1/bagelshop/internal/availability"
	"github.com/codr1/bagelshop/internal/timerange"
)

var dayNames = [availability.DaysPerWeek]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

type DayHours struct {
	Label   string
	Hours   string
	IsToday bool
}

type SpecialHours struct {
	DateLabel string
	Name      string
	Hours     string
	IsOpen    bool
	IsToday   bool
}

// PanelData drives the public business-hours panel. HasSchedule false renders
// the closed notice only.
type PanelData struct {
	HasSchedule bool
	IsOpen      bool
	Specials    []SpecialHours
	Regular     []DayHours
}

// NewPanelData formats view for display at now, read in the shop's zone.
func NewPanelData(view *availability.BusinessHours, isOpen bool, now time.Time) PanelData {
	if view == nil {
		return PanelData{}
	}
	today := now.Format(timerange.DateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(timerange.DateLayout)

	data := PanelData{HasSchedule: true, IsOpen: isOpen}
	for _, o := range view.WeekOverrides {
		data.Specials = append(data.Specials, SpecialHours{
			DateLabel: dateLabel(o.Date, today, tomorrow, now.Location()),
			Name:      o.Name,
			Hours:     overrideHours(o),
			IsOpen:    o.IsOpen,
			IsToday:   o.Date == today,
		})
	}
	for _, day := range view.Schedule.WeeklyHours {
		if day.DayOfWeek < 0 || day.DayOfWeek >= availability.DaysPerWeek {
			continue
		}
		hours := "Closed"
		if day.IsOpen {
			hours = formatWindow(day.OpenTime, day.CloseTime)
		}
		data.Regular = append(data.Regular, DayHours{
			Label:   dayNames[day.DayOfWeek],
			Hours:   hours,
			IsToday: day.DayOfWeek == int(now.Weekday()) && view.TodayOverride == nil,
		})
	}
	return data
}

func overrideHours(o availability.DateOverride) string {
	switch {
	case !o.IsOpen:
		return "Closed"
	case o.OpenTime != "" && o.CloseTime != "":
		return formatWindow(o.OpenTime, o.CloseTime)
	default:
		return "Regular hours"
	}
}

func formatWindow(open, close string) string {
	return timerange.Format12Hour(open) + " - " + timerange.Format12Hour(close)
}

func dateLabel(date, today, tomorrow string, loc *time.Location) string {
	switch date {
	case today:
		return "Today"
	case tomorrow:
		return "Tomorrow"
	}
	parsed, err := time.ParseInLocation(timerange.DateLayout, date, loc)
	if err != nil {
		return date
	}
	return parsed.Format("Mon, Jan 2")
}

package hours

import (
	"context"
	"fmt"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/rs/zerolog/log"

	"github.com/codr1/bagelshop/internal/api/apiutil"
	"github.com/codr1/bagelshop/internal/availability"
	"github.com/codr1/bagelshop/internal/timerange"
)

const calendarProductID = "-//bagelshop//Special Hours//EN"

// GET /api/v1/hours/calendar.ics
func HandleCalendarFeed(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), hoursQueryTimeout)
	defer cancel()

	overrides, err := svc.UpcomingOverrides(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load special hours")
		return
	}

	cal := BuildCalendar(overrides, svc.Location(), svc.Now())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="special-hours.ics"`)
	if _, err := w.Write([]byte(cal.Serialize())); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write calendar feed")
	}
}

// BuildCalendar renders one event per override. Closed days and open days
// without their own window are all-day events; windows become timed events in
// loc.
func BuildCalendar(overrides []availability.DateOverride, loc *time.Location, stamp time.Time) *ics.Calendar {
	if loc == nil {
		loc = time.UTC
	}
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName("Special Hours")
	cal.SetXWRTimezone(loc.String())

	for _, o := range overrides {
		day, err := time.ParseInLocation(timerange.DateLayout, o.Date, loc)
		if err != nil {
			continue
		}
		event := cal.AddEvent(o.ID + "@bagelshop")
		event.SetDtStampTime(stamp.UTC())
		event.SetModifiedAt(o.UpdatedAt.UTC())

		window, hasWindow := o.Window()
		switch {
		case !o.IsOpen:
			event.SetSummary("Closed: " + o.Name)
			event.SetAllDayStartAt(day)
			event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		case hasWindow:
			event.SetSummary(o.Name)
			event.SetDescription(fmt.Sprintf("Open %s - %s",
				timerange.Format12Hour(window.Open), timerange.Format12Hour(window.Close)))
			event.SetStartAt(atTime(day, window.Open, loc))
			event.SetEndAt(atTime(day, window.Close, loc))
		default:
			event.SetSummary(o.Name)
			event.SetDescription("Regular hours")
			event.SetAllDayStartAt(day)
			event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		}
	}
	return cal
}

func atTime(day time.Time, hhmm string, loc *time.Location) time.Time {
	t, err := time.Parse(timerange.Layout, hhmm)
	if err != nil {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

package hours

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/codr1/bagelshop/internal/availability"
)

func regularView() *availability.BusinessHours {
	week := []availability.DaySchedule{{DayOfWeek: 0, IsOpen: false}}
	for d := 1; d <= 6; d++ {
		week = append(week, availability.DaySchedule{DayOfWeek: d, IsOpen: true, OpenTime: "07:00", CloseTime: "15:00"})
	}
	return &availability.BusinessHours{
		Schedule: availability.Schedule{Name: "Regular", IsActive: true, WeeklyHours: week},
	}
}

func render(t *testing.T, data PanelData) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Panel(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render panel: %v", err)
	}
	return buf.String()
}

// Monday 2025-03-03.
var monday = time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

func TestPanelWithoutSchedule(t *testing.T) {
	html := render(t, NewPanelData(nil, false, monday))

	if !strings.Contains(html, "We&#39;re currently closed") && !strings.Contains(html, "We're currently closed") {
		t.Fatalf("expected closed notice, got %s", html)
	}
	if strings.Contains(html, "Regular Hours") {
		t.Fatalf("did not expect regular hours without a schedule")
	}
}

func TestPanelOpenWithRegularHours(t *testing.T) {
	data := NewPanelData(regularView(), true, monday)
	html := render(t, data)

	if !strings.Contains(html, "Open Now") {
		t.Fatalf("expected open badge")
	}
	if !strings.Contains(html, "7:00 AM - 3:00 PM") {
		t.Fatalf("expected 12-hour times, got %s", html)
	}
	if len(data.Regular) != 7 || data.Regular[0].Hours != "Closed" {
		t.Fatalf("unexpected regular hours %+v", data.Regular)
	}
	if !data.Regular[1].IsToday {
		t.Fatalf("expected Monday highlighted")
	}
}

func TestPanelSpecialHours(t *testing.T) {
	view := regularView()
	today := availability.DateOverride{ID: "a", Date: "2025-03-03", Name: "Inventory <Day>", IsOpen: false}
	view.TodayOverride = &today
	view.WeekOverrides = []availability.DateOverride{
		today,
		{ID: "b", Date: "2025-03-04", Name: "Short Day", IsOpen: true, OpenTime: "08:00", CloseTime: "12:00"},
		{ID: "c", Date: "2025-03-06", Name: "Parade", IsOpen: true},
	}

	data := NewPanelData(view, false, monday)
	html := render(t, data)

	if !strings.Contains(html, ">Closed<") {
		t.Fatalf("expected closed badge")
	}
	if !strings.Contains(html, "Inventory &lt;Day&gt;") {
		t.Fatalf("expected escaped override name, got %s", html)
	}
	want := []SpecialHours{
		{DateLabel: "Today", Name: "Inventory <Day>", Hours: "Closed", IsOpen: false, IsToday: true},
		{DateLabel: "Tomorrow", Name: "Short Day", Hours: "8:00 AM - 12:00 PM", IsOpen: true},
		{DateLabel: "Thu, Mar 6", Name: "Parade", Hours: "Regular hours", IsOpen: true},
	}
	if len(data.Specials) != len(want) {
		t.Fatalf("expected %d specials, got %d", len(want), len(data.Specials))
	}
	for i := range want {
		if data.Specials[i] != want[i] {
			t.Fatalf("special %d: got %+v want %+v", i, data.Specials[i], want[i])
		}
	}
	for _, day := range data.Regular {
		if day.IsToday {
			t.Fatalf("today's regular hours should not be highlighted when overridden")
		}
	}
}

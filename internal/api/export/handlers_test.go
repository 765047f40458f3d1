// internal/api/export/handlers_test.go
package export

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/xuri/excelize/v2"

	"github.com/codr1/bagelshop/internal/availability"
	"github.com/codr1/bagelshop/internal/db"
	xlsx "github.com/codr1/bagelshop/internal/export"
	"github.com/codr1/bagelshop/internal/testutil"
)

// NOTE: Tests cannot use t.Parallel() due to shared package state.

func TestHandleExportWorkbook(t *testing.T) {
	service = nil
	serviceOnce = sync.Once{}
	t.Cleanup(func() {
		service = nil
		serviceOnce = sync.Once{}
	})

	svc := availability.NewService(
		db.NewAvailabilityStore(testutil.NewTestDB(t)),
		availability.WithClock(clockwork.NewFakeClockAt(time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC))),
		availability.WithLocation(time.UTC),
	)
	InitHandlers(svc)

	week := make([]availability.DaySchedule, 0, availability.DaysPerWeek)
	for d := 0; d < availability.DaysPerWeek; d++ {
		week = append(week, availability.DaySchedule{DayOfWeek: d, IsOpen: d != 0})
	}
	ctx := context.Background()
	if _, err := svc.CreateSchedule(ctx, availability.ScheduleInput{Name: "Regular", IsActive: true, WeeklyHours: week}); err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	if _, err := svc.CreateOverride(ctx, availability.OverrideInput{Date: "2025-12-25", Name: "Christmas Day"}); err != nil {
		t.Fatalf("create override: %v", err)
	}

	rec := httptest.NewRecorder()
	HandleExportWorkbook(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/export.xlsx", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="business-hours-2025-03-03.xlsx"` {
		t.Fatalf("unexpected content disposition %q", got)
	}

	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(xlsx.SchedulesSheet)
	if err != nil {
		t.Fatalf("read schedules: %v", err)
	}
	if len(rows) != 1+availability.DaysPerWeek {
		t.Fatalf("expected header plus 7 rows, got %d", len(rows))
	}
	rows, err = f.GetRows(xlsx.OverridesSheet)
	if err != nil {
		t.Fatalf("read overrides: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "Christmas Day" {
		t.Fatalf("unexpected override rows %v", rows)
	}
}

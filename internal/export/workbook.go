// Package export writes schedules and date overrides to an xlsx workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/codr1/bagelshop/internal/availability"
)

const (
	SchedulesSheet = "Schedules"
	OverridesSheet = "Overrides"
	// Excel rejects longer sheet names.
	maxSheetNameLength = 31
)

var dayNames = [availability.DaysPerWeek]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// sheetWriter appends rows to one sheet at a time.
type sheetWriter struct {
	file  *excelize.File
	sheet string
	row   int
	bold  int
}

func newSheetWriter() (*sheetWriter, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	return &sheetWriter{file: f, bold: bold}, nil
}

func (w *sheetWriter) addSheet(name string) error {
	if len(name) > maxSheetNameLength {
		name = name[:maxSheetNameLength]
	}
	if w.sheet == "" {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename default sheet: %w", err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	w.sheet = name
	w.row = 1
	return nil
}

func (w *sheetWriter) header(columns ...string) error {
	values := make([]any, len(columns))
	for i, c := range columns {
		values[i] = c
	}
	if err := w.write(values); err != nil {
		return err
	}
	start, _ := excelize.CoordinatesToCellName(1, w.row-1)
	end, _ := excelize.CoordinatesToCellName(len(columns), w.row-1)
	return w.file.SetCellStyle(w.sheet, start, end, w.bold)
}

func (w *sheetWriter) write(values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(w.sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", w.sheet, w.row, err)
	}
	w.row++
	return nil
}

// WriteWorkbook writes one Schedules row per schedule day and one Overrides
// row per override to out.
func WriteWorkbook(out io.Writer, schedules []availability.Schedule, overrides []availability.DateOverride) error {
	w, err := newSheetWriter()
	if err != nil {
		return err
	}
	defer w.file.Close()

	if err := w.addSheet(SchedulesSheet); err != nil {
		return err
	}
	if err := w.header("Schedule", "Active", "Day", "Open", "Opens", "Closes"); err != nil {
		return err
	}
	for _, s := range schedules {
		for _, day := range s.WeeklyHours {
			opens, closes := "", ""
			if day.IsOpen {
				opens, closes = day.OpenTime, day.CloseTime
			}
			if err := w.write([]any{s.Name, yesNo(s.IsActive), dayName(day.DayOfWeek), yesNo(day.IsOpen), opens, closes}); err != nil {
				return err
			}
		}
	}

	if err := w.addSheet(OverridesSheet); err != nil {
		return err
	}
	if err := w.header("Date", "Name", "Open", "Opens", "Closes"); err != nil {
		return err
	}
	for _, o := range overrides {
		if err := w.write([]any{o.Date, o.Name, yesNo(o.IsOpen), o.OpenTime, o.CloseTime}); err != nil {
			return err
		}
	}

	if err := w.file.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func dayName(dayOfWeek int) string {
	if dayOfWeek < 0 || dayOfWeek >= len(dayNames) {
		return fmt.Sprintf("Day %d", dayOfWeek)
	}
	return dayNames[dayOfWeek]
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

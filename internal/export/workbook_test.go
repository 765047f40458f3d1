package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/codr1/bagelshop/internal/availability"
)

func TestWriteWorkbook(t *testing.T) {
	schedules := []availability.Schedule{{
		Name:     "Regular Business Hours",
		IsActive: true,
		WeeklyHours: []availability.DaySchedule{
			{DayOfWeek: 0, IsOpen: false, OpenTime: "09:00", CloseTime: "17:00"},
			{DayOfWeek: 1, IsOpen: true, OpenTime: "07:00", CloseTime: "15:00"},
		},
	}}
	overrides := []availability.DateOverride{
		{Date: "2025-12-25", Name: "Christmas Day", IsOpen: false},
		{Date: "2025-12-24", Name: "Christmas Eve", IsOpen: true, OpenTime: "07:00", CloseTime: "12:00"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, schedules, overrides))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SchedulesSheet, OverridesSheet}, f.GetSheetList())

	rows, err := f.GetRows(SchedulesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Schedule", "Active", "Day", "Open", "Opens", "Closes"}, rows[0])
	// Closed days carry no times.
	assert.Equal(t, []string{"Regular Business Hours", "Yes", "Sunday", "No"}, rows[1])
	assert.Equal(t, []string{"Regular Business Hours", "Yes", "Monday", "Yes", "07:00", "15:00"}, rows[2])

	rows, err = f.GetRows(OverridesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2025-12-25", "Christmas Day", "No"}, rows[1])
	assert.Equal(t, []string{"2025-12-24", "Christmas Eve", "Yes", "07:00", "12:00"}, rows[2])
}

func TestWriteWorkbookEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, nil, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(OverridesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

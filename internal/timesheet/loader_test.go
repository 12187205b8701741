package timesheet

import (
	"path/filepath"
	"testing"

	"github.com/staffhours/shiftrecon/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockHours(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{name: "clock format", in: "8:30", want: 8.5},
		{name: "zero clock", in: "0:00", want: 0},
		{name: "padded zero clock", in: "00:00", want: 0},
		{name: "empty", in: "", want: 0},
		{name: "plain number", in: "40", want: 40.0},
		{name: "decimal number", in: "7.25", want: 7.25},
		{name: "long week", in: "40:00", want: 40.0},
		{name: "quarter hour", in: "12:15", want: 12.25},
		{name: "garbage", in: "n/a", want: 0},
		{name: "bad minutes", in: "8:xx", want: 0},
		{name: "whitespace", in: "  9:30 ", want: 9.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseClockHours(tt.in), 1e-9)
		})
	}
}

func TestWeekFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantYear int
		wantWeek int
		wantOK   bool
	}{
		{name: "standard export name", path: "SunnybrookHouse-2024-W01.xlsx", wantYear: 2024, wantWeek: 1, wantOK: true},
		{name: "single digit week", path: "export-2025-W7.xlsx", wantYear: 2025, wantWeek: 7, wantOK: true},
		{name: "full path", path: "/data/in/SunnybrookHouse-2024-W52.xlsx", wantYear: 2024, wantWeek: 52, wantOK: true},
		{name: "no week token", path: "payroll_jan_apr.xlsx", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, week, ok := WeekFromFilename(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantYear, year)
				assert.Equal(t, tt.wantWeek, week)
			}
		})
	}
}

func TestParseRows(t *testing.T) {
	loader := NewLoader()

	rows := [][]string{
		{"Sunnybrook House"},
		{},
		{"Weekly Hours Report"},
		{},
		{"Staff Number", "Name", "Department Name", "Total Hours"},
		{"101", "SMITH, JOHN", "Nursing", "40:00"},
		{"102", "o'brien, niamh", "Kitchen", "8:30"},
		{"", "Ghost Row", "Nursing", "10:00"},
		{"103", "", "Nursing", "12:00"},
		{"Totals", "", "", "70:30"},
	}

	result, err := loader.parseRows(rows, "test-2024-W01.xlsx", model.PeriodKey(2024, 1))
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assert.Equal(t, 2, result.DroppedNoID)
	assert.Equal(t, 1, result.DroppedNoName)

	first := result.Records[0]
	assert.Equal(t, 101, first.EmployeeID)
	assert.Equal(t, "John Smith", first.EmployeeName)
	assert.Equal(t, "Nursing", first.Department)
	assert.Equal(t, "2024-W01", first.PeriodKey)
	assert.InDelta(t, 40.0, first.TotalHours, 1e-9)

	second := result.Records[1]
	assert.Equal(t, "Niamh O'Brien", second.EmployeeName)
	assert.InDelta(t, 8.5, second.TotalHours, 1e-9)
}

func TestParseRowsMissingColumn(t *testing.T) {
	loader := &Loader{HeaderRow: 0}

	rows := [][]string{
		{"Staff Number", "Name"}, // no Total Hours
		{"101", "Smith, John"},
	}

	_, err := loader.parseRows(rows, "broken.xlsx", "2024-W01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Total Hours")
}

func TestMasterCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "master.csv")

	records := []model.TimesheetRecord{
		{EmployeeID: 102, EmployeeName: "Niamh O'Brien", Department: "Kitchen", PeriodKey: "2024-W02", TotalHours: 8.5},
		{EmployeeID: 101, EmployeeName: "John Smith", Department: "Nursing", PeriodKey: "2024-W01", TotalHours: 40},
	}

	require.NoError(t, WriteMasterCSV(records, path))

	result, err := LoadMasterCSV(path)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	// Sorted by period then staff number on write.
	assert.Equal(t, 101, result.Records[0].EmployeeID)
	assert.Equal(t, "2024-W01", result.Records[0].PeriodKey)
	assert.InDelta(t, 40.0, result.Records[0].TotalHours, 1e-9)
	assert.Equal(t, 102, result.Records[1].EmployeeID)
	assert.Equal(t, "Niamh O'Brien", result.Records[1].EmployeeName)
}

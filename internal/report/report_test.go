package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/staffhours/shiftrecon/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testResult() *model.Result {
	rows := []model.ComparisonRow{
		{
			EmployeeID:          202,
			EmployeeName:        "Mary Byrne",
			Department:          "Kitchen",
			TimesheetHoursTotal: 0,
			PayrollHoursTotal:   30,
			Difference:          30,
			Mismatch:            true,
			HasPayrollData:      true,
			ActivityCategory:    model.ActivityTerminated,
			ActivityReason:      "payroll hours with no timesheet activity",
			CategoryHours: map[model.HourCategory]float64{
				model.CategoryDayRate: 30,
			},
		},
		{
			EmployeeID:          101,
			EmployeeName:        "John Smith",
			Department:          "Nursing",
			TimesheetHoursTotal: 48.5,
			PayrollHoursTotal:   50,
			Difference:          1.5,
			HasTimesheetData:    true,
			HasPayrollData:      true,
			InBothSystems:       true,
			ActivityCategory:    model.ActivityActive,
			ActivityReason:      "12 periods, 468.0 timesheet hours",
			CategoryHours: map[model.HourCategory]float64{
				model.CategoryDayRate:   45,
				model.CategoryNightRate: 5,
			},
		},
	}

	return &model.Result{
		Rows: rows,
		Departments: []model.DepartmentSummary{
			{
				Department:              "Kitchen",
				EmployeeCount:           1,
				PayrollHours:            30,
				TotalDifference:         30,
				EmployeesWithMismatches: 1,
				CategoryTotals:          map[model.HourCategory]float64{model.CategoryDayRate: 30},
			},
			{
				Department:      "Nursing",
				EmployeeCount:   1,
				TimesheetHours:  48.5,
				PayrollHours:    50,
				TotalDifference: 1.5,
				CategoryTotals: map[model.HourCategory]float64{
					model.CategoryDayRate:   45,
					model.CategoryNightRate: 5,
				},
			},
		},
		Breakdown: []model.CategoryBreakdownRow{
			{EmployeeID: 202, EmployeeName: "Mary Byrne", Department: "Kitchen", Category: model.CategoryDayRate, Hours: 30},
		},
		Stats: model.Statistics{
			TotalEmployees:          2,
			EmployeesInBothSystems:  1,
			EmployeesPayrollOnly:    1,
			EmployeesWithMismatches: 1,
			CoverageRate:            50,
			TotalTimesheetHours:     48.5,
			TotalPayrollHours:       80,
			TotalDifference:         31.5,
			Tolerance:               2,
		},
		Alignment: model.PeriodAlignment{
			FirstPeriod: "2025-W01",
			LastPeriod:  "2025-W12",
			PeriodCount: 12,
		},
		RunAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	result := testResult()

	require.NoError(t, WriteWorkbook(result, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	assert.ElementsMatch(t, []string{
		SheetComparison, SheetAnomalies, SheetDepartments,
		SheetBreakdown, SheetCategorization, SheetStatistics,
	}, sheets)

	// Header carries the category columns after the fixed columns.
	header, err := f.GetRows(SheetComparison)
	require.NoError(t, err)
	require.NotEmpty(t, header)
	assert.Equal(t, "Employee ID", header[0][0])
	assert.Contains(t, header[0], "Day Rate")
	assert.Contains(t, header[0], "Night Rate")

	// Rows keep engine order: largest discrepancy first.
	name, err := f.GetCellValue(SheetComparison, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Mary Byrne", name)

	// Anomalies sheet holds only the mismatch.
	anomalies, err := f.GetRows(SheetAnomalies)
	require.NoError(t, err)
	assert.Len(t, anomalies, 2) // header + one row

	// Statistics sheet is key/value.
	metric, err := f.GetCellValue(SheetStatistics, "A2")
	require.NoError(t, err)
	assert.Equal(t, "total_employees", metric)
}

func TestWriteComparisonCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeComparisonCSV(testResult(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, "Employee ID", header[0])
	assert.Equal(t, "Mismatch Flag", header[6])
	assert.Contains(t, header, "Night Rate")

	first := records[1]
	assert.Equal(t, "202", first[0])
	assert.Equal(t, "30.00", first[5])
	assert.Equal(t, "true", first[6])
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, testResult())

	out := buf.String()
	assert.Contains(t, out, "Total Employees:            2")
	assert.Contains(t, out, "50.0% coverage")
	assert.Contains(t, out, "Mary Byrne")
	assert.Contains(t, out, "Department Summary")
	assert.Contains(t, out, "confirm the payroll export covers the same range")
}

func TestWriteCategorizationCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categorization.csv")
	require.NoError(t, WriteCategorizationCSV(testResult(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Category", records[0][2])
	assert.Equal(t, "Terminated/Payroll Only", records[1][2])
	assert.Equal(t, "Active", records[2][2])
}

func TestPrintCategorization(t *testing.T) {
	var buf bytes.Buffer
	PrintCategorization(&buf, testResult())

	out := buf.String()
	assert.Contains(t, out, "Employee Activity Categorization")
	assert.Contains(t, out, "Active")
	assert.Contains(t, out, "Terminated/Payroll Only")
	// Terminated employees are listed individually for follow-up.
	assert.Contains(t, out, "Mary Byrne")
	assert.Contains(t, out, "payroll hours with no timesheet activity")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short string unchanged", in: "Kitchen", max: 16, want: "Kitchen"},
		{name: "ascii truncated with ellipsis", in: "Housekeeping and Laundry", max: 10, want: "Housekeep…"},
		{name: "multibyte name cut on rune boundary", in: "Siobhán Ní Mháille", max: 10, want: "Siobhán N…"},
		{name: "exact length unchanged", in: "Siobhán", max: 7, want: "Siobhán"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestDefaultWorkbookName(t *testing.T) {
	name := DefaultWorkbookName(time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC))
	assert.Equal(t, "hours_comparison_20250601_093000.xlsx", name)
}

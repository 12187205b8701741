// Package report renders reconciliation results for their consumers: a
// multi-sheet Excel workbook, CSV exports, and a styled console summary.
// Report assemblers only read model.Result; nothing here feeds back into
// the engine.
package report

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/staffhours/shiftrecon/internal/model"

	"github.com/xuri/excelize/v2"
)

// Worksheet names in the results workbook.
const (
	SheetComparison     = "Hours Comparison"
	SheetAnomalies      = "Anomalies"
	SheetDepartments    = "Department Summary"
	SheetBreakdown      = "Hour Category Breakdown"
	SheetCategorization = "Employee Categorization"
	SheetStatistics     = "Summary Statistics"
)

// DefaultWorkbookName returns the timestamped filename used when the caller
// does not choose one.
func DefaultWorkbookName(t time.Time) string {
	return fmt.Sprintf("hours_comparison_%s.xlsx", t.Format("20060102_150405"))
}

// WriteWorkbook saves the full reconciliation result as an Excel workbook.
func WriteWorkbook(result *model.Result, path string) error {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close workbook", "file", path, "error", cerr)
		}
	}()

	categories := usedCategories(result.Rows)

	if err := f.SetSheetName("Sheet1", SheetComparison); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeComparisonSheet(f, SheetComparison, result.Rows, categories); err != nil {
		return err
	}

	if err := addSheet(f, SheetAnomalies, func() error {
		return writeComparisonSheet(f, SheetAnomalies, result.Anomalies(), categories)
	}); err != nil {
		return err
	}
	if err := addSheet(f, SheetDepartments, func() error {
		return writeDepartmentSheet(f, result.Departments, categories)
	}); err != nil {
		return err
	}
	if err := addSheet(f, SheetBreakdown, func() error {
		return writeBreakdownSheet(f, result.Breakdown)
	}); err != nil {
		return err
	}
	if err := addSheet(f, SheetCategorization, func() error {
		return writeCategorizationSheet(f, result.Rows)
	}); err != nil {
		return err
	}
	if err := addSheet(f, SheetStatistics, func() error {
		return writeStatisticsSheet(f, result)
	}); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	slog.Info("Wrote results workbook", "file", path, "employees", len(result.Rows))
	return nil
}

func addSheet(f *excelize.File, name string, fill func() error) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}
	return fill()
}

// usedCategories lists, in canonical order, the categories that appear in
// at least one row. Categories the payroll export never mapped are omitted
// rather than rendered as all-zero columns.
func usedCategories(rows []model.ComparisonRow) []model.HourCategory {
	present := make(map[model.HourCategory]bool)
	for _, row := range rows {
		for cat := range row.CategoryHours {
			present[cat] = true
		}
	}

	var out []model.HourCategory
	for _, cat := range model.HourCategories() {
		if present[cat] {
			out = append(out, cat)
		}
	}
	return out
}

func comparisonHeader(categories []model.HourCategory) []any {
	header := []any{
		"Employee ID", "Employee Name", "Department",
		"Timesheet Hours", "Payroll Hours Total", "Total Difference", "Mismatch Flag",
		"Has Timesheet Data", "Has Payroll Data", "In Both Systems",
	}
	for _, cat := range categories {
		header = append(header, cat.String())
	}
	return header
}

func comparisonValues(row *model.ComparisonRow, categories []model.HourCategory) []any {
	values := []any{
		row.EmployeeID, row.EmployeeName, row.Department,
		row.TimesheetHoursTotal, row.PayrollHoursTotal, row.Difference, row.Mismatch,
		row.HasTimesheetData, row.HasPayrollData, row.InBothSystems,
	}
	for _, cat := range categories {
		values = append(values, row.CategoryHoursFor(cat))
	}
	return values
}

func writeComparisonSheet(f *excelize.File, sheet string, rows []model.ComparisonRow, categories []model.HourCategory) error {
	if err := setRow(f, sheet, 1, comparisonHeader(categories)); err != nil {
		return err
	}
	for i := range rows {
		if err := setRow(f, sheet, i+2, comparisonValues(&rows[i], categories)); err != nil {
			return err
		}
	}
	return nil
}

func writeDepartmentSheet(f *excelize.File, departments []model.DepartmentSummary, categories []model.HourCategory) error {
	header := []any{
		"Department", "Employee Count", "Total Timesheet Hours",
		"Total Payroll Hours", "Total Difference", "Employees with Mismatches",
	}
	for _, cat := range categories {
		header = append(header, cat.String()+" Total")
	}
	if err := setRow(f, SheetDepartments, 1, header); err != nil {
		return err
	}

	for i, dept := range departments {
		values := []any{
			dept.Department, dept.EmployeeCount, dept.TimesheetHours,
			dept.PayrollHours, dept.TotalDifference, dept.EmployeesWithMismatches,
		}
		for _, cat := range categories {
			values = append(values, dept.CategoryTotals[cat])
		}
		if err := setRow(f, SheetDepartments, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeBreakdownSheet(f *excelize.File, breakdown []model.CategoryBreakdownRow) error {
	header := []any{"Employee ID", "Employee Name", "Department", "Hour Category", "Hours", "Timesheet Hours"}
	if err := setRow(f, SheetBreakdown, 1, header); err != nil {
		return err
	}
	for i, row := range breakdown {
		values := []any{row.EmployeeID, row.EmployeeName, row.Department, row.Category.String(), row.Hours, row.TimesheetHours}
		if err := setRow(f, SheetBreakdown, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeCategorizationSheet(f *excelize.File, rows []model.ComparisonRow) error {
	header := []any{
		"Employee ID", "Employee Name", "Category", "Reason",
		"Timesheet Hours", "Payroll Hours Total", "Total Difference", "Department",
	}
	if err := setRow(f, SheetCategorization, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		values := []any{
			row.EmployeeID, row.EmployeeName, string(row.ActivityCategory), row.ActivityReason,
			row.TimesheetHoursTotal, row.PayrollHoursTotal, row.Difference, row.Department,
		}
		if err := setRow(f, SheetCategorization, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeStatisticsSheet(f *excelize.File, result *model.Result) error {
	stats := result.Stats
	entries := []struct {
		key   string
		value any
	}{
		{"total_employees", stats.TotalEmployees},
		{"employees_in_both_systems", stats.EmployeesInBothSystems},
		{"coverage_rate", stats.CoverageRate},
		{"employees_timesheet_only", stats.EmployeesTimesheetOnly},
		{"employees_payroll_only", stats.EmployeesPayrollOnly},
		{"employees_with_mismatches", stats.EmployeesWithMismatches},
		{"total_timesheet_hours", stats.TotalTimesheetHours},
		{"total_payroll_hours", stats.TotalPayrollHours},
		{"total_difference", stats.TotalDifference},
		{"tolerance", stats.Tolerance},
		{"timesheet_first_period", result.Alignment.FirstPeriod},
		{"timesheet_last_period", result.Alignment.LastPeriod},
		{"timesheet_period_count", result.Alignment.PeriodCount},
		{"payroll_range_verified", result.Alignment.RangeVerified},
	}

	if err := setRow(f, SheetStatistics, 1, []any{"Metric", "Value"}); err != nil {
		return err
	}
	for i, entry := range entries {
		if err := setRow(f, SheetStatistics, i+2, []any{entry.key, entry.value}); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("invalid cell coordinates (%d,%d): %w", col+1, row, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

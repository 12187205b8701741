package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/staffhours/shiftrecon/internal/cli"
	"github.com/staffhours/shiftrecon/internal/model"
)

// topDiscrepancies is how many anomalies the console summary lists.
const topDiscrepancies = 10

// PrintSummary renders the reconciliation summary to w.
func PrintSummary(w io.Writer, result *model.Result) {
	stats := result.Stats

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.FormatTitle("Timesheet vs Payroll Comparison"))
	fmt.Fprintln(w, strings.Repeat("─", 64))

	fmt.Fprintf(w, "  Total Employees:            %d\n", stats.TotalEmployees)
	fmt.Fprintf(w, "  In Both Systems:            %d (%.1f%% coverage)\n",
		stats.EmployeesInBothSystems, stats.CoverageRate)
	fmt.Fprintf(w, "  Timesheet Only:             %d\n", stats.EmployeesTimesheetOnly)
	fmt.Fprintf(w, "  Payroll Only:               %d\n", stats.EmployeesPayrollOnly)
	fmt.Fprintf(w, "  Mismatches (>%.1fh):         %d\n", stats.Tolerance, stats.EmployeesWithMismatches)
	if stats.TotalEmployees > 0 {
		fmt.Fprintf(w, "  Mismatch Rate:              %.1f%%\n",
			float64(stats.EmployeesWithMismatches)/float64(stats.TotalEmployees)*100)
	}
	fmt.Fprintf(w, "  Total Timesheet Hours:      %.1f\n", stats.TotalTimesheetHours)
	fmt.Fprintf(w, "  Total Payroll Hours:        %.1f\n", stats.TotalPayrollHours)
	fmt.Fprintf(w, "  Total Difference:           %+.1f hours\n", stats.TotalDifference)

	printAlignmentWarning(w, result.Alignment)
	printTopDiscrepancies(w, result)
	printDepartments(w, result.Departments)
}

// printAlignmentWarning surfaces the period-coverage caveat. The payroll
// export has no weekly breakdown, so the two ranges can never be confirmed
// equal from the data itself.
func printAlignmentWarning(w io.Writer, alignment model.PeriodAlignment) {
	if alignment.PeriodCount == 0 || alignment.RangeVerified {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf(
		"Timesheet data covers %s to %s (%d weeks); confirm the payroll export covers the same range before acting on differences.",
		alignment.FirstPeriod, alignment.LastPeriod, alignment.PeriodCount)))
}

func printTopDiscrepancies(w io.Writer, result *model.Result) {
	anomalies := result.Anomalies()
	if len(anomalies) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, cli.FormatSuccess("No discrepancies above tolerance."))
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.BoldStyle.Render(fmt.Sprintf("Top %d Largest Discrepancies", topDiscrepancies)))
	fmt.Fprintf(w, "  %-6s %-28s %-16s %10s %10s %10s\n",
		"ID", "Employee", "Department", "Timesheet", "Payroll", "Diff")

	for i, row := range anomalies {
		if i >= topDiscrepancies {
			break
		}
		line := fmt.Sprintf("  %-6d %-28s %-16s %10.1f %10.1f %+10.1f",
			row.EmployeeID, truncate(row.EmployeeName, 28), truncate(row.Department, 16),
			row.TimesheetHoursTotal, row.PayrollHoursTotal, row.Difference)
		if math.Abs(row.Difference) > 2*result.Stats.Tolerance {
			line = cli.ErrorStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}

func printDepartments(w io.Writer, departments []model.DepartmentSummary) {
	if len(departments) == 0 {
		return
	}

	sorted := make([]model.DepartmentSummary, len(departments))
	copy(sorted, departments)
	sort.Slice(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].TotalDifference) > math.Abs(sorted[j].TotalDifference)
	})

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.BoldStyle.Render("Department Summary"))
	fmt.Fprintf(w, "  %-20s %6s %12s %12s %10s %9s\n",
		"Department", "Staff", "Timesheet", "Payroll", "Diff", "Mismatch")
	for _, dept := range sorted {
		fmt.Fprintf(w, "  %-20s %6d %12.1f %12.1f %+10.1f %9d\n",
			truncate(dept.Department, 20), dept.EmployeeCount,
			dept.TimesheetHours, dept.PayrollHours, dept.TotalDifference,
			dept.EmployeesWithMismatches)
	}
}

// PrintCategorization renders the activity categorization summary to w:
// per-category counts plus the employees in the categories that usually need
// a manual follow-up.
func PrintCategorization(w io.Writer, result *model.Result) {
	counts := make(map[model.ActivityCategory]int)
	for _, row := range result.Rows {
		counts[row.ActivityCategory]++
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.FormatTitle("Employee Activity Categorization"))
	fmt.Fprintln(w, strings.Repeat("─", 64))

	for _, cat := range model.ActivityCategories() {
		if counts[cat] == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-26s %5d\n", string(cat), counts[cat])
	}
	fmt.Fprintf(w, "  %-26s %5d\n", "Total", len(result.Rows))

	printCategoryMembers(w, result, model.ActivityTerminated)
	printCategoryMembers(w, result, model.ActivityTimesheetOnly)
}

func printCategoryMembers(w io.Writer, result *model.Result, cat model.ActivityCategory) {
	var members []model.ComparisonRow
	for _, row := range result.Rows {
		if row.ActivityCategory == cat {
			members = append(members, row)
		}
	}
	if len(members) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.BoldStyle.Render(string(cat)))
	for _, row := range members {
		fmt.Fprintf(w, "  %-6d %-28s %-16s %s\n",
			row.EmployeeID, truncate(row.EmployeeName, 28), truncate(row.Department, 16), row.ActivityReason)
	}
}

// truncate shortens s to max runes, never cutting inside a multibyte
// character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

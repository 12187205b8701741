package engine

import (
	"sort"

	"github.com/staffhours/shiftrecon/internal/model"
)

// unassignedDepartment buckets rows whose department could not be resolved
// from either source.
const unassignedDepartment = "Unassigned"

// departmentSummaries re-aggregates the comparison table by department.
// Pure re-aggregation: no values are derived that are not already in the rows.
func departmentSummaries(rows []model.ComparisonRow) []model.DepartmentSummary {
	byDept := make(map[string]*model.DepartmentSummary)

	for _, row := range rows {
		dept := row.Department
		if dept == "" {
			dept = unassignedDepartment
		}

		summary, ok := byDept[dept]
		if !ok {
			summary = &model.DepartmentSummary{
				Department:     dept,
				CategoryTotals: make(map[model.HourCategory]float64),
			}
			byDept[dept] = summary
		}

		summary.EmployeeCount++
		summary.TimesheetHours += row.TimesheetHoursTotal
		summary.PayrollHours += row.PayrollHoursTotal
		summary.TotalDifference += row.Difference
		if row.Mismatch {
			summary.EmployeesWithMismatches++
		}
		for cat, hrs := range row.CategoryHours {
			summary.CategoryTotals[cat] += hrs
		}
	}

	out := make([]model.DepartmentSummary, 0, len(byDept))
	for _, summary := range byDept {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Department < out[j].Department
	})
	return out
}

// categoryBreakdown flattens the payroll category hours into one row per
// employee/category pair, in canonical category order. Categories the
// payroll export never mapped do not appear.
func categoryBreakdown(rows []model.ComparisonRow) []model.CategoryBreakdownRow {
	var out []model.CategoryBreakdownRow

	for _, row := range rows {
		if row.CategoryHours == nil {
			continue
		}
		for _, cat := range model.HourCategories() {
			hrs, ok := row.CategoryHours[cat]
			if !ok {
				continue
			}
			out = append(out, model.CategoryBreakdownRow{
				EmployeeID:     row.EmployeeID,
				EmployeeName:   row.EmployeeName,
				Department:     row.Department,
				Category:       cat,
				Hours:          hrs,
				TimesheetHours: row.TimesheetHoursTotal,
			})
		}
	}

	return out
}

package model

import "time"

// ActivityCategory classifies an employee's engagement pattern from their
// weekly timesheet participation and presence in each system.
type ActivityCategory string

// Activity categories assigned by the reconciliation engine.
const (
	ActivityActive          ActivityCategory = "Active"
	ActivityInactiveMinimal ActivityCategory = "Inactive/Minimal"
	ActivityModerate        ActivityCategory = "Moderate Activity"
	ActivityNoTimesheet     ActivityCategory = "Inactive/No Timesheet"
	ActivityNewEmployee     ActivityCategory = "New Employee"
	ActivityTimesheetOnly   ActivityCategory = "Timesheet Only"
	ActivityTerminated      ActivityCategory = "Terminated/Payroll Only"
	ActivityUnknown         ActivityCategory = "Unknown"
)

// ActivityCategories returns all categories in reporting order.
func ActivityCategories() []ActivityCategory {
	return []ActivityCategory{
		ActivityActive,
		ActivityModerate,
		ActivityInactiveMinimal,
		ActivityNewEmployee,
		ActivityNoTimesheet,
		ActivityTimesheetOnly,
		ActivityTerminated,
		ActivityUnknown,
	}
}

// ComparisonRow is the reconciled view of one employee across both systems.
// Exactly one row exists per employee ID seen in either source.
type ComparisonRow struct {
	CategoryHours       map[HourCategory]float64
	EmployeeName        string
	Department          string
	ActivityCategory    ActivityCategory
	ActivityReason      string
	EmployeeID          int
	TimesheetHoursTotal float64
	PayrollHoursTotal   float64
	Difference          float64
	Mismatch            bool
	HasTimesheetData    bool
	HasPayrollData      bool
	InBothSystems       bool
}

// CategoryHoursFor returns the payroll hours recorded against one category,
// or zero when the employee has no payroll data.
func (r *ComparisonRow) CategoryHoursFor(cat HourCategory) float64 {
	if r.CategoryHours == nil {
		return 0
	}
	return r.CategoryHours[cat]
}

// Statistics summarizes a reconciliation run.
type Statistics struct {
	TotalEmployees          int
	EmployeesInBothSystems  int
	EmployeesTimesheetOnly  int
	EmployeesPayrollOnly    int
	EmployeesWithMismatches int
	CoverageRate            float64
	TotalTimesheetHours     float64
	TotalPayrollHours       float64
	TotalDifference         float64
	Tolerance               float64
}

// PeriodAlignment reports the timesheet date coverage so that consumers can
// judge whether the payroll export's range actually matches it. Payroll
// exports carry no weekly granularity, so this can only ever be a warning,
// never an automatic correction.
type PeriodAlignment struct {
	FirstPeriod   string
	LastPeriod    string
	PeriodCount   int
	RangeVerified bool
}

// DepartmentSummary re-aggregates comparison rows for one department.
type DepartmentSummary struct {
	CategoryTotals          map[HourCategory]float64
	Department              string
	EmployeeCount           int
	EmployeesWithMismatches int
	TimesheetHours          float64
	PayrollHours            float64
	TotalDifference         float64
}

// CategoryBreakdownRow is one employee/category pair from the payroll side.
type CategoryBreakdownRow struct {
	EmployeeName   string
	Department     string
	Category       HourCategory
	Hours          float64
	TimesheetHours float64
	EmployeeID     int
}

// Result bundles everything a reconciliation run produces.
type Result struct {
	Rows            []ComparisonRow
	Departments     []DepartmentSummary
	Breakdown       []CategoryBreakdownRow
	Stats           Statistics
	Alignment       PeriodAlignment
	TimesheetSource string
	PayrollSource   string
	RunAt           time.Time
}

// Anomalies returns only the rows flagged as mismatches.
func (r *Result) Anomalies() []ComparisonRow {
	var out []ComparisonRow
	for _, row := range r.Rows {
		if row.Mismatch {
			out = append(out, row)
		}
	}
	return out
}

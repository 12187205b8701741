// Package engine implements the reconciliation engine that aligns timesheet
// and payroll records by employee identity and derives the comparison table,
// summary statistics, and activity classification.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/staffhours/shiftrecon/internal/common"
	"github.com/staffhours/shiftrecon/internal/model"
)

// Config holds the reconciliation thresholds. Every value that earlier
// variants of this analysis hard-coded is explicit here.
type Config struct {
	// Tolerance is the absolute hours difference above which an employee is
	// flagged as a mismatch. The threshold is exclusive: a difference equal
	// to the tolerance is not a mismatch.
	Tolerance float64
	// CurrentYear is the "analysis as-of" boundary: a timesheet-only
	// employee whose earliest period falls in this year or later is
	// classified as a new employee rather than a leaver.
	CurrentYear int
	// ActiveMinPeriods and ActiveMinHours gate the Active classification.
	ActiveMinPeriods int
	ActiveMinHours   float64
	// MinimalMaxPeriods and MinimalMaxHours gate Inactive/Minimal: fewer
	// periods than the first or fewer hours than the second qualifies.
	MinimalMaxPeriods int
	MinimalMaxHours   float64
}

// DefaultConfig returns the thresholds used by the standard analysis run.
func DefaultConfig() Config {
	return Config{
		Tolerance:         2.0,
		CurrentYear:       time.Now().UTC().Year(),
		ActiveMinPeriods:  10,
		ActiveMinHours:    100,
		MinimalMaxPeriods: 5,
		MinimalMaxHours:   50,
	}
}

// Validate checks the configuration for values that would make the
// classification degenerate.
func (c Config) Validate() error {
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be non-negative, got %.2f", common.ErrInvalidConfig, c.Tolerance)
	}
	if c.CurrentYear < 1900 {
		return fmt.Errorf("%w: current year %d is implausible", common.ErrInvalidConfig, c.CurrentYear)
	}
	return nil
}

// Engine reconciles the two normalized record sets.
type Engine struct {
	cfg Config
}

// New creates an engine with the given configuration.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// timesheetAgg is the per-employee aggregate of weekly timesheet records,
// including the auxiliary activity statistics used by classification.
type timesheetAgg struct {
	periods      map[string]struct{}
	name         string
	department   string
	earliestYear int
	earliestWeek int
	totalHours   float64
}

// payrollAgg is the per-employee payroll aggregate. The export is expected
// to hold one row per employee, but aggregation is defensive.
type payrollAgg struct {
	categories map[model.HourCategory]float64
	name       string
	department string
	totalHours float64
}

// Reconcile outer-joins the two sources on employee ID and produces the full
// reconciliation result. The output holds exactly one row per distinct
// employee ID seen in either source.
func (e *Engine) Reconcile(timesheets []model.TimesheetRecord, payrolls []model.PayrollRecord) (*model.Result, error) {
	if len(timesheets) == 0 && len(payrolls) == 0 {
		return nil, common.ErrNoRecords
	}

	tsAgg := aggregateTimesheets(timesheets)
	prAgg := aggregatePayrolls(payrolls)

	ids := unionIDs(tsAgg, prAgg)

	rows := make([]model.ComparisonRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, e.buildRow(id, tsAgg[id], prAgg[id]))
	}

	// Largest discrepancies first; employee ID breaks ties so output is
	// stable between runs.
	sort.Slice(rows, func(i, j int) bool {
		di, dj := math.Abs(rows[i].Difference), math.Abs(rows[j].Difference)
		if di != dj {
			return di > dj
		}
		return rows[i].EmployeeID < rows[j].EmployeeID
	})

	result := &model.Result{
		Rows:      rows,
		Stats:     e.computeStatistics(rows),
		Alignment: periodAlignment(tsAgg),
		RunAt:     time.Now().UTC(),
	}
	result.Departments = departmentSummaries(rows)
	result.Breakdown = categoryBreakdown(rows)

	slog.Info("Reconciliation complete",
		"employees", result.Stats.TotalEmployees,
		"in_both", result.Stats.EmployeesInBothSystems,
		"mismatches", result.Stats.EmployeesWithMismatches,
		"tolerance", e.cfg.Tolerance)

	return result, nil
}

func aggregateTimesheets(records []model.TimesheetRecord) map[int]*timesheetAgg {
	out := make(map[int]*timesheetAgg)
	for _, rec := range records {
		agg, ok := out[rec.EmployeeID]
		if !ok {
			agg = &timesheetAgg{periods: make(map[string]struct{})}
			out[rec.EmployeeID] = agg
		}

		agg.totalHours += rec.TotalHours
		if agg.name == "" {
			agg.name = rec.EmployeeName
		}
		if agg.department == "" {
			agg.department = rec.Department
		}

		if rec.PeriodKey == "" {
			continue
		}
		agg.periods[rec.PeriodKey] = struct{}{}
		if year, week, err := model.ParsePeriodKey(rec.PeriodKey); err == nil {
			if agg.earliestYear == 0 || year < agg.earliestYear ||
				(year == agg.earliestYear && week < agg.earliestWeek) {
				agg.earliestYear = year
				agg.earliestWeek = week
			}
		}
	}
	return out
}

func aggregatePayrolls(records []model.PayrollRecord) map[int]*payrollAgg {
	out := make(map[int]*payrollAgg)
	for _, rec := range records {
		agg, ok := out[rec.EmployeeID]
		if !ok {
			agg = &payrollAgg{categories: make(map[model.HourCategory]float64)}
			out[rec.EmployeeID] = agg
		}

		agg.totalHours += rec.TotalHours
		for cat, hrs := range rec.CategoryHours {
			agg.categories[cat] += hrs
		}
		if agg.name == "" {
			agg.name = rec.EmployeeName
		}
		if agg.department == "" {
			agg.department = rec.Department
		}
	}
	return out
}

func unionIDs(ts map[int]*timesheetAgg, pr map[int]*payrollAgg) []int {
	seen := make(map[int]struct{}, len(ts)+len(pr))
	for id := range ts {
		seen[id] = struct{}{}
	}
	for id := range pr {
		seen[id] = struct{}{}
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (e *Engine) buildRow(id int, ts *timesheetAgg, pr *payrollAgg) model.ComparisonRow {
	row := model.ComparisonRow{EmployeeID: id}

	if ts != nil {
		row.TimesheetHoursTotal = ts.totalHours
		row.EmployeeName = ts.name
		row.Department = ts.department
	}
	if pr != nil {
		row.PayrollHoursTotal = pr.totalHours
		row.CategoryHours = pr.categories
		// Timesheet value takes precedence for display fields.
		if row.EmployeeName == "" {
			row.EmployeeName = pr.name
		}
		if row.Department == "" {
			row.Department = pr.department
		}
	}

	row.Difference = row.PayrollHoursTotal - row.TimesheetHoursTotal
	row.Mismatch = math.Abs(row.Difference) > e.cfg.Tolerance
	row.HasTimesheetData = row.TimesheetHoursTotal > 0
	row.HasPayrollData = row.PayrollHoursTotal > 0
	row.InBothSystems = row.HasTimesheetData && row.HasPayrollData

	row.ActivityCategory, row.ActivityReason = e.classify(&row, ts)

	return row
}

// classify applies the activity heuristics to one employee using the
// auxiliary timesheet statistics (distinct period count, summed hours,
// earliest period).
func (e *Engine) classify(row *model.ComparisonRow, ts *timesheetAgg) (model.ActivityCategory, string) {
	switch {
	case row.InBothSystems:
		if ts == nil || len(ts.periods) == 0 {
			// The join says this employee has timesheet hours but the
			// auxiliary stats found no periods. A data-quality signal,
			// not a crash.
			return model.ActivityNoTimesheet, "in both systems but no timesheet periods found"
		}

		periods := len(ts.periods)
		hours := ts.totalHours

		if periods >= e.cfg.ActiveMinPeriods && hours > e.cfg.ActiveMinHours {
			return model.ActivityActive,
				fmt.Sprintf("%d periods, %.1f timesheet hours", periods, hours)
		}
		if periods < e.cfg.MinimalMaxPeriods || hours < e.cfg.MinimalMaxHours {
			return model.ActivityInactiveMinimal,
				fmt.Sprintf("only %d periods / %.1f timesheet hours", periods, hours)
		}
		return model.ActivityModerate,
			fmt.Sprintf("%d periods, %.1f timesheet hours", periods, hours)

	case row.HasTimesheetData:
		if ts != nil && ts.earliestYear >= e.cfg.CurrentYear && ts.earliestYear > 0 {
			return model.ActivityNewEmployee,
				fmt.Sprintf("first timesheet period %s, not yet in payroll", model.PeriodKey(ts.earliestYear, ts.earliestWeek))
		}
		return model.ActivityTimesheetOnly, "timesheet hours with no payroll record"

	case row.HasPayrollData:
		return model.ActivityTerminated, "payroll hours with no timesheet activity"
	}

	return model.ActivityUnknown, "no hours recorded in either system"
}

func (e *Engine) computeStatistics(rows []model.ComparisonRow) model.Statistics {
	stats := model.Statistics{
		TotalEmployees: len(rows),
		Tolerance:      e.cfg.Tolerance,
	}

	for _, row := range rows {
		stats.TotalTimesheetHours += row.TimesheetHoursTotal
		stats.TotalPayrollHours += row.PayrollHoursTotal
		stats.TotalDifference += row.Difference

		switch {
		case row.InBothSystems:
			stats.EmployeesInBothSystems++
		case row.HasTimesheetData:
			stats.EmployeesTimesheetOnly++
		case row.HasPayrollData:
			stats.EmployeesPayrollOnly++
		}

		if row.Mismatch {
			stats.EmployeesWithMismatches++
		}
	}

	if stats.TotalEmployees > 0 {
		stats.CoverageRate = float64(stats.EmployeesInBothSystems) / float64(stats.TotalEmployees) * 100
	}

	return stats
}

// periodAlignment summarizes the timesheet date coverage. Payroll exports
// carry no weekly granularity, so the payroll range can never be confirmed
// equal to the timesheet range from the data alone; RangeVerified stays
// false and consumers surface it as a warning.
func periodAlignment(ts map[int]*timesheetAgg) model.PeriodAlignment {
	distinct := make(map[string]struct{})
	for _, agg := range ts {
		for p := range agg.periods {
			distinct[p] = struct{}{}
		}
	}

	keys := make([]string, 0, len(distinct))
	for p := range distinct {
		keys = append(keys, p)
	}
	sort.Strings(keys)

	alignment := model.PeriodAlignment{PeriodCount: len(keys)}
	if len(keys) > 0 {
		alignment.FirstPeriod = keys[0]
		alignment.LastPeriod = keys[len(keys)-1]
	}
	return alignment
}

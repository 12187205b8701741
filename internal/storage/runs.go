package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/staffhours/shiftrecon/internal/common"
	"github.com/staffhours/shiftrecon/internal/model"
)

// SaveRun persists a reconciliation run and its comparison rows in one
// transaction.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.Run) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run must have an ID")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stats := run.Stats
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, run_at, timesheet_source, payroll_source, tolerance,
			total_employees, employees_in_both, employees_timesheet_only,
			employees_payroll_only, employees_with_mismatches, coverage_rate,
			total_timesheet_hours, total_payroll_hours, total_difference,
			first_period, last_period, period_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.RunAt, run.TimesheetSource, run.PayrollSource, stats.Tolerance,
		stats.TotalEmployees, stats.EmployeesInBothSystems, stats.EmployeesTimesheetOnly,
		stats.EmployeesPayrollOnly, stats.EmployeesWithMismatches, stats.CoverageRate,
		stats.TotalTimesheetHours, stats.TotalPayrollHours, stats.TotalDifference,
		run.Alignment.FirstPeriod, run.Alignment.LastPeriod, run.Alignment.PeriodCount,
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO comparison_rows (
			run_id, employee_id, employee_name, department,
			timesheet_hours, payroll_hours, difference, mismatch,
			has_timesheet, has_payroll, in_both,
			activity_category, activity_reason, category_hours
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range run.Rows {
		row := &run.Rows[i]

		categoryJSON, err := json.Marshal(row.CategoryHours)
		if err != nil {
			return fmt.Errorf("failed to encode category hours for employee %d: %w", row.EmployeeID, err)
		}

		if _, err := stmt.ExecContext(ctx,
			run.ID, row.EmployeeID, row.EmployeeName, row.Department,
			row.TimesheetHoursTotal, row.PayrollHoursTotal, row.Difference, row.Mismatch,
			row.HasTimesheetData, row.HasPayrollData, row.InBothSystems,
			string(row.ActivityCategory), row.ActivityReason, string(categoryJSON),
		); err != nil {
			return fmt.Errorf("failed to insert comparison row for employee %d: %w", row.EmployeeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun loads one run and its comparison rows. Department summaries and
// category breakdowns are not stored; callers that need them re-derive from
// the rows.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*model.Run, error) {
	run := &model.Run{ID: id}
	stats := &run.Stats

	err := s.db.QueryRowContext(ctx, `
		SELECT run_at, timesheet_source, payroll_source, tolerance,
			total_employees, employees_in_both, employees_timesheet_only,
			employees_payroll_only, employees_with_mismatches, coverage_rate,
			total_timesheet_hours, total_payroll_hours, total_difference,
			first_period, last_period, period_count
		FROM runs WHERE id = ?`, id).Scan(
		&run.RunAt, &run.TimesheetSource, &run.PayrollSource, &stats.Tolerance,
		&stats.TotalEmployees, &stats.EmployeesInBothSystems, &stats.EmployeesTimesheetOnly,
		&stats.EmployeesPayrollOnly, &stats.EmployeesWithMismatches, &stats.CoverageRate,
		&stats.TotalTimesheetHours, &stats.TotalPayrollHours, &stats.TotalDifference,
		&run.Alignment.FirstPeriod, &run.Alignment.LastPeriod, &run.Alignment.PeriodCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, employee_name, department,
			timesheet_hours, payroll_hours, difference, mismatch,
			has_timesheet, has_payroll, in_both,
			activity_category, activity_reason, category_hours
		FROM comparison_rows WHERE run_id = ?
		ORDER BY ABS(difference) DESC, employee_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load comparison rows for run %s: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var row model.ComparisonRow
		var category, categoryJSON string

		if err := rows.Scan(
			&row.EmployeeID, &row.EmployeeName, &row.Department,
			&row.TimesheetHoursTotal, &row.PayrollHoursTotal, &row.Difference, &row.Mismatch,
			&row.HasTimesheetData, &row.HasPayrollData, &row.InBothSystems,
			&category, &row.ActivityReason, &categoryJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comparison row: %w", err)
		}

		row.ActivityCategory = model.ActivityCategory(category)
		if categoryJSON != "" && categoryJSON != "null" {
			if err := json.Unmarshal([]byte(categoryJSON), &row.CategoryHours); err != nil {
				return nil, fmt.Errorf("failed to decode category hours for employee %d: %w", row.EmployeeID, err)
			}
		}

		run.Rows = append(run.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading comparison rows: %w", err)
	}

	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_at, timesheet_source, payroll_source,
			total_employees, employees_with_mismatches, total_difference, tolerance
		FROM runs ORDER BY run_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.RunSummary
	for rows.Next() {
		var summary model.RunSummary
		if err := rows.Scan(
			&summary.ID, &summary.RunAt, &summary.TimesheetSource, &summary.PayrollSource,
			&summary.TotalEmployees, &summary.Mismatches, &summary.TotalDifference, &summary.Tolerance,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading run summaries: %w", err)
	}

	return out, nil
}

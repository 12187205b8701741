package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS runs (
					id TEXT PRIMARY KEY,
					run_at DATETIME NOT NULL,
					timesheet_source TEXT,
					payroll_source TEXT,
					tolerance REAL NOT NULL,
					total_employees INTEGER NOT NULL,
					employees_in_both INTEGER NOT NULL,
					employees_timesheet_only INTEGER NOT NULL,
					employees_payroll_only INTEGER NOT NULL,
					employees_with_mismatches INTEGER NOT NULL,
					coverage_rate REAL NOT NULL,
					total_timesheet_hours REAL NOT NULL,
					total_payroll_hours REAL NOT NULL,
					total_difference REAL NOT NULL,
					first_period TEXT,
					last_period TEXT,
					period_count INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_runs_run_at ON runs(run_at)`,

				`CREATE TABLE IF NOT EXISTS comparison_rows (
					run_id TEXT NOT NULL,
					employee_id INTEGER NOT NULL,
					employee_name TEXT NOT NULL,
					department TEXT,
					timesheet_hours REAL NOT NULL,
					payroll_hours REAL NOT NULL,
					difference REAL NOT NULL,
					mismatch INTEGER NOT NULL,
					has_timesheet INTEGER NOT NULL,
					has_payroll INTEGER NOT NULL,
					in_both INTEGER NOT NULL,
					activity_category TEXT NOT NULL,
					activity_reason TEXT,
					category_hours TEXT,
					PRIMARY KEY (run_id, employee_id),
					FOREIGN KEY (run_id) REFERENCES runs(id)
				)`,
				`CREATE INDEX idx_comparison_rows_run ON comparison_rows(run_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Index mismatches for anomaly queries",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_comparison_rows_mismatch ON comparison_rows(run_id, mismatch)`)
			return err
		},
	},
}

// Migrate applies any schema migrations the database has not yet seen.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`,
			m.Version, m.Description); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		slog.Info("Applied migration", "version", m.Version, "description", m.Description)
	}

	return nil
}

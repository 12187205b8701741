package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/staffhours/shiftrecon/internal/common"
	"github.com/staffhours/shiftrecon/internal/engine"
	"github.com/staffhours/shiftrecon/internal/model"
	"github.com/staffhours/shiftrecon/internal/service"
	"github.com/staffhours/shiftrecon/internal/storage"
	"github.com/staffhours/shiftrecon/internal/timesheet"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// expandFiles expands glob patterns and collects all matching files. A
// pattern that matches nothing but names an existing file is accepted as-is.
func expandFiles(patterns []string) ([]string, error) {
	var allFiles []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}
	return allFiles, nil
}

// loadTimesheets loads every timesheet source, dispatching on extension:
// .csv is a combined master export, anything else a weekly workbook.
func loadTimesheets(paths []string, sheetName string) ([]model.TimesheetRecord, error) {
	loader := timesheet.NewLoader()
	loader.SheetName = sheetName
	if hr := viper.GetInt("timesheet.header_row"); hr > 0 {
		loader.HeaderRow = hr
	}

	var records []model.TimesheetRecord
	var droppedNoID, droppedNoName int

	for _, path := range paths {
		var result *timesheet.LoadResult
		var err error

		if strings.EqualFold(filepath.Ext(path), ".csv") {
			result, err = timesheet.LoadMasterCSV(path)
		} else {
			result, err = loader.LoadWorkbook(path)
		}
		if err != nil {
			return nil, err
		}

		records = append(records, result.Records...)
		droppedNoID += result.DroppedNoID
		droppedNoName += result.DroppedNoName
	}

	slog.Info("Loaded timesheet data",
		"files", len(paths),
		"records", len(records),
		"dropped_no_id", droppedNoID,
		"dropped_no_name", droppedNoName)

	return records, nil
}

// engineConfigFromFlags builds the reconciliation config from flags, with
// viper supplying file/env defaults.
func engineConfigFromFlags(cmd *cobra.Command) engine.Config {
	cfg := engine.DefaultConfig()

	if tolerance := viper.GetFloat64("reconcile.tolerance"); tolerance > 0 {
		cfg.Tolerance = tolerance
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Tolerance, _ = cmd.Flags().GetFloat64("tolerance")
	}
	if cmd.Flags().Changed("current-year") {
		cfg.CurrentYear, _ = cmd.Flags().GetInt("current-year")
	} else if year := viper.GetInt("reconcile.current_year"); year > 0 {
		cfg.CurrentYear = year
	}

	return cfg
}

// addReconcileFlags registers the flags shared by the commands that run the
// full pipeline.
func addReconcileFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("timesheet", "t", nil, "timesheet file(s): weekly .xlsx exports or a combined master .csv (globs allowed)")
	cmd.Flags().StringP("payroll", "p", "", "payroll workbook (.xlsx)")
	cmd.Flags().String("payroll-sheet", "", "payroll worksheet name (default: first sheet)")
	cmd.Flags().String("timesheet-sheet", "", "timesheet worksheet name (default: first sheet)")
	cmd.Flags().Float64("tolerance", 2.0, "hours difference above which an employee is flagged")
	cmd.Flags().Int("current-year", 0, "analysis as-of year for new-employee classification (default: current year)")
	_ = cmd.MarkFlagRequired("timesheet")
	_ = cmd.MarkFlagRequired("payroll")
}

// openStorage opens the run-history database at the configured path and
// brings the schema up to date.
func openStorage(ctx context.Context) (service.Storage, error) {
	dbPath := common.ExpandPath(viper.GetString("storage.db"))
	if dbPath == "" {
		return nil, fmt.Errorf("no run history database path configured")
	}

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open run history database: %w", err)
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to migrate run history database: %w", err)
	}
	return s, nil
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/staffhours/shiftrecon/internal/engine"
	"github.com/staffhours/shiftrecon/internal/model"
	"github.com/staffhours/shiftrecon/internal/payroll"
	"github.com/staffhours/shiftrecon/internal/report"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile timesheet hours against payroll hours",
		Long: `Reconcile loads the timesheet and payroll exports, aligns employees by
their staff/sequence number, and reports per-employee hour differences.

Examples:
  # Weekly workbooks against one payroll export
  shiftrecon reconcile -t 'timesheets/*.xlsx' -p payroll.xlsx

  # Combined master CSV, custom tolerance, keep the run
  shiftrecon reconcile -t master.csv -p payroll.xlsx --tolerance 1.5 --save`,
		RunE: runReconcile,
	}

	addReconcileFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "results workbook path (default: hours_comparison_<timestamp>.xlsx)")
	cmd.Flags().String("csv", "", "also write the comparison table as CSV")
	cmd.Flags().Bool("no-workbook", false, "skip writing the results workbook")
	cmd.Flags().Bool("save", false, "persist the run to the history database")

	return cmd
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	result, err := runPipeline(cmd)
	if err != nil {
		return err
	}

	noWorkbook, _ := cmd.Flags().GetBool("no-workbook")
	if !noWorkbook {
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = report.DefaultWorkbookName(time.Now())
		}
		if err := report.WriteWorkbook(result, output); err != nil {
			return err
		}
	}

	if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
		if err := report.WriteComparisonCSV(result, csvPath); err != nil {
			return err
		}
	}

	report.PrintSummary(os.Stdout, result)

	if save, _ := cmd.Flags().GetBool("save"); save {
		if err := saveRun(cmd, result); err != nil {
			return err
		}
	}

	return nil
}

// runPipeline performs load + reconcile and is shared with the categorize
// command.
func runPipeline(cmd *cobra.Command) (*model.Result, error) {
	patterns, _ := cmd.Flags().GetStringSlice("timesheet")
	payrollPath, _ := cmd.Flags().GetString("payroll")

	timesheetFiles, err := expandFiles(patterns)
	if err != nil {
		return nil, err
	}
	if len(timesheetFiles) == 0 {
		return nil, fmt.Errorf("no timesheet files found")
	}

	timesheetSheet, _ := cmd.Flags().GetString("timesheet-sheet")
	timesheets, err := loadTimesheets(timesheetFiles, timesheetSheet)
	if err != nil {
		return nil, err
	}

	payrollLoader := payroll.NewLoader()
	payrollLoader.SheetName, _ = cmd.Flags().GetString("payroll-sheet")
	if hr := viper.GetInt("payroll.header_row"); hr > 0 {
		payrollLoader.HeaderRow = hr
	}
	payrollResult, err := payrollLoader.LoadWorkbook(payrollPath)
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded payroll data",
		"file", payrollPath,
		"records", len(payrollResult.Records),
		"categories", len(payrollResult.CategoryColumns),
		"dropped_no_id", payrollResult.DroppedNoID,
		"dropped_no_name", payrollResult.DroppedNoName)

	eng, err := engine.New(engineConfigFromFlags(cmd))
	if err != nil {
		return nil, err
	}

	result, err := eng.Reconcile(timesheets, payrollResult.Records)
	if err != nil {
		return nil, err
	}

	result.TimesheetSource = joinSources(timesheetFiles)
	result.PayrollSource = payrollPath

	return result, nil
}

func saveRun(cmd *cobra.Command, result *model.Result) error {
	store, err := openStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			slog.Warn("Failed to close run history database", "error", cerr)
		}
	}()

	run := &model.Run{ID: uuid.New().String(), Result: *result}
	if err := store.SaveRun(cmd.Context(), run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	slog.Info("Saved reconciliation run", "run_id", run.ID)
	return nil
}

func joinSources(files []string) string {
	if len(files) == 1 {
		return files[0]
	}
	return fmt.Sprintf("%s (+%d more)", files[0], len(files)-1)
}

package main

import (
	"os"

	"github.com/staffhours/shiftrecon/internal/report"

	"github.com/spf13/cobra"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Categorize employee activity from timesheet and payroll data",
		Long: `Categorize runs the same load-and-reconcile pipeline as reconcile but
reports the employee activity view: who is active, who has gone quiet, who
appears in only one system, and who looks newly started or terminated.

Examples:
  shiftrecon categorize -t master.csv -p payroll.xlsx
  shiftrecon categorize -t 'timesheets/*.xlsx' -p payroll.xlsx --csv categorization.csv`,
		RunE: runCategorize,
	}

	addReconcileFlags(cmd)
	cmd.Flags().String("csv", "", "write the categorization table as CSV")

	return cmd
}

func runCategorize(cmd *cobra.Command, _ []string) error {
	result, err := runPipeline(cmd)
	if err != nil {
		return err
	}

	if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
		if err := report.WriteCategorizationCSV(result, csvPath); err != nil {
			return err
		}
	}

	report.PrintCategorization(os.Stdout, result)
	return nil
}

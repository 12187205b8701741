package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/staffhours/shiftrecon/internal/cli"
	"github.com/staffhours/shiftrecon/internal/report"
	"github.com/staffhours/shiftrecon/internal/service"

	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect saved reconciliation runs",
	}

	cmd.AddCommand(runsListCmd())
	cmd.AddCommand(runsShowCmd())

	return cmd
}

func runsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			return withStorage(cmd, func(store service.Storage) error {
				summaries, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(summaries) == 0 {
					fmt.Println("No saved runs.")
					return nil
				}

				fmt.Println(cli.BoldStyle.Render(fmt.Sprintf("%-36s  %-16s  %9s  %10s  %10s",
					"Run ID", "Run At", "Employees", "Mismatches", "Diff")))
				for _, s := range summaries {
					fmt.Printf("%-36s  %-16s  %9d  %10d  %+10.1f\n",
						s.ID, s.RunAt.Format("2006-01-02 15:04"),
						s.TotalEmployees, s.Mismatches, s.TotalDifference)
				}
				return nil
			})
		},
	}

	cmd.Flags().Int("limit", 20, "maximum number of runs to list")
	return cmd
}

func runsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the summary of one saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd, func(store service.Storage) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				fmt.Printf("Run %s (%s)\n", run.ID, run.RunAt.Format("2006-01-02 15:04"))
				fmt.Printf("  Timesheets: %s\n", run.TimesheetSource)
				fmt.Printf("  Payroll:    %s\n", run.PayrollSource)
				report.PrintSummary(os.Stdout, &run.Result)
				return nil
			})
		},
	}
}

func withStorage(cmd *cobra.Command, fn func(service.Storage) error) error {
	store, err := openStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			slog.Warn("Failed to close run history database", "error", cerr)
		}
	}()

	return fn(store)
}

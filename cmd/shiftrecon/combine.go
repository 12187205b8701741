package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/staffhours/shiftrecon/internal/cli"
	"github.com/staffhours/shiftrecon/internal/model"
	"github.com/staffhours/shiftrecon/internal/timesheet"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func combineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combine [files or globs]",
		Short: "Combine weekly timesheet workbooks into one master CSV",
		Long: `Combine reads every weekly timesheet workbook, tags each record with its
reporting week (taken from the YYYY-WNN token in the filename), and writes
them as a single master CSV that reconcile and categorize accept directly.

Examples:
  shiftrecon combine 'timesheets/*.xlsx' -o master.csv
  shiftrecon combine week1.xlsx week2.xlsx week3.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCombine,
	}

	cmd.Flags().StringP("output", "o", "master_timesheets.csv", "output CSV path")
	cmd.Flags().String("sheet", "", "worksheet name (default: first sheet)")

	return cmd
}

func runCombine(cmd *cobra.Command, args []string) error {
	files, err := expandFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no timesheet workbooks found")
	}

	loader := timesheet.NewLoader()
	loader.SheetName, _ = cmd.Flags().GetString("sheet")
	if hr := viper.GetInt("timesheet.header_row"); hr > 0 {
		loader.HeaderRow = hr
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Combining timesheets"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var records []model.TimesheetRecord
	var droppedNoID, droppedNoName int
	weeks := make(map[string]bool)

	for _, file := range files {
		result, err := loader.LoadWorkbook(file)
		if err != nil {
			return err
		}

		records = append(records, result.Records...)
		droppedNoID += result.DroppedNoID
		droppedNoName += result.DroppedNoName
		for _, rec := range result.Records {
			weeks[rec.PeriodKey] = true
		}

		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if len(records) == 0 {
		return fmt.Errorf("no usable timesheet rows in %d file(s)", len(files))
	}

	output, _ := cmd.Flags().GetString("output")
	if err := timesheet.WriteMasterCSV(records, output); err != nil {
		return err
	}

	slog.Info("Combined timesheet workbooks",
		"files", len(files),
		"weeks", len(weeks),
		"records", len(records),
		"dropped_no_id", droppedNoID,
		"dropped_no_name", droppedNoName)

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Combined %d file(s) covering %d week(s) into %s (%d records)",
		len(files), len(weeks), output, len(records))))

	return nil
}

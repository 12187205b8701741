package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/staffhours/shiftrecon/internal/model"
)

// WriteComparisonCSV writes the comparison table as CSV with the same
// columns as the workbook's comparison sheet.
func WriteComparisonCSV(result *model.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close CSV", "file", path, "error", cerr)
		}
	}()

	if err := writeComparisonCSV(result, f); err != nil {
		return err
	}

	slog.Info("Wrote comparison CSV", "file", path, "employees", len(result.Rows))
	return nil
}

func writeComparisonCSV(result *model.Result, w io.Writer) error {
	categories := usedCategories(result.Rows)

	cw := csv.NewWriter(w)
	if err := cw.Write(toStrings(comparisonHeader(categories))); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range result.Rows {
		if err := cw.Write(toStrings(comparisonValues(&result.Rows[i], categories))); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCategorizationCSV writes the per-employee activity categorization with
// the same columns as the workbook's categorization sheet.
func WriteCategorizationCSV(result *model.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close CSV", "file", path, "error", cerr)
		}
	}()

	cw := csv.NewWriter(f)
	header := []string{
		"Employee ID", "Employee Name", "Category", "Reason",
		"Timesheet Hours", "Payroll Hours Total", "Total Difference", "Department",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range result.Rows {
		row := &result.Rows[i]
		record := toStrings([]any{
			row.EmployeeID, row.EmployeeName, string(row.ActivityCategory), row.ActivityReason,
			row.TimesheetHoursTotal, row.PayrollHoursTotal, row.Difference, row.Department,
		})
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	slog.Info("Wrote categorization CSV", "file", path, "employees", len(result.Rows))
	return nil
}

func toStrings(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		switch val := v.(type) {
		case string:
			out[i] = val
		case int:
			out[i] = strconv.Itoa(val)
		case float64:
			out[i] = strconv.FormatFloat(val, 'f', 2, 64)
		case bool:
			out[i] = strconv.FormatBool(val)
		default:
			out[i] = fmt.Sprint(val)
		}
	}
	return out
}

package timesheet

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/staffhours/shiftrecon/internal/common"
	"github.com/staffhours/shiftrecon/internal/identity"
	"github.com/staffhours/shiftrecon/internal/model"
)

// Master CSV column headers, written by the combine command and accepted by
// LoadMasterCSV.
var masterHeader = []string{"Staff Number", "Name", "Department Name", "Total Hours", "YearWeek"}

// LoadMasterCSV reads a combined multi-week timesheet CSV. The same row
// filters apply as for workbook loads: rows without a positive staff number
// or a usable name are dropped and counted.
func LoadMasterCSV(path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("failed to open master timesheet CSV %s", path), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close CSV", "file", path, "error", cerr)
		}
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("failed to parse master timesheet CSV %s", path), err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrEmptySource, path)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"Staff Number", "Name", "Total Hours", "YearWeek"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%w: %q in %s", common.ErrMissingColumn, required, path)
		}
	}

	deptIdx := -1
	if i, ok := idx["Department Name"]; ok {
		deptIdx = i
	}

	result := &LoadResult{SourceFile: path}
	for _, row := range rows[1:] {
		id, ok := identity.ResolveID(cell(row, idx["Staff Number"]))
		if !ok {
			result.DroppedNoID++
			continue
		}
		name := identity.CleanName(cell(row, idx["Name"]))
		if name == "" {
			result.DroppedNoName++
			continue
		}

		rec := model.TimesheetRecord{
			EmployeeID:   id,
			EmployeeName: name,
			PeriodKey:    strings.TrimSpace(cell(row, idx["YearWeek"])),
			TotalHours:   ParseClockHours(cell(row, idx["Total Hours"])),
		}
		if deptIdx >= 0 {
			rec.Department = strings.TrimSpace(cell(row, deptIdx))
		}
		result.Records = append(result.Records, rec)
	}

	if result.DroppedNoID > 0 || result.DroppedNoName > 0 {
		slog.Info("Dropped invalid timesheet rows",
			"file", path,
			"no_staff_number", result.DroppedNoID,
			"blank_name", result.DroppedNoName)
	}

	return result, nil
}

// WriteMasterCSV writes records as a combined master CSV, sorted by period
// then staff number for stable diffs between runs.
func WriteMasterCSV(records []model.TimesheetRecord, path string) error {
	sorted := make([]model.TimesheetRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].PeriodKey != sorted[j].PeriodKey {
			return sorted[i].PeriodKey < sorted[j].PeriodKey
		}
		return sorted[i].EmployeeID < sorted[j].EmployeeID
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close CSV", "file", path, "error", cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(masterHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range sorted {
		row := []string{
			strconv.Itoa(rec.EmployeeID),
			rec.EmployeeName,
			rec.Department,
			strconv.FormatFloat(rec.TotalHours, 'f', 2, 64),
			rec.PeriodKey,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

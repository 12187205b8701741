// Package timesheet loads weekly scheduling exports into normalized records.
// All format-specific decoding lives here so the reconciliation engine only
// ever sees model.TimesheetRecord values.
package timesheet

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/staffhours/shiftrecon/internal/common"
	"github.com/staffhours/shiftrecon/internal/identity"
	"github.com/staffhours/shiftrecon/internal/model"

	"github.com/xuri/excelize/v2"
)

// Column headers the weekly workbook must carry. Department is optional.
const (
	colStaffNumber = "Staff Number"
	colName        = "Name"
	colDepartment  = "Department Name"
	colTotalHours  = "Total Hours"
)

// DefaultHeaderRow is the zero-based row index of the header row in the
// weekly workbook exports (four banner rows precede it).
const DefaultHeaderRow = 4

// LoadResult carries the normalized records plus the row-level drop counts
// that would otherwise be invisible data loss.
type LoadResult struct {
	SourceFile    string
	Records       []model.TimesheetRecord
	DroppedNoID   int
	DroppedNoName int
}

// Loader reads weekly timesheet workbooks.
type Loader struct {
	// SheetName selects the worksheet; empty means the first sheet.
	SheetName string
	// HeaderRow is the zero-based header row index.
	HeaderRow int
}

// NewLoader returns a Loader with the export's standard layout.
func NewLoader() *Loader {
	return &Loader{HeaderRow: DefaultHeaderRow}
}

var weekPattern = regexp.MustCompile(`(\d{4})-W(\d{1,2})`)

// WeekFromFilename extracts the reporting year and week from a weekly export
// filename such as "SunnybrookHouse-2024-W01.xlsx".
func WeekFromFilename(name string) (year, week int, ok bool) {
	m := weekPattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return 0, 0, false
	}
	year, _ = strconv.Atoi(m[1])
	week, _ = strconv.Atoi(m[2])
	return year, week, true
}

// LoadWorkbook parses one weekly workbook. The period key is taken from the
// filename; a filename without a week token is a structural error because
// every record needs a period for the activity statistics.
func (l *Loader) LoadWorkbook(path string) (*LoadResult, error) {
	year, week, ok := WeekFromFilename(path)
	if !ok {
		return nil, common.NewUserError(
			fmt.Sprintf("cannot determine reporting week from filename %q (expected a YYYY-WNN token)", filepath.Base(path)), nil)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("failed to open timesheet workbook %s", path), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close workbook", "file", path, "error", cerr)
		}
	}()

	sheet := l.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook %s has no sheets", common.ErrSheetNotFound, path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q in %s", common.ErrSheetNotFound, sheet, path)
	}

	return l.parseRows(rows, path, model.PeriodKey(year, week))
}

func (l *Loader) parseRows(rows [][]string, path, periodKey string) (*LoadResult, error) {
	if len(rows) <= l.HeaderRow {
		return nil, fmt.Errorf("%w: %s has no header row at index %d", common.ErrEmptySource, path, l.HeaderRow)
	}

	header := rows[l.HeaderRow]
	cols, err := locateColumns(header, path)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{SourceFile: filepath.Base(path)}
	for _, row := range rows[l.HeaderRow+1:] {
		id, ok := identity.ResolveID(cell(row, cols.staffNumber))
		if !ok {
			result.DroppedNoID++
			continue
		}

		name := identity.CleanName(cell(row, cols.name))
		if name == "" {
			result.DroppedNoName++
			continue
		}

		rec := model.TimesheetRecord{
			EmployeeID:   id,
			EmployeeName: name,
			PeriodKey:    periodKey,
			TotalHours:   ParseClockHours(cell(row, cols.totalHours)),
		}
		if cols.department >= 0 {
			rec.Department = strings.TrimSpace(cell(row, cols.department))
		}
		result.Records = append(result.Records, rec)
	}

	if result.DroppedNoID > 0 || result.DroppedNoName > 0 {
		slog.Info("Dropped invalid timesheet rows",
			"file", result.SourceFile,
			"no_staff_number", result.DroppedNoID,
			"blank_name", result.DroppedNoName)
	}

	return result, nil
}

type columnIndexes struct {
	staffNumber int
	name        int
	department  int
	totalHours  int
}

func locateColumns(header []string, path string) (columnIndexes, error) {
	cols := columnIndexes{staffNumber: -1, name: -1, department: -1, totalHours: -1}
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case colStaffNumber:
			cols.staffNumber = i
		case colName:
			cols.name = i
		case colDepartment:
			cols.department = i
		case colTotalHours:
			cols.totalHours = i
		}
	}

	for _, required := range []struct {
		label string
		idx   int
	}{
		{colStaffNumber, cols.staffNumber},
		{colName, cols.name},
		{colTotalHours, cols.totalHours},
	} {
		if required.idx < 0 {
			return cols, fmt.Errorf("%w: %q in %s", common.ErrMissingColumn, required.label, path)
		}
	}

	return cols, nil
}

// cell returns a row value by index, tolerating the ragged rows excelize
// produces when trailing cells are empty.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

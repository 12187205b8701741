// Package payroll loads the wide payroll export into normalized records with
// per-category hours. The export covers an arbitrary multi-week period with
// no weekly breakdown.
package payroll

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/staffhours/shiftrecon/internal/common"
	"github.com/staffhours/shiftrecon/internal/identity"
	"github.com/staffhours/shiftrecon/internal/model"

	"github.com/xuri/excelize/v2"
)

// Identity column headers in the payroll export.
const (
	colSequence = "Sequence"
	colForename = "Forename"
	colSurname  = "Surname"
	colDepart   = "Depart"
)

// DefaultHeaderRow is the zero-based header row index. Two rows above it the
// export carries a banner row naming the hour category over each Hrs/Gross
// column pair.
const DefaultHeaderRow = 4

// LoadResult carries the normalized records, the resolved category-to-column
// mapping, and the row-level drop counts.
type LoadResult struct {
	CategoryColumns map[model.HourCategory]int
	SourceFile      string
	Records         []model.PayrollRecord
	DroppedNoID     int
	DroppedNoName   int
}

// Loader reads payroll workbook exports.
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

// LoadWorkbook parses the payroll export. Missing identity columns or a
// complete absence of hour columns are structural errors: without the column
// vocabulary the reconciliation cannot proceed.
func (l *Loader) LoadWorkbook(path string) (*LoadResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("failed to open payroll workbook %s", path), err)
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

	return l.parseRows(rows, path)
}

func (l *Loader) parseRows(rows [][]string, path string) (*LoadResult, error) {
	if len(rows) <= l.HeaderRow {
		return nil, fmt.Errorf("%w: %s has no header row at index %d", common.ErrEmptySource, path, l.HeaderRow)
	}

	header := rows[l.HeaderRow]
	ids, err := locateIdentityColumns(header, path)
	if err != nil {
		return nil, err
	}

	var banner []string
	if l.HeaderRow >= 2 {
		banner = rows[l.HeaderRow-2]
	}
	categories, err := mapCategoryColumns(header, banner, path)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{
		SourceFile:      filepath.Base(path),
		CategoryColumns: categories,
	}

	for _, row := range rows[l.HeaderRow+1:] {
		id, ok := identity.ResolveID(cell(row, ids.sequence))
		if !ok {
			result.DroppedNoID++
			continue
		}

		name := identity.ComposeName(cell(row, ids.forename), cell(row, ids.surname))
		if name == "" {
			result.DroppedNoName++
			continue
		}

		rec := model.PayrollRecord{
			EmployeeID:    id,
			EmployeeName:  name,
			Department:    strings.TrimSpace(cell(row, ids.depart)),
			CategoryHours: make(map[model.HourCategory]float64, len(categories)),
		}
		for cat, idx := range categories {
			rec.CategoryHours[cat] = parseHours(cell(row, idx))
		}
		rec.TotalHours = rec.SumCategories()

		result.Records = append(result.Records, rec)
	}

	if result.DroppedNoID > 0 || result.DroppedNoName > 0 {
		slog.Info("Dropped invalid payroll rows",
			"file", result.SourceFile,
			"no_sequence_number", result.DroppedNoID,
			"blank_name", result.DroppedNoName)
	}

	return result, nil
}

type identityColumns struct {
	sequence int
	forename int
	surname  int
	depart   int
}

func locateIdentityColumns(header []string, path string) (identityColumns, error) {
	cols := identityColumns{sequence: -1, forename: -1, surname: -1, depart: -1}
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case colSequence:
			cols.sequence = i
		case colForename:
			cols.forename = i
		case colSurname:
			cols.surname = i
		case colDepart:
			cols.depart = i
		}
	}

	for _, required := range []struct {
		label string
		idx   int
	}{
		{colSequence, cols.sequence},
		{colForename, cols.forename},
		{colSurname, cols.surname},
	} {
		if required.idx < 0 {
			return cols, fmt.Errorf("%w: %q in %s", common.ErrMissingColumn, required.label, path)
		}
	}

	return cols, nil
}

// mapCategoryColumns builds the category-to-column mapping. Hour columns are
// the ones whose header contains "Hrs"; "Gross" monetary columns are never
// mapped. The banner row two rows above the header names the category over
// each Hrs/Gross pair; when a banner label matches the vocabulary it wins,
// otherwise columns map positionally onto the canonical category order.
// Hour columns beyond the vocabulary are ignored with a warning rather than
// silently dropped.
func mapCategoryColumns(header, banner []string, path string) (map[model.HourCategory]int, error) {
	known := make(map[string]model.HourCategory)
	for _, cat := range model.HourCategories() {
		known[normalizeLabel(string(cat))] = cat
	}

	ordered := model.HourCategories()
	mapped := make(map[model.HourCategory]int)
	positional := 0

	for i, h := range header {
		label := strings.TrimSpace(h)
		if !strings.Contains(label, "Hrs") || strings.Contains(label, "Gross") {
			continue
		}

		cat, ok := bannerCategory(banner, i, known)
		if !ok {
			if positional >= len(ordered) {
				slog.Warn("Ignoring unmapped hour column",
					"file", filepath.Base(path),
					"column", i,
					"header", label)
				continue
			}
			cat = ordered[positional]
		}

		if _, dup := mapped[cat]; dup {
			slog.Warn("Duplicate hour category column, keeping first",
				"file", filepath.Base(path),
				"category", cat,
				"column", i)
			continue
		}

		mapped[cat] = i
		positional++
	}

	if len(mapped) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrNoHourCategories, path)
	}

	return mapped, nil
}

// bannerCategory looks for a recognizable category label above an hour
// column. Merged banner cells surface their value in the leftmost cell, so
// the cell one to the left (over the Hrs/Gross pair) is checked too.
func bannerCategory(banner []string, col int, known map[string]model.HourCategory) (model.HourCategory, bool) {
	for _, idx := range []int{col, col - 1} {
		if idx < 0 || idx >= len(banner) {
			continue
		}
		if cat, ok := known[normalizeLabel(banner[idx])]; ok {
			return cat, true
		}
	}
	return "", false
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func parseHours(raw string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return 0
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil || val < 0 {
		return 0
	}
	return val
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

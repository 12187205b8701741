package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/staffhours/shiftrecon/internal/common"
	"github.com/staffhours/shiftrecon/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "shiftrecon.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testRun() *model.Run {
	run := &model.Run{ID: uuid.New().String()}
	run.RunAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	run.TimesheetSource = "master.csv"
	run.PayrollSource = "payroll.xlsx"
	run.Stats = model.Statistics{
		TotalEmployees:          2,
		EmployeesInBothSystems:  1,
		EmployeesPayrollOnly:    1,
		EmployeesWithMismatches: 1,
		CoverageRate:            50,
		TotalTimesheetHours:     48.5,
		TotalPayrollHours:       80,
		TotalDifference:         31.5,
		Tolerance:               2,
	}
	run.Alignment = model.PeriodAlignment{FirstPeriod: "2025-W01", LastPeriod: "2025-W12", PeriodCount: 12}
	run.Rows = []model.ComparisonRow{
		{
			EmployeeID:          202,
			EmployeeName:        "Mary Byrne",
			Department:          "Kitchen",
			PayrollHoursTotal:   30,
			Difference:          30,
			Mismatch:            true,
			HasPayrollData:      true,
			ActivityCategory:    model.ActivityTerminated,
			ActivityReason:      "payroll hours with no timesheet activity",
			CategoryHours:       map[model.HourCategory]float64{model.CategoryDayRate: 30},
		},
		{
			EmployeeID:          101,
			EmployeeName:        "John Smith",
			Department:          "Nursing",
			TimesheetHoursTotal: 48.5,
			PayrollHoursTotal:   50,
			Difference:          1.5,
			HasTimesheetData:    true,
			HasPayrollData:      true,
			InBothSystems:       true,
			ActivityCategory:    model.ActivityActive,
			CategoryHours: map[model.HourCategory]float64{
				model.CategoryDayRate:   45,
				model.CategoryNightRate: 5,
			},
		},
	}
	return run
}

func TestSaveAndGetRun(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	run := testRun()
	require.NoError(t, s.SaveRun(ctx, run))

	loaded, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.TimesheetSource, loaded.TimesheetSource)
	assert.Equal(t, run.Stats, loaded.Stats)
	assert.Equal(t, run.Alignment.FirstPeriod, loaded.Alignment.FirstPeriod)
	require.Len(t, loaded.Rows, 2)

	// Rows come back sorted by absolute difference.
	first := loaded.Rows[0]
	assert.Equal(t, 202, first.EmployeeID)
	assert.True(t, first.Mismatch)
	assert.Equal(t, model.ActivityTerminated, first.ActivityCategory)
	assert.InDelta(t, 30.0, first.CategoryHours[model.CategoryDayRate], 1e-9)

	second := loaded.Rows[1]
	assert.True(t, second.InBothSystems)
	assert.InDelta(t, 5.0, second.CategoryHours[model.CategoryNightRate], 1e-9)
}

func TestGetRunNotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetRun(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListRuns(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	older := testRun()
	older.RunAt = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, older))

	newer := testRun()
	newer.ID = uuid.New().String()
	newer.RunAt = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, newer))

	summaries, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, newer.ID, summaries[0].ID)
	assert.Equal(t, older.ID, summaries[1].ID)
	assert.Equal(t, 2, summaries[0].TotalEmployees)
	assert.Equal(t, 1, summaries[0].Mismatches)
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Migrate(context.Background()))
}

func TestSaveRunRequiresID(t *testing.T) {
	s := newTestStorage(t)

	err := s.SaveRun(context.Background(), &model.Run{})
	assert.Error(t, err)
}

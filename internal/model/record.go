// Package model defines the canonical record shapes shared by the loaders,
// the reconciliation engine, and the report assemblers.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TimesheetRecord is one employee's hours for one reporting week, normalized
// from a scheduling export row. Many records exist per employee, one per week.
type TimesheetRecord struct {
	EmployeeName string
	Department   string
	PeriodKey    string
	EmployeeID   int
	TotalHours   float64
}

// PayrollRecord is one employee's hours for the payroll export's entire
// covered period, broken into pay-rate categories. The export has no weekly
// granularity, which is the fundamental asymmetry with timesheet data.
type PayrollRecord struct {
	CategoryHours map[HourCategory]float64
	EmployeeName  string
	Department    string
	EmployeeID    int
	TotalHours    float64
}

// SumCategories recomputes the record total from its category hours.
func (r *PayrollRecord) SumCategories() float64 {
	var total float64
	for _, hrs := range r.CategoryHours {
		total += hrs
	}
	return total
}

// PeriodKey formats a year and ISO-style week number as the reporting period
// token used throughout, e.g. "2024-W01".
func PeriodKey(year, week int) string {
	return fmt.Sprintf("%d-W%02d", year, week)
}

// ParsePeriodKey splits a "YYYY-WNN" token into its year and week.
func ParsePeriodKey(key string) (year, week int, err error) {
	parts := strings.SplitN(key, "-W", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid period key %q", key)
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid period key %q: %w", key, err)
	}
	week, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid period key %q: %w", key, err)
	}
	return year, week, nil
}

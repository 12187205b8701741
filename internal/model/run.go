package model

import "time"

// Run is a persisted reconciliation run: the full result plus its identity.
type Run struct {
	ID string
	Result
}

// RunSummary is the listing view of a persisted run.
type RunSummary struct {
	ID              string
	TimesheetSource string
	PayrollSource   string
	RunAt           time.Time
	TotalEmployees  int
	Mismatches      int
	TotalDifference float64
	Tolerance       float64
}

// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/staffhours/shiftrecon/internal/model"
)

// Storage defines the contract for the run-history persistence layer.
type Storage interface {
	// SaveRun persists a reconciliation run and all its comparison rows.
	SaveRun(ctx context.Context, run *model.Run) error
	// GetRun loads one run by ID, including its comparison rows.
	GetRun(ctx context.Context, id string) (*model.Run, error)
	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error)
	// Migrate brings the schema up to the expected version.
	Migrate(ctx context.Context) error
	// Close releases the underlying database handle.
	Close() error
}

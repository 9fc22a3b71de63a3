package domain

import "time"

// ReconcileRun records one execution of the periodic drift scan.
// Runs are persisted so operators can audit how the index converged
// after crashes or dropped dispatch triggers.
type ReconcileRun struct {
	// ID is the unique identifier for the run.
	ID string

	// TenantKey identifies the working copy scanned.
	TenantKey string

	// StartedAt is when the scan started.
	StartedAt time.Time

	// EndedAt is when the scan (and any applied actions) completed.
	EndedAt time.Time

	// Success indicates whether the run completed without error.
	Success bool

	// Error contains the failure message if Success is false.
	Error string

	// NewCount, ModifiedCount and DeletedCount summarise the drift found.
	NewCount      int
	ModifiedCount int
	DeletedCount  int

	// ActionsApplied counts how many prescribed actions were executed.
	ActionsApplied int
}

package domain

import "time"

// IndexResult reports the outcome of indexing a single document.
// Input errors are recorded here rather than raised, so one bad file
// never aborts the batch it arrived in.
type IndexResult struct {
	// Path is the root-relative document path.
	Path string

	// DocumentID is the stored document's identity, empty on failure.
	DocumentID string

	// Success is true when the document and its chunks were stored.
	Success bool

	// ChunkCount is the number of chunks written.
	ChunkCount int

	// Errors lists fatal problems for this document.
	Errors []string

	// Warnings lists non-fatal observations (missing type, unknown
	// fields, malformed header).
	Warnings []string

	// Duration is the wall-clock indexing time.
	Duration time.Duration
}

// Failed marks the result unsuccessful and records the reason.
func (r *IndexResult) Failed(reason string) {
	r.Success = false
	r.Errors = append(r.Errors, reason)
}

// RemoveResult reports the outcome of removing a single document.
type RemoveResult struct {
	// Path is the root-relative document path.
	Path string

	// Success is true when the record and derived state were removed.
	Success bool

	// Errors lists problems encountered during removal.
	Errors []string

	// Warnings lists non-fatal observations.
	Warnings []string
}

// ReconcileOp is the action reconciliation prescribes for one path.
type ReconcileOp string

// Reconcile actions.
const (
	// ReconcileIndex indexes a file with no repository record.
	ReconcileIndex ReconcileOp = "index"

	// ReconcileReindex re-indexes a file whose timestamps drifted.
	ReconcileReindex ReconcileOp = "reindex"

	// ReconcileRemove deletes a repository record with no backing file.
	ReconcileRemove ReconcileOp = "remove"
)

// ReconcileAction pairs a path with the action that heals its drift.
type ReconcileAction struct {
	// Path is the absolute file path (repository records are mapped
	// back under the scanned root).
	Path string

	// Op is the prescribed action.
	Op ReconcileOp
}

// ReconcileReport is the complete drift report for one root.
// Producing the report has no side effects; callers apply the actions.
type ReconcileReport struct {
	// Root is the scanned root path.
	Root string

	// ScannedFiles is the number of on-disk files that passed the filter.
	ScannedFiles int

	// NewCount, ModifiedCount and DeletedCount classify the actions.
	NewCount      int
	ModifiedCount int
	DeletedCount  int

	// Actions lists every prescribed action, one per drifted path.
	Actions []ReconcileAction

	// StartedAt and Duration time the scan.
	StartedAt time.Time
	Duration  time.Duration
}

// InSync returns true when no drift was detected.
func (r *ReconcileReport) InSync() bool {
	return len(r.Actions) == 0
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// historyStore implements driven.ReconcileHistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.ReconcileHistoryStore = (*historyStore)(nil)

// RecordRun logs a completed reconciliation run.
func (s *historyStore) RecordRun(ctx context.Context, run *domain.ReconcileRun) error {
	if run == nil {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO reconcile_runs (id, tenant_key, started_at, ended_at, success, error, new_count, modified_count, deleted_count, actions_applied)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.TenantKey,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.EndedAt.UTC().Format(time.RFC3339),
		boolToInt(run.Success),
		nullString(run.Error),
		run.NewCount, run.ModifiedCount, run.DeletedCount, run.ActionsApplied)

	if err != nil {
		return fmt.Errorf("recording reconcile run: %w", err)
	}
	return nil
}

// LastRun returns the most recent run for a tenant.
// Returns nil and no error when no run was recorded yet.
func (s *historyStore) LastRun(ctx context.Context, tenantKey string) (*domain.ReconcileRun, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, tenant_key, started_at, ended_at, success, error, new_count, modified_count, deleted_count, actions_applied
		FROM reconcile_runs
		WHERE tenant_key = ?
		ORDER BY started_at DESC
		LIMIT 1
	`, tenantKey)
	if err != nil {
		return nil, fmt.Errorf("querying last run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterating last run: %w", err)
		}
		return nil, nil
	}
	return scanReconcileRun(rows)
}

// RecentRuns returns recent runs for a tenant, ordered by start time
// descending (most recent first).
func (s *historyStore) RecentRuns(ctx context.Context, tenantKey string, limit int) ([]domain.ReconcileRun, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, tenant_key, started_at, ended_at, success, error, new_count, modified_count, deleted_count, actions_applied
		FROM reconcile_runs
		WHERE tenant_key = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, tenantKey, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.ReconcileRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanReconcileRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recent runs: %w", err)
	}

	return runs, nil
}

// PruneRuns removes old runs beyond the retention limit.
// Keeps the most recent 'keep' runs per tenant.
func (s *historyStore) PruneRuns(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}

	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM reconcile_runs
		WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY tenant_key ORDER BY started_at DESC) as rn
				FROM reconcile_runs
			) WHERE rn <= ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning reconcile runs: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// scanReconcileRun scans a reconcile run from *sql.Rows.
func scanReconcileRun(rows *sql.Rows) (*domain.ReconcileRun, error) {
	var run domain.ReconcileRun
	var startedAt, endedAt string
	var success int
	var errMsg sql.NullString

	if err := rows.Scan(&run.ID, &run.TenantKey, &startedAt, &endedAt,
		&success, &errMsg, &run.NewCount, &run.ModifiedCount, &run.DeletedCount,
		&run.ActionsApplied); err != nil {
		return nil, fmt.Errorf("scanning reconcile run: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
		run.StartedAt = t
	}
	if t, err := time.Parse(time.RFC3339, endedAt); err == nil {
		run.EndedAt = t
	}
	run.Success = success == 1
	if errMsg.Valid {
		run.Error = errMsg.String
	}

	return &run, nil
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

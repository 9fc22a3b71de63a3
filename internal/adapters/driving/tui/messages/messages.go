// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docsync/internal/core/domain"
)

// StatusTicked fires on the dashboard refresh interval.
type StatusTicked struct{}

// WatchStatusLoaded carries a watcher snapshot.
type WatchStatusLoaded struct {
	Root    string
	Active  bool
	Pending int
}

// TenantLoaded carries the tenant label for the status bar.
type TenantLoaded struct {
	Tenant string
	Err    error
}

// HistoryLoaded carries recent reconciliation runs, most recent first.
type HistoryLoaded struct {
	Runs []domain.ReconcileRun
	Err  error
}

// ReconcileCompleted carries the outcome of a manual reconciliation.
type ReconcileCompleted struct {
	Report *domain.ReconcileReport
	Err    error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// Package tui provides a live activity dashboard for docsync.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Watch reports the live watcher state.
	Watch driving.WatchService

	// Reconcile runs manual drift repair.
	Reconcile driving.ReconcileOrchestrator

	// History supplies recent reconciliation runs. Optional; without
	// it the activity feed shows only manual runs.
	History driving.Scheduler

	// Settings resolves the tenant label for the status bar. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(watch driving.WatchService, reconcile driving.ReconcileOrchestrator) *Ports {
	return &Ports{
		Watch:     watch,
		Reconcile: reconcile,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Watch == nil {
		return ErrMissingWatchService
	}
	if p.Reconcile == nil {
		return ErrMissingReconcileOrchestrator
	}
	return nil
}

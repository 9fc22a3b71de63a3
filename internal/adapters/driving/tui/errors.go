package tui

import "errors"

// ErrMissingWatchService is returned when the watch service is not provided.
var ErrMissingWatchService = errors.New("tui: watch service is required")

// ErrMissingReconcileOrchestrator is returned when the reconcile orchestrator is not provided.
var ErrMissingReconcileOrchestrator = errors.New("tui: reconcile orchestrator is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")

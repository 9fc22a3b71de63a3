package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

func driftReport() *domain.ReconcileReport {
	return &domain.ReconcileReport{
		Root:          "/docs",
		ScannedFiles:  5,
		NewCount:      1,
		ModifiedCount: 1,
		DeletedCount:  1,
		Actions: []domain.ReconcileAction{
			{Path: "notes/new.md", Op: domain.ReconcileIndex},
			{Path: "notes/changed.md", Op: domain.ReconcileReindex},
			{Path: "notes/gone.md", Op: domain.ReconcileRemove},
		},
		Duration: 42 * time.Millisecond,
	}
}

func TestReconcileCmd_Use(t *testing.T) {
	assert.Equal(t, "reconcile", reconcileCmd.Use)
}

func TestReconcileCmd_Short(t *testing.T) {
	assert.Equal(t, "Detect and repair index drift", reconcileCmd.Short)
}

func TestReconcileCmd_HasApplyFlag(t *testing.T) {
	flag := reconcileCmd.Flags().Lookup("apply")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestReconcileCmd_NotConfigured(t *testing.T) {
	Configure(Services{})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"reconcile"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reconcile service not configured")
}

func TestReconcileCmd_PlanInSync(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"reconcile"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "In sync: 3 files scanned, no drift.")
}

func TestReconcileCmd_PlanWithDrift(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var planned, applied bool
	reconcileOrchestrator = &MockReconcileOrchestrator{
		PlanFunc: func(_ context.Context) (*domain.ReconcileReport, error) {
			planned = true
			return driftReport(), nil
		},
		RunFunc: func(_ context.Context) (*domain.ReconcileReport, error) {
			applied = true
			return driftReport(), nil
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"reconcile"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.True(t, planned)
	assert.False(t, applied)
	output := buf.String()
	assert.Contains(t, output, "Scanned 5 files")
	assert.Contains(t, output, "new: 1  modified: 1  deleted: 1")
	assert.Contains(t, output, "index")
	assert.Contains(t, output, "notes/new.md")
	assert.Contains(t, output, "Run with --apply to execute these actions.")
}

func TestReconcileCmd_Apply(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var applied bool
	reconcileOrchestrator = &MockReconcileOrchestrator{
		RunFunc: func(_ context.Context) (*domain.ReconcileReport, error) {
			applied = true
			return driftReport(), nil
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"reconcile", "--apply"})
	defer func() {
		rootCmd.SetArgs(nil)
		reconcileApply = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.True(t, applied)
	assert.Contains(t, buf.String(), "Applied 3 actions.")
}

func TestReconcileCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	reconcileOrchestrator = &MockReconcileOrchestrator{
		PlanFunc: func(_ context.Context) (*domain.ReconcileReport, error) {
			return driftReport(), nil
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"reconcile", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
		reconcileJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\"ScannedFiles\": 5")
	assert.Contains(t, buf.String(), "notes/new.md")
}

func TestReconcileCmd_PlanError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	reconcileOrchestrator = &MockReconcileOrchestrator{
		PlanFunc: func(_ context.Context) (*domain.ReconcileReport, error) {
			return nil, errors.New("root unreadable")
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"reconcile"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "root unreadable")
}

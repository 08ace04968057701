// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/devpick/schema"
)

// StoreManager defines the interface for reaching the configured run store.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
}

// RunStore defines the interface for tracking allocation runs and the buildings they chose.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, targetUnits int, seed uint64, configParams map[string]any) (string, error)

	// RecordBuilding stores one chosen building for a run
	RecordBuilding(runID string, building schema.Building) error

	// EndRun updates the run with its outcome
	EndRun(runID string, endTime time.Time, result *schema.PickResult) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllBuildings returns every recorded building
	GetAllBuildings() ([]schema.BuildingRecord, error)

	// Close closes the underlying connection
	Close() error
}

package runstore

import (
	"time"

	"github.com/huangsam/devpick/internal/contract"
	"github.com/huangsam/devpick/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(startTime time.Time, targetUnits int, seed uint64, configParams map[string]any) (string, error) {
	args := m.Called(startTime, targetUnits, seed, configParams)
	return args.String(0), args.Error(1)
}

// RecordBuilding implements the RunStore interface.
func (m *MockRunStore) RecordBuilding(runID string, building schema.Building) error {
	args := m.Called(runID, building)
	return args.Error(0)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID string, endTime time.Time, result *schema.PickResult) error {
	args := m.Called(runID, endTime, result)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RunRecord)
	return records, args.Error(1)
}

// GetAllBuildings implements the RunStore interface.
func (m *MockRunStore) GetAllBuildings() ([]schema.BuildingRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.BuildingRecord)
	return records, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

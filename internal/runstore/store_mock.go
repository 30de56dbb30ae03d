package runstore

import (
	"time"

	"github.com/huangsam/scoretools/internal/contract"
	"github.com/huangsam/scoretools/schema"
	"github.com/stretchr/testify/mock"
)

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(startTime time.Time, command, source string, params map[string]any) (string, error) {
	args := m.Called(startTime, command, source, params)
	return args.String(0), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID string, endTime time.Time, rowCount int) error {
	args := m.Called(runID, endTime, rowCount)
	return args.Error(0)
}

// RecordTable implements the RunStore interface.
func (m *MockRunStore) RecordTable(runID, variable string, kind schema.TableKind, rows int, summary map[string]any) error {
	args := m.Called(runID, variable, kind, rows, summary)
	return args.Error(0)
}

// GetRuns implements the RunStore interface.
func (m *MockRunStore) GetRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RunRecord)
	return records, args.Error(1)
}

// GetRunTables implements the RunStore interface.
func (m *MockRunStore) GetRunTables(runID string) ([]schema.RunTableRecord, error) {
	args := m.Called(runID)
	records, _ := args.Get(0).([]schema.RunTableRecord)
	return records, args.Error(1)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStatus), args.Error(1)
}

// Clear implements the RunStore interface.
func (m *MockRunStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"foretime/internal/infrastructure/errors"
	"foretime/internal/repository"
	"foretime/internal/types"
)

// MockRepository implements the UsageRepository interface for testing
type MockRepository struct {
	mu               sync.RWMutex
	inserted         []types.UsageRecord
	seeded           []types.FlushedUsage
	insertCallCount  int
	recentCallCount  int
	knownCallCount   int
	deleteCallCount  int
	transactionCalls int
	shouldFailInsert bool
	shouldFailRecent bool
	shouldFailKnown  bool
	shouldFailDelete bool
}

var _ repository.UsageRepository = (*MockRepository)(nil)

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

// SetFailureModes configures the mock to simulate failures
func (m *MockRepository) SetFailureModes(insert, recent, known, deleteOld bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailInsert = insert
	m.shouldFailRecent = recent
	m.shouldFailKnown = known
	m.shouldFailDelete = deleteOld
}

// SeedKnownTargets sets what GetKnownTargets returns
func (m *MockRepository) SeedKnownTargets(targets []types.FlushedUsage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seeded = append([]types.FlushedUsage(nil), targets...)
}

// GetCallCounts returns the number of times each method was called
func (m *MockRepository) GetCallCounts() (insert, recent, known, deleteOld, tx int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.insertCallCount, m.recentCallCount, m.knownCallCount, m.deleteCallCount, m.transactionCalls
}

// InsertedRecords returns a copy of everything BatchInsertUsage accepted
func (m *MockRepository) InsertedRecords() []types.UsageRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]types.UsageRecord(nil), m.inserted...)
}

// BatchInsertUsage implements UsageRepository interface
func (m *MockRepository) BatchInsertUsage(ctx context.Context, records []types.UsageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insertCallCount++

	if m.shouldFailInsert {
		return errors.NewStorageError("BatchInsertUsage", fmt.Errorf("mock insert failure"), errors.ErrCodeConnection)
	}

	m.inserted = append(m.inserted, records...)
	return nil
}

// GetRecentActivity implements UsageRepository interface
func (m *MockRepository) GetRecentActivity(ctx context.Context, since time.Time, limit int) ([]types.UsageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.recentCallCount++

	if m.shouldFailRecent {
		return nil, errors.NewStorageError("GetRecentActivity", fmt.Errorf("mock read failure"), errors.ErrCodeConnection)
	}

	// Newest first, like the real repository.
	var result []types.UsageRecord
	for i := len(m.inserted) - 1; i >= 0 && len(result) < limit; i-- {
		if m.inserted[i].Timestamp >= since.Unix() {
			result = append(result, m.inserted[i])
		}
	}
	if result == nil {
		result = []types.UsageRecord{}
	}
	return result, nil
}

// GetKnownTargets implements UsageRepository interface
func (m *MockRepository) GetKnownTargets(ctx context.Context, since time.Time) ([]types.FlushedUsage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.knownCallCount++

	if m.shouldFailKnown {
		return nil, errors.NewStorageError("GetKnownTargets", fmt.Errorf("mock read failure"), errors.ErrCodeConnection)
	}

	return append([]types.FlushedUsage(nil), m.seeded...), nil
}

// DeleteOlderThan implements UsageRepository interface
func (m *MockRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleteCallCount++

	if m.shouldFailDelete {
		return 0, errors.NewStorageError("DeleteOlderThan", fmt.Errorf("mock delete failure"), errors.ErrCodeConnection)
	}

	var kept []types.UsageRecord
	var deleted int64
	for _, record := range m.inserted {
		if record.Timestamp < cutoff.Unix() {
			deleted++
			continue
		}
		kept = append(kept, record)
	}
	m.inserted = kept
	return deleted, nil
}

// WithTransaction implements UsageRepository interface
func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repo repository.UsageRepository) error) error {
	m.mu.Lock()
	m.transactionCalls++
	m.mu.Unlock()

	return fn(m)
}

package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"sjsage522/bookworker/internal/catalog"
	"sjsage522/bookworker/services/cache"
	"sjsage522/bookworker/services/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockReader implements TableReader for testing
type MockReader struct {
	books []catalog.Book
	err   error
	calls int
}

var _ TableReader = (*MockReader)(nil)

func (m *MockReader) ReadAll(ctx context.Context) ([]catalog.Book, error) {
	m.calls++
	return m.books, m.err
}

// MockCache implements cache.CacheService in memory
type MockCache struct {
	mu      sync.Mutex
	values  map[string][]byte
	deleted []string
	getErr  error
}

var _ cache.CacheService = (*MockCache)(nil)

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (m *MockCache) Set(key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	m.deleted = append(m.deleted, key)
	return nil
}

// MockFeed implements RunFeed
type MockFeed struct {
	runID string
	err   error
}

func (m *MockFeed) LatestRun(ctx context.Context) (string, error) {
	return m.runID, m.err
}

func TestSnapshotWithoutCache(t *testing.T) {
	reader := &MockReader{books: sampleTable()}
	src := NewSource(reader, nil, nil, time.Minute, nil)

	snap, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, latestRunKey, snap.RunID)
	assert.Len(t, snap.Books, 5)

	_, err = src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, reader.calls)
}

func TestSnapshotCachesPerRun(t *testing.T) {
	reader := &MockReader{books: sampleTable()}
	mc := NewMockCache()
	feed := &MockFeed{runID: "run-1"}
	reg := metrics.NewRegistry()
	src := NewSource(reader, mc, feed, time.Minute, reg)

	first, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	second, err := src.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "run-1", second.RunID)
	assert.Equal(t, 1, reader.calls)
	assert.Contains(t, mc.values, "snapshot:run-1")

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.SnapshotReads.WithLabelValues("warehouse")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.SnapshotReads.WithLabelValues("cache")))
	assert.Equal(t, 5.0, testutil.ToFloat64(reg.SnapshotBooks))

	// A new run invalidates by key
	feed.runID = "run-2"
	_, err = src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, reader.calls)
}

func TestSnapshotFallsBackOnCacheError(t *testing.T) {
	reader := &MockReader{books: sampleTable()}
	mc := NewMockCache()
	mc.getErr = errors.New("connection refused")
	src := NewSource(reader, mc, &MockFeed{err: errors.New("no runs")}, time.Minute, nil)

	snap, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, latestRunKey, snap.RunID)
	assert.Equal(t, 1, reader.calls)
}

func TestSnapshotDiscardsCorruptEntry(t *testing.T) {
	reader := &MockReader{books: sampleTable()}
	mc := NewMockCache()
	mc.values["snapshot:latest"] = []byte("{not json")
	src := NewSource(reader, mc, nil, time.Minute, nil)

	snap, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Books, 5)
	assert.Equal(t, 1, reader.calls)

	// The corrupt entry is dropped and replaced by the fresh read
	assert.Equal(t, []string{"snapshot:latest"}, mc.deleted)
	var cached Snapshot
	require.NoError(t, json.Unmarshal(mc.values["snapshot:latest"], &cached))
	assert.Equal(t, snap, cached)
}

func TestSnapshotReaderError(t *testing.T) {
	reader := &MockReader{err: errors.New("warehouse down")}
	mc := NewMockCache()
	src := NewSource(reader, mc, nil, time.Minute, nil)

	_, err := src.Snapshot(context.Background())
	assert.EqualError(t, err, "warehouse down")
	assert.Empty(t, mc.values)
}

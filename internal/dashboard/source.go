package dashboard

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"sjsage522/bookworker/internal/catalog"
	"sjsage522/bookworker/logger"
	"sjsage522/bookworker/pkg/errors"
	"sjsage522/bookworker/services/cache"
	"sjsage522/bookworker/services/metrics"
)

const latestRunKey = "latest"

// TableReader reads the full books table
type TableReader interface {
	ReadAll(ctx context.Context) ([]catalog.Book, error)
}

// RunFeed reports the id of the most recent pipeline run
type RunFeed interface {
	LatestRun(ctx context.Context) (string, error)
}

// Snapshot is the table as loaded by one pipeline run
type Snapshot struct {
	RunID string         `json:"run_id"`
	Books []catalog.Book `json:"books"`
}

// Source serves table snapshots, through the cache when one is configured
type Source struct {
	reader  TableReader
	cache   cache.CacheService
	feed    RunFeed
	ttl     time.Duration
	metrics *metrics.Registry
	log     *logger.Logger
}

// NewSource creates a snapshot source; cacheSvc and feed may be nil
func NewSource(reader TableReader, cacheSvc cache.CacheService, feed RunFeed, ttl time.Duration, reg *metrics.Registry) *Source {
	return &Source{
		reader:  reader,
		cache:   cacheSvc,
		feed:    feed,
		ttl:     ttl,
		metrics: reg,
		log:     logger.ForDashboard(),
	}
}

// Snapshot returns the current table. Cache and feed failures fall back to
// a direct warehouse read.
func (s *Source) Snapshot(ctx context.Context) (Snapshot, error) {
	runID := s.latestRun(ctx)
	key := "snapshot:" + runID

	if s.cache != nil {
		if data, err := s.cache.Get(key); err == nil {
			var snap Snapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				s.record("cache", len(snap.Books))
				return snap, nil
			}
			s.log.Warn().Str("key", key).Msg("Discarding undecodable snapshot")
			if err := s.cache.Delete(key); err != nil {
				s.log.Warn().Err(errors.NewCache("dashboard", "delete snapshot", err)).Str("key", key).Msg("Failed to discard snapshot")
			}
		} else if !stderrors.Is(err, cache.ErrMiss) {
			s.log.Warn().Err(errors.NewCache("dashboard", "get snapshot", err)).Msg("Snapshot cache unavailable")
		}
	}

	books, err := s.reader.ReadAll(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{RunID: runID, Books: books}
	s.record("warehouse", len(books))

	if s.cache != nil {
		data, err := json.Marshal(snap)
		if err == nil {
			err = s.cache.Set(key, data, s.ttl)
		}
		if err != nil {
			s.log.Warn().Err(errors.NewCache("dashboard", "set snapshot", err)).Str("key", key).Msg("Failed to cache snapshot")
		}
	}
	return snap, nil
}

func (s *Source) latestRun(ctx context.Context) string {
	if s.feed == nil {
		return latestRunKey
	}
	runID, err := s.feed.LatestRun(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("No run id available")
		return latestRunKey
	}
	return runID
}

func (s *Source) record(source string, books int) {
	if s.metrics == nil {
		return
	}
	s.metrics.SnapshotReads.WithLabelValues(source).Inc()
	s.metrics.SnapshotBooks.Set(float64(books))
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/searchbox/core"
)

// DefaultDatasetTTL is how long a cached full dataset stays valid. The
// window is deliberately coarse: server-side catalog changes inside it are
// tolerated in exchange for skipping a full catalog fetch on most loads.
const DefaultDatasetTTL = 72 * time.Hour

const datasetKey = "dataset"

// DatasetFetcher fetches the full live dataset from the server.
type DatasetFetcher interface {
	Dataset(ctx context.Context) (*core.Dataset, error)
}

type datasetEntry struct {
	Dataset   *core.Dataset `json:"dataset"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// DatasetCache holds the full live dataset locally and refetches it only
// after a fixed TTL elapses. It never compares against server state.
type DatasetCache struct {
	fetcher DatasetFetcher
	store   EntryStore
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// DatasetCacheOption configures a DatasetCache.
type DatasetCacheOption func(*DatasetCache)

// WithTTL sets the cache validity window.
// Default is DefaultDatasetTTL.
func WithTTL(ttl time.Duration) DatasetCacheOption {
	return func(c *DatasetCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock sets the time source, for tests.
func WithClock(now func() time.Time) DatasetCacheOption {
	return func(c *DatasetCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCacheLogger sets a custom logger.
// Default is slog.Default().
func WithCacheLogger(logger *slog.Logger) DatasetCacheOption {
	return func(c *DatasetCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewDatasetCache creates a TTL-based dataset cache.
func NewDatasetCache(fetcher DatasetFetcher, store EntryStore, opts ...DatasetCacheOption) (*DatasetCache, error) {
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	c := &DatasetCache{
		fetcher: fetcher,
		store:   store,
		ttl:     DefaultDatasetTTL,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Lookup returns the cached dataset if it is still inside the TTL window,
// otherwise fetches a fresh copy and stores it. A stored entry that fails
// to decode counts as a miss.
func (c *DatasetCache) Lookup(ctx context.Context) (*core.Dataset, error) {
	if entry, ok := c.load(); ok {
		if c.now().Sub(entry.FetchedAt) < c.ttl {
			return entry.Dataset, nil
		}
		c.logger.Debug("dataset cache expired", "fetched_at", entry.FetchedAt)
	}

	dataset, err := c.fetcher.Dataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	c.save(datasetEntry{Dataset: dataset, FetchedAt: c.now()})
	return dataset, nil
}

// Invalidate drops the cached dataset.
func (c *DatasetCache) Invalidate() error {
	return c.store.Delete(datasetKey)
}

func (c *DatasetCache) load() (datasetEntry, bool) {
	data, ok, err := c.store.Get(datasetKey)
	if err != nil || !ok {
		return datasetEntry{}, false
	}
	var entry datasetEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Dataset == nil {
		c.logger.Debug("dataset cache entry unreadable, treating as miss", "err", err)
		return datasetEntry{}, false
	}
	return entry, true
}

func (c *DatasetCache) save(entry datasetEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("encode dataset cache entry failed", "err", err)
		return
	}
	if err := c.store.Set(datasetKey, data); err != nil {
		c.logger.Warn("store dataset cache entry failed", "err", err)
	}
}

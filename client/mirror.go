package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/searchbox/core"
)

const mirrorKey = "snapshot"

// SnapshotFetcher fetches snapshot metadata and document bodies from the
// server.
type SnapshotFetcher interface {
	SnapshotMeta(ctx context.Context) (core.SnapshotMeta, error)
	SnapshotDocument(ctx context.Context, documentURL string) (*core.Dataset, error)
}

type mirrorEntry struct {
	Dataset     *core.Dataset `json:"dataset"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// SnapshotMirror holds a local copy of the snapshot document. Unlike
// DatasetCache it never trusts the local copy on time alone: every lookup
// asks the server for the current freshness stamp and refetches the body
// only when the server's copy is newer. One rebuild therefore invalidates
// every outstanding mirror on its next check.
type SnapshotMirror struct {
	fetcher SnapshotFetcher
	store   EntryStore
	logger  *slog.Logger
}

// MirrorOption configures a SnapshotMirror.
type MirrorOption func(*SnapshotMirror)

// WithMirrorLogger sets a custom logger.
// Default is slog.Default().
func WithMirrorLogger(logger *slog.Logger) MirrorOption {
	return func(m *SnapshotMirror) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewSnapshotMirror creates a timestamp-compared snapshot mirror.
func NewSnapshotMirror(fetcher SnapshotFetcher, store EntryStore, opts ...MirrorOption) (*SnapshotMirror, error) {
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	m := &SnapshotMirror{
		fetcher: fetcher,
		store:   store,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Lookup returns the mirrored snapshot document, refetching the body only
// when the server reports a newer generated_at stamp. A stored entry that
// fails to decode counts as a miss. If the metadata check itself fails and
// a local copy exists, the local copy is served as a degraded answer.
func (m *SnapshotMirror) Lookup(ctx context.Context) (*core.Dataset, error) {
	local, haveLocal := m.load()

	meta, err := m.fetcher.SnapshotMeta(ctx)
	if err != nil {
		if haveLocal {
			m.logger.Warn("snapshot metadata check failed, serving local mirror", "err", err)
			return local.Dataset, nil
		}
		return nil, fmt.Errorf("fetch snapshot metadata: %w", err)
	}

	if haveLocal && !meta.GeneratedAt.After(local.GeneratedAt) {
		return local.Dataset, nil
	}

	dataset, err := m.fetcher.SnapshotDocument(ctx, meta.DocumentURL)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot document: %w", err)
	}
	m.save(mirrorEntry{Dataset: dataset, GeneratedAt: meta.GeneratedAt})
	return dataset, nil
}

// Invalidate drops the local mirror.
func (m *SnapshotMirror) Invalidate() error {
	return m.store.Delete(mirrorKey)
}

func (m *SnapshotMirror) load() (mirrorEntry, bool) {
	data, ok, err := m.store.Get(mirrorKey)
	if err != nil || !ok {
		return mirrorEntry{}, false
	}
	var entry mirrorEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Dataset == nil {
		m.logger.Debug("snapshot mirror entry unreadable, treating as miss", "err", err)
		return mirrorEntry{}, false
	}
	return entry, true
}

func (m *SnapshotMirror) save(entry mirrorEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		m.logger.Warn("encode snapshot mirror entry failed", "err", err)
		return
	}
	if err := m.store.Set(mirrorKey, data); err != nil {
		m.logger.Warn("store snapshot mirror entry failed", "err", err)
	}
}

package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/poiesic/searchbox/core"
)

// Service serves the current Ready snapshot, building one on demand when it
// is absent. The first caller after a cold start pays the build cost; other
// concurrent callers join the same build.
type Service struct {
	builder *Builder
	store   Store
}

// NewService creates a snapshot service.
func NewService(builder *Builder, store Store) (*Service, error) {
	if builder == nil {
		return nil, ErrBuilderRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	return &Service{builder: builder, store: store}, nil
}

// Current returns the current snapshot dataset and its metadata, running a
// synchronous build when no document exists yet. A failed on-demand build
// surfaces as ErrSnapshotUnavailable.
func (s *Service) Current(ctx context.Context) (*core.Dataset, core.SnapshotMeta, error) {
	document, meta, err := s.DocumentBytes(ctx)
	if err != nil {
		return nil, core.SnapshotMeta{}, err
	}

	var dataset core.Dataset
	if err := json.Unmarshal(document, &dataset); err != nil {
		return nil, core.SnapshotMeta{}, fmt.Errorf("%w: decode document: %w", ErrSnapshotUnavailable, err)
	}
	return &dataset, meta, nil
}

// DocumentBytes returns the raw document body and metadata, building on
// absence. The raw bytes are what clients mirror, so they are served
// unmodified.
func (s *Service) DocumentBytes(ctx context.Context) ([]byte, core.SnapshotMeta, error) {
	document, meta, err := s.store.Document(ctx)
	if errors.Is(err, ErrSnapshotMissing) {
		if _, err := s.builder.Build(ctx); err != nil {
			return nil, core.SnapshotMeta{}, fmt.Errorf("%w: %w", ErrSnapshotUnavailable, err)
		}
		document, meta, err = s.store.Document(ctx)
	}
	if err != nil {
		return nil, core.SnapshotMeta{}, err
	}
	return document, meta, nil
}

// Meta returns the current snapshot metadata, building on absence.
func (s *Service) Meta(ctx context.Context) (core.SnapshotMeta, error) {
	meta, err := s.store.Meta(ctx)
	if errors.Is(err, ErrSnapshotMissing) {
		meta, err = s.builder.Build(ctx)
		if err != nil {
			return core.SnapshotMeta{}, fmt.Errorf("%w: %w", ErrSnapshotUnavailable, err)
		}
		return meta, nil
	}
	return meta, err
}

// Rebuild forces a new build, joining one already in flight.
func (s *Service) Rebuild(ctx context.Context) (core.SnapshotMeta, error) {
	return s.builder.Build(ctx)
}

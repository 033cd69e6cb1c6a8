// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package searchbox

import (
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/poiesic/searchbox/catalog"
	"github.com/poiesic/searchbox/config"
	"github.com/poiesic/searchbox/httpapi"
	"github.com/poiesic/searchbox/search"
	"github.com/poiesic/searchbox/snapshot"
)

// ErrProviderRequired is returned when a service is created without a
// catalog provider.
var ErrProviderRequired = errors.New("catalog provider is required")

// Service wires the catalog provider, rule configuration store, snapshot
// storage and search executor into one unit.
type Service struct {
	provider    catalog.Provider
	redisClient *redis.Client
	rules       config.Store
	snapStore   *snapshot.BadgerStore
	builder     *snapshot.Builder
	snapshots   *snapshot.Service
	executor    *search.Executor
	logger      *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	redisAddr         string
	snapshotPath      string
	inMemorySnapshots bool
	logger            *slog.Logger
}

// WithRedisAddr sets the rule configuration store address.
// Default is "localhost:6379".
func WithRedisAddr(addr string) ServiceOption {
	return func(o *serviceOptions) {
		if addr != "" {
			o.redisAddr = addr
		}
	}
}

// WithSnapshotPath sets the on-disk snapshot store location.
func WithSnapshotPath(path string) ServiceOption {
	return func(o *serviceOptions) {
		o.snapshotPath = path
	}
}

// WithInMemorySnapshots keeps snapshot storage in memory. Intended for
// tests and local development.
func WithInMemorySnapshots() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemorySnapshots = true
	}
}

// WithLogger sets a custom logger for every component.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewService creates a fully wired search service over the given catalog
// provider.
func NewService(provider catalog.Provider, opts ...ServiceOption) (*Service, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}

	options := &serviceOptions{
		redisAddr: "localhost:6379",
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: options.redisAddr})
	rules, err := config.NewRedisStore(redisClient)
	if err != nil {
		redisClient.Close()
		return nil, err
	}

	snapStore, err := snapshot.OpenBadgerStore(options.snapshotPath, options.inMemorySnapshots)
	if err != nil {
		redisClient.Close()
		return nil, err
	}

	datasets, err := search.NewDatasetBuilder(provider, rules,
		search.WithDatasetLogger(options.logger))
	if err != nil {
		snapStore.Close()
		redisClient.Close()
		return nil, err
	}

	builder, err := snapshot.NewBuilder(datasets, snapStore,
		snapshot.WithBuilderLogger(options.logger))
	if err != nil {
		snapStore.Close()
		redisClient.Close()
		return nil, err
	}

	snapshots, err := snapshot.NewService(builder, snapStore)
	if err != nil {
		snapStore.Close()
		redisClient.Close()
		return nil, err
	}

	executor, err := search.NewExecutor(provider, rules,
		search.WithSnapshots(snapshots),
		search.WithLogger(options.logger))
	if err != nil {
		snapStore.Close()
		redisClient.Close()
		return nil, err
	}

	return &Service{
		provider:    provider,
		redisClient: redisClient,
		rules:       rules,
		snapStore:   snapStore,
		builder:     builder,
		snapshots:   snapshots,
		executor:    executor,
		logger:      options.logger,
	}, nil
}

// Close releases the snapshot store and the rule store connection.
func (s *Service) Close() error {
	if err := s.snapStore.Close(); err != nil {
		s.logger.Error("error closing snapshot store", "err", err)
		return err
	}
	if err := s.redisClient.Close(); err != nil {
		s.logger.Error("error closing rule store connection", "err", err)
		return err
	}
	return nil
}

// Executor returns the search executor.
func (s *Service) Executor() *search.Executor {
	return s.executor
}

// Rules returns the rule configuration store.
func (s *Service) Rules() config.Store {
	return s.rules
}

// Snapshots returns the snapshot service.
func (s *Service) Snapshots() *snapshot.Service {
	return s.snapshots
}

// NewHTTPServer creates the HTTP surface for this service.
func (s *Service) NewHTTPServer(opts ...httpapi.ServerOption) (*httpapi.Server, error) {
	opts = append([]httpapi.ServerOption{
		httpapi.WithSnapshotService(s.snapshots),
		httpapi.WithServerLogger(s.logger),
	}, opts...)
	return httpapi.NewServer(s.executor, s.rules, opts...)
}

// NewScheduler creates a recurring snapshot build scheduler for this
// service.
func (s *Service) NewScheduler(opts ...snapshot.SchedulerOption) (*snapshot.Scheduler, error) {
	opts = append([]snapshot.SchedulerOption{
		snapshot.WithSchedulerLogger(s.logger),
	}, opts...)
	return snapshot.NewScheduler(s.builder, opts...)
}

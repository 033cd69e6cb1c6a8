package snapshot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// DefaultInterval is the reference rebuild cadence.
const DefaultInterval = 24 * time.Hour

// Scheduler triggers recurring snapshot rebuilds. Builds run on a worker
// pool so a slow build never blocks the ticker; a tick arriving while a
// build is in flight joins it through the builder rather than starting a
// second one.
type Scheduler struct {
	builder  *Builder
	interval time.Duration
	pool     *ants.Pool
	logger   *slog.Logger

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithInterval sets the rebuild cadence.
// Default is DefaultInterval (once per day).
func WithInterval(interval time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithSchedulerLogger sets a custom logger.
// Default is slog.Default().
func WithSchedulerLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewScheduler creates a scheduler for the given builder.
func NewScheduler(builder *Builder, opts ...SchedulerOption) (*Scheduler, error) {
	if builder == nil {
		return nil, ErrBuilderRequired
	}

	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		builder:  builder,
		interval: DefaultInterval,
		pool:     pool,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start begins the recurring schedule. It returns immediately; rebuilds run
// in the background until Stop is called or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.run(ctx, s.stop, s.done)
}

func (s *Scheduler) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.submitBuild(ctx)
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) submitBuild(ctx context.Context) {
	err := s.pool.Submit(func() {
		if _, err := s.builder.Build(ctx); err != nil {
			s.logger.Error("scheduled snapshot build failed", "err", err)
		}
	})
	if err != nil {
		s.logger.Error("error submitting snapshot build", "err", err)
	}
}

// Stop halts the schedule and releases the worker pool. A build already
// running is left to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stop)
	<-s.done
	s.pool.Release()
}

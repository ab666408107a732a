package pool

import (
	"context"
	"sync"
	"time"

	"github.com/openscan/ocrkit/observability"
	"github.com/openscan/ocrkit/ocr"
)

// CleanupScheduler periodically sweeps a pool for stale handles. The sweep
// runs on its own goroutine with a cancellation signal, so shutdown is
// deterministic: Stop cancels the timer and joins the goroutine. Under the
// Immediate policy no timer is armed; nothing is ever retained, staleness is
// enforced on release.
type CleanupScheduler struct {
	pool     *RecognizerPool
	log      observability.Logger
	interval time.Duration // test override; zero means half the policy window

	mu      sync.Mutex
	policy  ocr.TimeoutPolicy
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// SchedulerOption configures a CleanupScheduler.
type SchedulerOption func(*CleanupScheduler)

// WithSweepInterval overrides the tick interval. Without it, sweeps run at
// half the policy window.
func WithSweepInterval(d time.Duration) SchedulerOption {
	return func(s *CleanupScheduler) { s.interval = d }
}

// WithSweepLogger sets the scheduler's logger.
func WithSweepLogger(l observability.Logger) SchedulerOption {
	return func(s *CleanupScheduler) { s.log = l }
}

// NewScheduler creates a scheduler for the pool and starts sweeping under the
// given policy. The policy is also installed on the pool as the process-wide
// retention setting.
func NewScheduler(p *RecognizerPool, policy ocr.TimeoutPolicy, opts ...SchedulerOption) *CleanupScheduler {
	s := &CleanupScheduler{
		pool:   p,
		log:    observability.NopLogger{},
		policy: policy,
	}
	for _, opt := range opts {
		opt(s)
	}
	p.SetPolicy(policy)
	s.mu.Lock()
	s.startLocked()
	s.mu.Unlock()
	return s
}

// Policy returns the current retention policy.
func (s *CleanupScheduler) Policy() ocr.TimeoutPolicy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy
}

// SetPolicy swaps the retention policy. Switching to Immediate stops the
// timer and clears the pool; switching away from Immediate re-arms it.
func (s *CleanupScheduler) SetPolicy(policy ocr.TimeoutPolicy) {
	s.mu.Lock()
	if s.stopped || policy == s.policy {
		s.mu.Unlock()
		return
	}
	s.policy = policy
	s.pool.SetPolicy(policy)
	s.stopTimerLocked()
	s.startLocked()
	s.mu.Unlock()

	if policy == ocr.TimeoutImmediate {
		s.pool.Clear()
	}
	s.log.Debug("retention policy changed", observability.String("policy", policy.String()))
}

// Stop cancels the sweep timer and waits for the goroutine to exit. Calling
// it again is a no-op.
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.stopTimerLocked()
}

func (s *CleanupScheduler) startLocked() {
	if s.stopped || s.policy == ocr.TimeoutImmediate {
		return
	}
	interval := s.interval
	if interval <= 0 {
		interval = s.policy.Duration() / 2
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	go s.run(ctx, interval, done)
}

func (s *CleanupScheduler) stopTimerLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

// run must not take s.mu: Stop joins this goroutine while holding it. The
// current policy is read from the pool instead.
func (s *CleanupScheduler) run(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.pool.EvictStale(s.pool.Policy()); n > 0 {
				s.log.Debug("stale recognizers evicted", observability.Int("count", n))
			}
		}
	}
}

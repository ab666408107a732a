package pipeline

import (
	"github.com/openscan/ocrkit/ocr"
	"github.com/openscan/ocrkit/pool"
)

// Service bundles the extractor with the pool and cleanup scheduler it runs
// on. It is the explicitly-owned entry point for consumers: construct one,
// pass it by reference, and Close it at shutdown. There is no package-level
// singleton.
type Service struct {
	*Extractor
	pool  *pool.RecognizerPool
	sched *pool.CleanupScheduler
}

// NewService wires a factory, pool, scheduler, and extractor together. A nil
// factory uses the registered default (Tesseract when the tesseract
// subpackage is imported).
func NewService(factory ocr.EngineFactory, opts ...Option) *Service {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if factory == nil {
		factory = ocr.DefaultFactory()
	}
	p := pool.New(factory, pool.WithLogger(cfg.logger), pool.WithClock(cfg.clock))
	schedOpts := []pool.SchedulerOption{pool.WithSweepLogger(cfg.logger)}
	if cfg.interval > 0 {
		schedOpts = append(schedOpts, pool.WithSweepInterval(cfg.interval))
	}
	return &Service{
		Extractor: NewExtractor(p, opts...),
		pool:      p,
		sched:     pool.NewScheduler(p, cfg.policy, schedOpts...),
	}
}

// SetTimeout swaps the engine retention policy at runtime.
func (s *Service) SetTimeout(policy ocr.TimeoutPolicy) { s.sched.SetPolicy(policy) }

// Timeout returns the current retention policy.
func (s *Service) Timeout() ocr.TimeoutPolicy { return s.sched.Policy() }

// ActiveRecognizers returns the number of live engines.
func (s *Service) ActiveRecognizers() int { return s.pool.Count() }

// ActiveLanguages returns the script families with a live engine.
func (s *Service) ActiveLanguages() []ocr.Language { return s.pool.ActiveLanguages() }

// Close stops the scheduler, then disposes every engine and flips the pool
// into its terminal state. Idempotent.
func (s *Service) Close() {
	s.sched.Stop()
	s.pool.Close()
}

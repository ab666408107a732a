package pipeline

import (
	"time"

	"github.com/openscan/ocrkit/observability"
	"github.com/openscan/ocrkit/ocr"
)

// Preprocessor prepares image bytes before recognition (e.g., grayscale and
// deskew). Failures are tolerated: the pipeline falls back to the original
// bytes.
type Preprocessor interface {
	Normalize(data []byte, deskew bool) ([]byte, error)
}

type config struct {
	logger   observability.Logger
	pre      Preprocessor
	clock    func() time.Time
	policy   ocr.TimeoutPolicy
	interval time.Duration
}

func defaultConfig() config {
	return config{
		logger: observability.NopLogger{},
		clock:  time.Now,
		policy: ocr.TimeoutFiveMinutes,
	}
}

// Option configures an Extractor or a Service.
type Option func(*config)

// WithLogger sets the logger carried through the pipeline (and, for a
// Service, its pool and scheduler).
func WithLogger(l observability.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithPreprocessor installs image preprocessing, applied when
// Options.Deskew is set.
func WithPreprocessor(p Preprocessor) Option {
	return func(c *config) { c.pre = p }
}

// WithClock injects the time source used for processing-time measurement and
// usage tracking.
func WithClock(clock func() time.Time) Option {
	return func(c *config) { c.clock = clock }
}

// WithTimeout sets the initial engine retention policy (Service only).
func WithTimeout(policy ocr.TimeoutPolicy) Option {
	return func(c *config) { c.policy = policy }
}

// WithSweepInterval overrides the cleanup tick interval (Service only).
func WithSweepInterval(d time.Duration) Option {
	return func(c *config) { c.interval = d }
}

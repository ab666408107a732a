package pool

// Package pool manages the lifecycle of per-language recognition engines:
// lazy creation on first acquire, reuse while fresh, timeout-driven eviction
// of idle engines, and unconditional disposal at shutdown. At most one live
// engine exists per script family at any instant.

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/openscan/ocrkit/observability"
	"github.com/openscan/ocrkit/ocr"
)

// Handle is a checked-out reference to one pooled recognizer. It is owned by
// the pool: callers obtain one from Acquire, use it for exactly one
// recognition call, and return it with Release. The underlying engine is
// never exposed.
type Handle struct {
	e *entry
}

// Language returns the script family the handle recognizes.
func (h *Handle) Language() ocr.Language { return h.e.lang }

// Recognize invokes the engine behind the handle.
func (h *Handle) Recognize(ctx context.Context, img ocr.Image, opts ocr.Options) (ocr.RawResult, error) {
	return h.e.engine.Recognize(ctx, img, opts)
}

// entry is one pool slot. The busy state is carried by sem: the slot is free
// iff a token is present. Acquire (and the eviction sweep) take the token;
// Release puts it back. usage and engine are guarded by the pool lock.
type entry struct {
	lang  ocr.Language
	ready chan struct{} // closed once creation settles
	gone  chan struct{} // closed when the entry leaves the map
	sem   chan struct{} // capacity 1: token present while the handle is free
	err   error         // creation failure, set before ready closes

	engine ocr.Engine
	usage  UsageRecord
}

// RecognizerPool caches lazily-created recognition engines keyed by script
// family. All methods are safe for concurrent use. The pool lock is held only
// for map bookkeeping; engine creation and recognition run outside it, so
// work on one language never blocks acquisition of another.
type RecognizerPool struct {
	factory ocr.EngineFactory
	log     observability.Logger
	clock   func() time.Time

	mu      sync.Mutex
	entries map[ocr.Language]*entry
	policy  ocr.TimeoutPolicy
	closed  bool
}

// Option configures a RecognizerPool.
type Option func(*RecognizerPool)

// WithLogger sets the pool's logger.
func WithLogger(l observability.Logger) Option {
	return func(p *RecognizerPool) { p.log = l }
}

// WithClock injects the time source used for usage tracking.
func WithClock(clock func() time.Time) Option {
	return func(p *RecognizerPool) { p.clock = clock }
}

// WithPolicy sets the initial retention policy.
func WithPolicy(policy ocr.TimeoutPolicy) Option {
	return func(p *RecognizerPool) { p.policy = policy }
}

// New creates an empty pool backed by the given engine factory.
func New(factory ocr.EngineFactory, opts ...Option) *RecognizerPool {
	p := &RecognizerPool{
		factory: factory,
		log:     observability.NopLogger{},
		clock:   time.Now,
		entries: make(map[ocr.Language]*entry),
		policy:  ocr.TimeoutFiveMinutes,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetPolicy swaps the process-wide retention policy.
func (p *RecognizerPool) SetPolicy(policy ocr.TimeoutPolicy) {
	p.mu.Lock()
	p.policy = policy
	p.mu.Unlock()
}

// Policy returns the current retention policy.
func (p *RecognizerPool) Policy() ocr.TimeoutPolicy {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.policy
}

// Acquire returns the cached handle for the language's script family, waiting
// for an in-flight checkout of the same family to finish, or lazily creates
// one. The returned handle is marked busy until Release. Creation failure
// surfaces as *ocr.EngineCreationError and leaves other languages usable;
// acquiring on a closed pool fails with *ocr.LifecycleError.
func (p *RecognizerPool) Acquire(ctx context.Context, lang ocr.Language) (*Handle, error) {
	script := lang.Script()
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, &ocr.LifecycleError{Op: "acquire"}
		}
		e, ok := p.entries[script]
		if !ok {
			e = &entry{
				lang:  script,
				ready: make(chan struct{}),
				gone:  make(chan struct{}),
				sem:   make(chan struct{}, 1),
			}
			p.entries[script] = e
			p.mu.Unlock()

			h, retry, err := p.create(e, script)
			if retry {
				continue
			}
			return h, err
		}
		p.mu.Unlock()

		select {
		case <-e.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if e.err != nil {
			// Creation failed after we started waiting; try a fresh attempt.
			continue
		}

		select {
		case <-e.sem:
		case <-e.gone:
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, &ocr.LifecycleError{Op: "acquire"}
		}
		if p.entries[script] != e {
			// Cleared between token take and bookkeeping; recreate.
			p.mu.Unlock()
			continue
		}
		e.usage.MarkUsed(p.clock())
		p.mu.Unlock()
		return &Handle{e: e}, nil
	}
}

// create runs the factory outside the pool lock and settles the placeholder
// entry. The creator leaves holding the entry's token, i.e. the new handle is
// born busy. retry is true when the pool was cleared mid-creation and the
// caller should start over.
func (p *RecognizerPool) create(e *entry, script ocr.Language) (h *Handle, retry bool, err error) {
	eng, cerr := p.factory.NewEngine(script)

	p.mu.Lock()
	if cerr != nil {
		if p.entries[script] == e {
			delete(p.entries, script)
		}
		e.err = cerr
		close(e.gone)
		close(e.ready)
		p.mu.Unlock()
		p.log.Warn("recognizer creation failed",
			observability.String("language", script.String()),
			observability.Error("error", cerr))
		return nil, false, &ocr.EngineCreationError{Language: script, Err: cerr}
	}
	if p.closed || p.entries[script] != e {
		stillClosed := p.closed
		if p.entries[script] == e {
			delete(p.entries, script)
		}
		e.err = &ocr.LifecycleError{Op: "acquire"}
		close(e.gone)
		close(e.ready)
		p.mu.Unlock()
		eng.Close()
		if stillClosed {
			return nil, false, &ocr.LifecycleError{Op: "acquire"}
		}
		return nil, true, nil
	}
	e.engine = eng
	e.usage = NewUsageRecord(p.clock())
	close(e.ready)
	p.mu.Unlock()
	p.log.Debug("recognizer created", observability.String("language", script.String()))
	return &Handle{e: e}, false, nil
}

// Release returns a handle to the pool: the busy state is cleared and the
// last-use timestamp refreshed. Under the Immediate policy the engine is
// disposed instead of retained. Releasing into a closed or cleared pool is a
// no-op; the engine was already disposed.
func (p *RecognizerPool) Release(h *Handle) {
	if h == nil || h.e == nil {
		return
	}
	e := h.e
	p.mu.Lock()
	if p.closed || p.entries[e.lang] != e {
		p.mu.Unlock()
		return
	}
	e.usage.MarkUsed(p.clock())
	if p.policy == ocr.TimeoutImmediate {
		delete(p.entries, e.lang)
		close(e.gone)
		p.mu.Unlock()
		e.engine.Close()
		p.log.Debug("recognizer disposed on release",
			observability.String("language", e.lang.String()))
		return
	}
	p.mu.Unlock()
	e.sem <- struct{}{}
}

// EvictStale disposes every idle handle whose usage record is stale under the
// given policy and returns how many were evicted. Busy handles are skipped:
// an engine is never disposed mid-recognition.
func (p *RecognizerPool) EvictStale(policy ocr.TimeoutPolicy) int {
	now := p.clock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return 0
	}
	candidates := make([]*entry, 0, len(p.entries))
	for _, e := range p.entries {
		if e.engine != nil && e.usage.ShouldCleanup(policy, now) {
			candidates = append(candidates, e)
		}
	}
	p.mu.Unlock()

	evicted := 0
	for _, e := range candidates {
		select {
		case <-e.sem:
		default:
			continue // checked out, skip
		}
		p.mu.Lock()
		if p.entries[e.lang] != e || !e.usage.ShouldCleanup(policy, now) {
			// Refreshed or already removed since the snapshot.
			p.mu.Unlock()
			e.sem <- struct{}{}
			continue
		}
		delete(p.entries, e.lang)
		close(e.gone)
		p.mu.Unlock()
		e.engine.Close()
		evicted++
		p.log.Debug("recognizer evicted",
			observability.String("language", e.lang.String()),
			observability.Duration("idle", e.usage.TimeSinceLastUse(now)))
	}
	return evicted
}

// Clear disposes every handle unconditionally, busy or not. Intended for
// shutdown and for the swap to the Immediate policy.
func (p *RecognizerPool) Clear() {
	p.mu.Lock()
	removed := p.entries
	p.entries = make(map[ocr.Language]*entry)
	for _, e := range removed {
		close(e.gone)
	}
	p.mu.Unlock()
	for _, e := range removed {
		if e.engine != nil {
			e.engine.Close()
		}
	}
	if len(removed) > 0 {
		p.log.Debug("pool cleared", observability.Int("disposed", len(removed)))
	}
}

// Close flips the pool into a terminal state and disposes all handles. It is
// idempotent; any subsequent Acquire fails with *ocr.LifecycleError.
func (p *RecognizerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	removed := p.entries
	p.entries = make(map[ocr.Language]*entry)
	for _, e := range removed {
		close(e.gone)
	}
	p.mu.Unlock()
	for _, e := range removed {
		if e.engine != nil {
			e.engine.Close()
		}
	}
	p.log.Debug("pool closed", observability.Int("disposed", len(removed)))
}

// Count returns the number of live handles.
func (p *RecognizerPool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.entries {
		if e.engine != nil {
			n++
		}
	}
	return n
}

// ActiveLanguages returns the script families with a live handle, sorted.
func (p *RecognizerPool) ActiveLanguages() []ocr.Language {
	p.mu.Lock()
	langs := make([]ocr.Language, 0, len(p.entries))
	for lang, e := range p.entries {
		if e.engine != nil {
			langs = append(langs, lang)
		}
	}
	p.mu.Unlock()
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

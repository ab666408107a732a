package pool

import (
	"testing"
	"time"

	"github.com/openscan/ocrkit/ocr"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func TestSchedulerSweepsStaleHandles(t *testing.T) {
	factory := newFakeFactory()
	clock := newFakeClock()
	p := New(factory, WithClock(clock.Now))
	s := NewScheduler(p, ocr.TimeoutOneMinute, WithSweepInterval(5*time.Millisecond))
	defer s.Stop()
	defer p.Close()

	p.Release(mustAcquire(t, p, ocr.Latin))
	clock.Advance(2 * time.Minute)

	if !waitFor(t, time.Second, func() bool { return p.Count() == 0 }) {
		t.Fatalf("scheduler never evicted the stale handle")
	}
	if !factory.lastEngine().isClosed() {
		t.Fatalf("evicted engine was not disposed")
	}
}

func TestSchedulerImmediateArmsNoTimer(t *testing.T) {
	factory := newFakeFactory()
	p := New(factory)
	s := NewScheduler(p, ocr.TimeoutImmediate)
	defer p.Close()

	// No goroutine to join; Stop must still be safe.
	s.Stop()

	// Staleness is enforced on release instead.
	p.Release(mustAcquire(t, p, ocr.Latin))
	if p.Count() != 0 {
		t.Fatalf("Immediate policy retained a handle")
	}
}

func TestSetPolicyToImmediateStopsAndClears(t *testing.T) {
	factory := newFakeFactory()
	clock := newFakeClock()
	p := New(factory, WithClock(clock.Now))
	s := NewScheduler(p, ocr.TimeoutFiveMinutes, WithSweepInterval(5*time.Millisecond))
	defer s.Stop()
	defer p.Close()

	p.Release(mustAcquire(t, p, ocr.Latin))
	if p.Count() != 1 {
		t.Fatalf("Count() = %d before the swap", p.Count())
	}

	s.SetPolicy(ocr.TimeoutImmediate)
	if p.Count() != 0 {
		t.Fatalf("swap to Immediate did not clear the pool")
	}
	if s.Policy() != ocr.TimeoutImmediate {
		t.Fatalf("Policy() = %s", s.Policy())
	}

	// Swapping back re-arms the timer and retention.
	s.SetPolicy(ocr.TimeoutOneMinute)
	p.Release(mustAcquire(t, p, ocr.Latin))
	if p.Count() != 1 {
		t.Fatalf("handle not retained after swapping back")
	}
	clock.Advance(2 * time.Minute)
	if !waitFor(t, time.Second, func() bool { return p.Count() == 0 }) {
		t.Fatalf("re-armed scheduler never swept")
	}
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	p := New(newFakeFactory())
	defer p.Close()
	s := NewScheduler(p, ocr.TimeoutOneMinute, WithSweepInterval(5*time.Millisecond))

	s.Stop()
	s.Stop() // no panic, no deadlock

	// A policy change after Stop is ignored rather than resurrecting the timer.
	s.SetPolicy(ocr.TimeoutFiveMinutes)
	if s.Policy() != ocr.TimeoutOneMinute {
		t.Fatalf("stopped scheduler accepted a policy change")
	}
}

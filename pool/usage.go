package pool

import (
	"time"

	"github.com/openscan/ocrkit/ocr"
)

// UsageRecord tracks when a recognizer handle was created and last used. It
// lives exactly as long as the handle it describes and is guarded by the
// pool's lock.
type UsageRecord struct {
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// NewUsageRecord starts a record with both timestamps at now.
func NewUsageRecord(now time.Time) UsageRecord {
	return UsageRecord{CreatedAt: now, LastUsedAt: now}
}

// MarkUsed refreshes the last-use timestamp.
func (u *UsageRecord) MarkUsed(now time.Time) { u.LastUsedAt = now }

// TimeSinceLastUse returns the idle duration as of now.
func (u UsageRecord) TimeSinceLastUse(now time.Time) time.Duration {
	return now.Sub(u.LastUsedAt)
}

// ShouldCleanup reports whether the handle is stale under the given policy.
// Immediate always cleans up; other policies compare the idle duration against
// the retention window.
func (u UsageRecord) ShouldCleanup(policy ocr.TimeoutPolicy, now time.Time) bool {
	if policy == ocr.TimeoutImmediate {
		return true
	}
	return u.TimeSinceLastUse(now) >= policy.Duration()
}

package ocr

import "time"

// TimeoutPolicy controls how long an idle recognition engine is retained
// before the cleanup sweep disposes it. It is a process-wide, mutable setting
// owned by the scheduler.
type TimeoutPolicy int

const (
	// TimeoutImmediate retains nothing: an engine is disposed as soon as the
	// call that created it completes.
	TimeoutImmediate TimeoutPolicy = iota
	TimeoutOneMinute
	TimeoutFiveMinutes
	TimeoutThirtyMinutes
)

// Duration returns the retention window for the policy.
func (p TimeoutPolicy) Duration() time.Duration {
	switch p {
	case TimeoutOneMinute:
		return time.Minute
	case TimeoutFiveMinutes:
		return 5 * time.Minute
	case TimeoutThirtyMinutes:
		return 30 * time.Minute
	default:
		return 0
	}
}

func (p TimeoutPolicy) String() string {
	switch p {
	case TimeoutImmediate:
		return "immediate"
	case TimeoutOneMinute:
		return "1m"
	case TimeoutFiveMinutes:
		return "5m"
	case TimeoutThirtyMinutes:
		return "30m"
	default:
		return "unknown"
	}
}

// PolicyFromSeconds classifies a raw second count into the nearest policy
// bucket at or above it: 0 maps to Immediate, up to 60 to OneMinute, up to
// 300 to FiveMinutes, everything else to ThirtyMinutes.
func PolicyFromSeconds(n int) TimeoutPolicy {
	switch {
	case n <= 0:
		return TimeoutImmediate
	case n <= 60:
		return TimeoutOneMinute
	case n <= 300:
		return TimeoutFiveMinutes
	default:
		return TimeoutThirtyMinutes
	}
}

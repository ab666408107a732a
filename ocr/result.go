package ocr

import (
	"strings"
	"time"
)

// Result captures the output of one extraction, single-page or aggregated
// across a batch.
type Result struct {
	// Text is the extracted text exactly as the engine produced it. Batch
	// results join pages with a blank-line page break.
	Text string
	// Language is the script family the text was recognized with.
	Language Language
	// Confidence is the mean recognition confidence in [0, 1], or nil when the
	// engine reported none.
	Confidence *float64
	// ProcessingTime is the wall-clock duration of the extraction; zero means
	// unknown.
	ProcessingTime time.Duration
	// WordCount and LineCount are derived from the trimmed text by the
	// pipeline.
	WordCount int
	LineCount int
}

// TrimmedText returns Text with surrounding whitespace removed.
func (r Result) TrimmedText() string { return strings.TrimSpace(r.Text) }

// HasText reports whether any non-whitespace text was extracted.
func (r Result) HasText() bool { return r.TrimmedText() != "" }

// ConfidencePercent returns the confidence scaled to [0, 100], or -1 when no
// confidence is available.
func (r Result) ConfidencePercent() float64 {
	if r.Confidence == nil {
		return -1
	}
	return *r.Confidence * 100
}

// WordCountOf counts whitespace-separated tokens in the trimmed text.
func WordCountOf(text string) int { return len(strings.Fields(strings.TrimSpace(text))) }

// LineCountOf counts newline-separated lines in the trimmed text; empty or
// whitespace-only text has zero lines.
func LineCountOf(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	return len(strings.Split(trimmed, "\n"))
}

// Progress reports batch extraction progress after each completed page. It is
// transient: produced per page, handed to the caller's callback, not retained.
type Progress struct {
	// CurrentPage is one-based.
	CurrentPage int
	TotalPages  int
	// PartialText is the aggregate text of the pages completed so far.
	PartialText string
}

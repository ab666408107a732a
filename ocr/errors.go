package ocr

import "fmt"

// ValidationError reports rejected input: an empty image, an empty page list.
// The pool is never touched when one is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "invalid input: " + e.Msg }

// EngineCreationError reports that the recognizer for one language could not
// be constructed. Other languages remain usable.
type EngineCreationError struct {
	Language Language
	Err      error
}

func (e *EngineCreationError) Error() string {
	return fmt.Sprintf("create %s recognizer: %v", e.Language, e.Err)
}

func (e *EngineCreationError) Unwrap() error { return e.Err }

// RecognitionError reports a failed recognition call. Page is the one-based
// index of the failing page for batch extraction, zero for single-image calls.
type RecognitionError struct {
	Page int
	Err  error
}

func (e *RecognitionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("recognize page %d: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("recognize: %v", e.Err)
}

func (e *RecognitionError) Unwrap() error { return e.Err }

// LifecycleError reports an operation attempted after the pool was closed.
type LifecycleError struct {
	Op string
}

func (e *LifecycleError) Error() string { return e.Op + ": recognizer pool is closed" }

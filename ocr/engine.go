package ocr

import "context"

// Image is a recognition input: either a file path or an in-memory encoded
// image (PNG/JPEG). Exactly one of the two should be set; Bytes wins when
// both are.
type Image struct {
	Path  string
	Bytes []byte
}

// FromPath wraps a file path as a recognition input.
func FromPath(path string) Image { return Image{Path: path} }

// FromBytes wraps encoded image data as a recognition input.
func FromBytes(data []byte) Image { return Image{Bytes: data} }

// IsZero reports whether the image carries neither a path nor data.
func (i Image) IsZero() bool { return i.Path == "" && len(i.Bytes) == 0 }

// Validate returns a ValidationError for an empty image.
func (i Image) Validate() error {
	if i.IsZero() {
		return &ValidationError{Msg: "image has no path and no data"}
	}
	return nil
}

// RawResult is the unprocessed output of one engine invocation.
type RawResult struct {
	Text string
	// Confidence is the mean recognition confidence in [0, 1], nil when the
	// provider does not report one.
	Confidence *float64
}

// Engine is an opaque, language-specific recognition capability. The pool
// manages its lifecycle; callers never hold one directly.
type Engine interface {
	Recognize(ctx context.Context, img Image, opts Options) (RawResult, error)
	Close() error
}

// EngineFactory constructs engines on demand, one per script family. The
// language passed is always a canonical script family.
type EngineFactory interface {
	NewEngine(lang Language) (Engine, error)
}

// EngineFactoryFunc adapts a function to the EngineFactory interface.
type EngineFactoryFunc func(lang Language) (Engine, error)

func (f EngineFactoryFunc) NewEngine(lang Language) (Engine, error) { return f(lang) }

var defaultFactory EngineFactory = noopFactory{}

// DefaultFactory returns the registered default engine factory (Tesseract when
// the tesseract subpackage is imported).
func DefaultFactory() EngineFactory { return defaultFactory }

// SetDefaultFactory registers the default engine factory.
func SetDefaultFactory(f EngineFactory) { defaultFactory = f }

type noopFactory struct{}

func (noopFactory) NewEngine(lang Language) (Engine, error) { return noopEngine{lang: lang}, nil }

type noopEngine struct{ lang Language }

func (noopEngine) Recognize(ctx context.Context, img Image, opts Options) (RawResult, error) {
	return RawResult{}, nil
}

func (noopEngine) Close() error { return nil }

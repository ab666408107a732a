package tesseract

// Package tesseract provides the gosseract-backed engine factory. Each engine
// wraps one long-lived client configured for a single script family; the pool
// above decides when clients are created and disposed.

import (
	"context"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/openscan/ocrkit/ocr"
)

func init() {
	ocr.SetDefaultFactory(NewFactory())
}

// Factory creates Tesseract-backed recognition engines, one per script
// family.
type Factory struct {
	clientFactory  func() *gosseract.Client
	tessdataPrefix string
}

// Option configures a Factory.
type Option func(*Factory)

// WithClientFactory replaces the gosseract client constructor (test seam).
func WithClientFactory(f func() *gosseract.Client) Option {
	return func(fa *Factory) { fa.clientFactory = f }
}

// WithTessdataPrefix points the engines at a non-default traineddata
// directory.
func WithTessdataPrefix(path string) Option {
	return func(fa *Factory) { fa.tessdataPrefix = path }
}

// NewFactory constructs a Tesseract engine factory.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{clientFactory: gosseract.NewClient}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewEngine builds an engine for the script family. The client is configured
// once with the family's traineddata; per-call knobs are applied on each
// Recognize.
func (f *Factory) NewEngine(lang ocr.Language) (ocr.Engine, error) {
	c := f.clientFactory()
	if f.tessdataPrefix != "" {
		if err := c.SetTessdataPrefix(f.tessdataPrefix); err != nil {
			c.Close()
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	code := lang.TessdataCode()
	if err := c.SetLanguage(code); err != nil {
		c.Close()
		return nil, fmt.Errorf("set language %s: %w", code, err)
	}
	return &engine{client: c, lang: lang}, nil
}

// engine is one configured gosseract client. The client is not safe for
// concurrent calls; the pool's busy flag already serializes use, the mutex
// guards against misuse of a leaked handle.
type engine struct {
	mu     sync.Mutex
	client *gosseract.Client
	lang   ocr.Language
}

func (e *engine) Recognize(ctx context.Context, img ocr.Image, opts ocr.Options) (ocr.RawResult, error) {
	if err := ctx.Err(); err != nil {
		return ocr.RawResult{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.client
	if c == nil {
		return ocr.RawResult{}, fmt.Errorf("engine for %s is closed", e.lang)
	}
	if len(img.Bytes) > 0 {
		if err := c.SetImageFromBytes(img.Bytes); err != nil {
			return ocr.RawResult{}, fmt.Errorf("set image: %w", err)
		}
	} else if err := c.SetImage(img.Path); err != nil {
		return ocr.RawResult{}, fmt.Errorf("set image %s: %w", img.Path, err)
	}
	if err := c.SetPageSegMode(segMode(opts.Segmentation)); err != nil {
		return ocr.RawResult{}, fmt.Errorf("set page segmentation: %w", err)
	}
	for k, v := range variables(opts) {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return ocr.RawResult{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}
	text, err := c.Text()
	if err != nil {
		return ocr.RawResult{}, fmt.Errorf("recognize text: %w", err)
	}
	return ocr.RawResult{Text: text, Confidence: meanConfidence(c)}, nil
}

func (e *engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}

func segMode(m ocr.SegmentationMode) gosseract.PageSegMode {
	if m == 0 {
		m = ocr.SegmentAuto
	}
	return gosseract.PageSegMode(m)
}

// variables maps per-call options onto Tesseract variables. Every key is set
// on every call so a previous call's whitelist or spacing cannot leak into
// the next one on the same client.
func variables(opts ocr.Options) map[string]string {
	vars := map[string]string{
		"preserve_interword_spaces": "0",
		"tessedit_char_whitelist":   opts.Whitelist,
		"tessedit_char_blacklist":   opts.Blacklist,
	}
	if opts.PreserveSpaces {
		vars["preserve_interword_spaces"] = "1"
	}
	if mode, ok := engineModeValue(opts.Engine); ok {
		vars["tessedit_ocr_engine_mode"] = mode
	}
	return vars
}

func engineModeValue(m ocr.EngineMode) (string, bool) {
	switch m {
	case ocr.EngineLegacyOnly:
		return "0", true
	case ocr.EngineNeuralOnly:
		return "1", true
	case ocr.EngineLegacyAndLSTM:
		return "2", true
	default:
		return "", false
	}
}

// meanConfidence averages per-word confidences when Tesseract reports them;
// nil when it reports none.
func meanConfidence(c *gosseract.Client) *float64 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return nil
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence / 100.0
	}
	mean := sum / float64(len(boxes))
	return &mean
}

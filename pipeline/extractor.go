package pipeline

// Package pipeline orchestrates text extraction over the recognizer pool:
// single-image calls, strictly sequential multi-page batches with streamed
// progress, and an asynchronous job facade over batches.

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openscan/ocrkit/observability"
	"github.com/openscan/ocrkit/ocr"
	"github.com/openscan/ocrkit/pool"
)

// pageBreak separates page texts in an aggregated batch result.
const pageBreak = "\n\n"

// Extractor runs recognition against a pool of per-language engines. It is
// safe for concurrent use; a UI-triggered scan and a background batch can run
// at the same time.
type Extractor struct {
	pool  *pool.RecognizerPool
	log   observability.Logger
	pre   Preprocessor
	clock func() time.Time
}

// NewExtractor builds an extractor over an existing pool. Most callers want
// NewService instead, which owns the pool and scheduler too.
func NewExtractor(p *pool.RecognizerPool, opts ...Option) *Extractor {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Extractor{pool: p, log: cfg.logger, pre: cfg.pre, clock: cfg.clock}
}

// ExtractSingle recognizes one image. The handle is acquired for the
// duration of the call and released whether recognition succeeds or fails.
// Recognition failure surfaces as *ocr.RecognitionError; an empty image as
// *ocr.ValidationError before the pool is touched.
func (e *Extractor) ExtractSingle(ctx context.Context, img ocr.Image, opts ocr.Options) (ocr.Result, error) {
	if err := img.Validate(); err != nil {
		return ocr.Result{}, err
	}
	start := e.clock()
	raw, err := e.recognizeOne(ctx, img, opts)
	if err != nil {
		return ocr.Result{}, err
	}
	res := buildResult(raw.Text, opts.Language.Script(), raw.Confidence, e.clock().Sub(start))
	e.log.Debug("extraction complete",
		observability.String("language", res.Language.String()),
		observability.Int("words", res.WordCount),
		observability.Duration("took", res.ProcessingTime))
	return res, nil
}

// ExtractBatch recognizes the pages strictly sequentially, invoking
// onProgress after each one with the aggregate so far. An empty page list
// fails with *ocr.ValidationError before any pool interaction. A page failure
// aborts the batch and surfaces a *ocr.RecognitionError carrying the
// one-based failing page; no partial result is returned. The context is
// checked between pages so a long batch can be canceled.
func (e *Extractor) ExtractBatch(ctx context.Context, imgs []ocr.Image, opts ocr.Options, onProgress func(ocr.Progress)) (ocr.Result, error) {
	if len(imgs) == 0 {
		return ocr.Result{}, &ocr.ValidationError{Msg: "no pages to extract"}
	}
	start := e.clock()
	total := len(imgs)
	texts := make([]string, 0, total)
	var confSum float64
	confN := 0
	for i, img := range imgs {
		if err := ctx.Err(); err != nil {
			return ocr.Result{}, err
		}
		if err := img.Validate(); err != nil {
			return ocr.Result{}, err
		}
		raw, err := e.recognizeOne(ctx, img, opts)
		if err != nil {
			var rerr *ocr.RecognitionError
			if errors.As(err, &rerr) {
				rerr.Page = i + 1
			}
			return ocr.Result{}, err
		}
		texts = append(texts, strings.TrimSpace(raw.Text))
		if raw.Confidence != nil {
			confSum += *raw.Confidence
			confN++
		}
		if onProgress != nil {
			onProgress(ocr.Progress{
				CurrentPage: i + 1,
				TotalPages:  total,
				PartialText: strings.Join(texts, pageBreak),
			})
		}
	}
	var conf *float64
	if confN > 0 {
		mean := confSum / float64(confN)
		conf = &mean
	}
	res := buildResult(strings.Join(texts, pageBreak), opts.Language.Script(), conf, e.clock().Sub(start))
	e.log.Info("batch extraction complete",
		observability.Int("pages", total),
		observability.Int("words", res.WordCount),
		observability.Duration("took", res.ProcessingTime))
	return res, nil
}

// ContainsText reports whether the image holds any recognizable text. It is a
// best-effort diagnostic: any failure reports false.
func (e *Extractor) ContainsText(ctx context.Context, img ocr.Image, opts ocr.Options) bool {
	res, err := e.ExtractSingle(ctx, img, opts)
	if err != nil {
		return false
	}
	return res.HasText()
}

// recognizeOne runs one acquire/recognize/release cycle. Pool errors pass
// through unchanged; engine failures are wrapped as *ocr.RecognitionError.
func (e *Extractor) recognizeOne(ctx context.Context, img ocr.Image, opts ocr.Options) (ocr.RawResult, error) {
	img = e.preprocess(img, opts)
	h, err := e.pool.Acquire(ctx, opts.Language.Script())
	if err != nil {
		return ocr.RawResult{}, err
	}
	defer e.pool.Release(h)
	raw, err := h.Recognize(ctx, img, opts)
	if err != nil {
		return ocr.RawResult{}, &ocr.RecognitionError{Err: err}
	}
	return raw, nil
}

func (e *Extractor) preprocess(img ocr.Image, opts ocr.Options) ocr.Image {
	if !opts.Deskew || e.pre == nil || len(img.Bytes) == 0 {
		return img
	}
	data, err := e.pre.Normalize(img.Bytes, true)
	if err != nil {
		e.log.Warn("preprocess failed, using original image",
			observability.Error("error", err))
		return img
	}
	return ocr.FromBytes(data)
}

func buildResult(text string, lang ocr.Language, conf *float64, took time.Duration) ocr.Result {
	return ocr.Result{
		Text:           text,
		Language:       lang,
		Confidence:     conf,
		ProcessingTime: took,
		WordCount:      ocr.WordCountOf(text),
		LineCount:      ocr.LineCountOf(text),
	}
}

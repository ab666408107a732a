package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/openscan/ocrkit/ocr"
)

// StartBatch runs ExtractBatch on its own goroutine and returns a pollable,
// cancelable job. An empty page list is rejected synchronously with
// *ocr.ValidationError. The caller's onProgress, if any, is forwarded
// unchanged.
func (e *Extractor) StartBatch(ctx context.Context, imgs []ocr.Image, opts ocr.Options, onProgress func(ocr.Progress)) (ocr.Job, error) {
	if len(imgs) == 0 {
		return nil, &ocr.ValidationError{Msg: "no pages to extract"}
	}
	jctx, cancel := context.WithCancel(ctx)
	j := &batchJob{
		id:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
		status: ocr.JobStatus{State: ocr.JobStatePending},
	}
	go func() {
		j.setRunning()
		res, err := e.ExtractBatch(jctx, imgs, opts, func(p ocr.Progress) {
			j.observe(p)
			if onProgress != nil {
				onProgress(p)
			}
		})
		j.finish(res, err)
	}()
	return j, nil
}

type batchJob struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	status ocr.JobStatus
	result ocr.Result
	err    error
}

func (j *batchJob) ID() string { return j.id }

func (j *batchJob) Status() ocr.JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Cancel requests abort; the batch stops at the next page boundary.
func (j *batchJob) Cancel() { j.cancel() }

func (j *batchJob) Result(ctx context.Context) (ocr.Result, error) {
	select {
	case <-j.done:
		j.mu.Lock()
		defer j.mu.Unlock()
		return j.result, j.err
	case <-ctx.Done():
		return ocr.Result{}, ctx.Err()
	}
}

func (j *batchJob) setRunning() {
	j.mu.Lock()
	j.status.State = ocr.JobStateRunning
	j.mu.Unlock()
}

func (j *batchJob) observe(p ocr.Progress) {
	j.mu.Lock()
	j.status.Progress = float64(p.CurrentPage) / float64(p.TotalPages)
	j.status.Message = fmt.Sprintf("page %d/%d", p.CurrentPage, p.TotalPages)
	j.mu.Unlock()
}

func (j *batchJob) finish(res ocr.Result, err error) {
	j.mu.Lock()
	switch {
	case err == nil:
		j.status.State = ocr.JobStateSucceeded
		j.status.Progress = 1
		j.result = res
	case errors.Is(err, context.Canceled):
		j.status.State = ocr.JobStateCanceled
		j.err = err
	default:
		j.status.State = ocr.JobStateFailed
		j.status.Message = err.Error()
		j.err = err
	}
	j.mu.Unlock()
	close(j.done)
	j.cancel()
}

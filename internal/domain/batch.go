package domain

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	m "narrow.dev/pkg/narrow/internal/model"
)

// DefaultProgressInterval throttles progress notifications.
const DefaultProgressInterval = 100 * time.Millisecond

// ProgressFunc receives batch progress snapshots.
type ProgressFunc func(m.BatchProgress)

// BatchOptions tunes a batch run.
type BatchOptions struct {
	// Concurrency is the window size. Zero or less uses the number of CPUs.
	Concurrency int
	// ProgressInterval is the minimum time between two notifications.
	ProgressInterval time.Duration
	// Fix configures every rewrite of an OperationFix batch.
	Fix FixOptions
}

// Batcher fans a per-file operation out across a file list.
type Batcher interface {
	Batch(ctx context.Context, files []m.Path, op m.Operation, opts BatchOptions, onProgress ProgressFunc) m.BatchResult
}

type batcher struct {
	Analyzer
}

// NewBatcher creates a Batcher running operations through analyzer.
func NewBatcher(analyzer Analyzer) Batcher {
	return &batcher{Analyzer: analyzer}
}

// Batch processes files in windows of at most opts.Concurrency. Every file of
// a window settles before the next window starts. A failing file is recorded
// and never stops its siblings or later windows. The context is only
// consulted between windows.
func (b *batcher) Batch(
	ctx context.Context,
	files []m.Path,
	op m.Operation,
	opts BatchOptions,
	onProgress ProgressFunc,
) m.BatchResult {
	size := opts.Concurrency
	if size <= 0 {
		size = runtime.NumCPU()
	}

	interval := opts.ProgressInterval
	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	state := m.NewBatchJobState(op, len(files))
	throttle := &rate.Sometimes{Interval: interval}
	outcomes := make([]*m.FileOutcome, len(files))
	cancelled := false

	for start := 0; start < len(files); start += size {
		if err := ctx.Err(); err != nil {
			slog.Warn("Batch cancelled", "processed", start, "total", len(files), "error", err)

			cancelled = true

			break
		}

		end := min(start+size, len(files))
		b.runWindow(ctx, files, start, end, op, opts, state, outcomes, throttle, onProgress)
	}

	result := m.BatchResult{
		Operation: op,
		Total:     len(files),
		Errors:    state.Errors(),
		Outcomes:  make([]m.FileOutcome, 0, len(files)),
		Cancelled: cancelled,
	}

	final := state.Snapshot("")
	result.Processed = final.Processed
	result.Succeeded = final.Succeeded
	result.Failed = final.Failed
	result.Success = final.Failed == 0

	for _, outcome := range outcomes {
		if outcome != nil {
			result.Outcomes = append(result.Outcomes, *outcome)
		}
	}

	if onProgress != nil {
		onProgress(final)
	}

	return result
}

func (b *batcher) runWindow(
	ctx context.Context,
	files []m.Path,
	start, end int,
	op m.Operation,
	opts BatchOptions,
	state *m.BatchJobState,
	outcomes []*m.FileOutcome,
	throttle *rate.Sometimes,
	onProgress ProgressFunc,
) {
	var group errgroup.Group

	group.SetLimit(end - start)

	for i := start; i < end; i++ {
		index := i
		path := files[index]

		group.Go(func() error {
			outcome, err := b.process(ctx, path, op, opts)
			if err != nil {
				slog.Warn("File failed", "path", path, "operation", op, "error", err)
				state.RecordFailure(m.FileError{Path: path, Kind: m.KindOf(err), Message: err.Error()})
			} else {
				outcomes[index] = outcome
				state.RecordSuccess()
			}

			if onProgress != nil {
				throttle.Do(func() {
					onProgress(state.Snapshot(path))
				})
			}

			// Failures are recorded, never propagated to the group.
			return nil
		})
	}

	_ = group.Wait()
}

func (b *batcher) process(ctx context.Context, path m.Path, op m.Operation, opts BatchOptions) (*m.FileOutcome, error) {
	switch op {
	case m.OperationAnalyze:
		result, err := b.Analyze(ctx, path)
		if err != nil {
			return nil, err
		}

		return &m.FileOutcome{Path: path, Analysis: &result}, nil
	case m.OperationFix:
		result, err := b.Fix(ctx, path, opts.Fix)
		if err != nil {
			return nil, err
		}

		return &m.FileOutcome{Path: path, Fix: &result}, nil
	default:
		return nil, fmt.Errorf("unsupported operation %q", op)
	}
}

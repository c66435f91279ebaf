package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"narrow.dev/pkg/narrow/internal/adapter"
	"narrow.dev/pkg/narrow/internal/controller"
	m "narrow.dev/pkg/narrow/internal/model"
)

// ErrBatchFailed reports a batch in which at least one file failed.
var ErrBatchFailed = errors.New("one or more files failed")

// AnalyzeArgs contains the arguments for analyzing a file set.
type AnalyzeArgs struct {
	Paths   []m.Path
	Exclude []string
	Batch   BatchOptions
}

// FixArgs contains the arguments for rewriting a file set.
type FixArgs struct {
	Paths   []m.Path
	Exclude []string
	Batch   BatchOptions
}

// InterfaceArgs names the component whose props interface is generated.
type InterfaceArgs struct {
	Path      m.Path
	Component string
}

// Workflow drives the CLI operations end to end.
type Workflow interface {
	Analyze(ctx context.Context, args AnalyzeArgs) error
	Fix(ctx context.Context, args FixArgs) error
	Interface(ctx context.Context, args InterfaceArgs) error
	ClearCache(ctx context.Context) error
}

type workflow struct {
	adapter.SourceFSAdapter
	controller.UI
	Batcher

	analyzer Analyzer
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(fsAdapter adapter.SourceFSAdapter, ui controller.UI, analyzer Analyzer) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		UI:              ui,
		Batcher:         NewBatcher(analyzer),
		analyzer:        analyzer,
	}
}

// Analyze expands args.Paths and reports every escape hatch found.
func (w *workflow) Analyze(ctx context.Context, args AnalyzeArgs) error {
	result, err := w.runBatch(ctx, args.Paths, args.Exclude, m.OperationAnalyze, args.Batch, "narrow analyze")
	if err != nil {
		return err
	}

	analyses := make([]m.AnalysisResult, 0, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		if outcome.Analysis != nil {
			analyses = append(analyses, *outcome.Analysis)
		}
	}

	w.DisplayAnalysis(ctx, analyses)

	return w.finish(ctx, result)
}

// Fix expands args.Paths and rewrites every escape hatch found.
func (w *workflow) Fix(ctx context.Context, args FixArgs) error {
	title := "narrow fix"
	if args.Batch.Fix.DryRun {
		title = "narrow fix (dry run)"
	}

	result, err := w.runBatch(ctx, args.Paths, args.Exclude, m.OperationFix, args.Batch, title)
	if err != nil {
		return err
	}

	fixes := make([]m.FixResult, 0, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		if outcome.Fix != nil {
			fixes = append(fixes, *outcome.Fix)
		}
	}

	w.DisplayFix(ctx, fixes)

	return w.finish(ctx, result)
}

// Interface generates and displays the props interface of a component.
func (w *workflow) Interface(ctx context.Context, args InterfaceArgs) error {
	if err := w.Start(ctx, controller.WithSingleMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	result, err := w.analyzer.GenerateInterface(ctx, args.Path, args.Component)
	if err != nil {
		w.Close(ctx)
		w.Wait(ctx)
		slog.Error("Failed to generate interface", "path", args.Path, "component", args.Component, "error", err)

		return fmt.Errorf("generate interface: %w", err)
	}

	w.DisplayInterface(ctx, result)
	w.Close(ctx)
	w.Wait(ctx)

	return nil
}

// ClearCache drops every cached analysis.
func (w *workflow) ClearCache(ctx context.Context) error {
	if err := w.Start(ctx, controller.WithSingleMode()); err != nil {
		return err
	}

	if err := w.analyzer.ClearCache(ctx); err != nil {
		w.Close(ctx)
		w.Wait(ctx)
		slog.Error("Failed to clear cache", "error", err)

		return err
	}

	w.DisplayCacheCleared(ctx)
	w.Close(ctx)
	w.Wait(ctx)

	return nil
}

func (w *workflow) runBatch(
	ctx context.Context,
	paths []m.Path,
	exclude []string,
	op m.Operation,
	opts BatchOptions,
	title string,
) (m.BatchResult, error) {
	files, err := w.Get(ctx, paths, exclude...)
	if err != nil {
		slog.Error("Failed to expand paths", "paths", paths, "error", err)
		return m.BatchResult{}, fmt.Errorf("get sources: %w", err)
	}

	slog.Info("Starting batch", "operation", op, "files", len(files), "concurrency", opts.Concurrency)

	if err := w.Start(ctx, controller.WithBatchMode(title)); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return m.BatchResult{}, err
	}

	result := w.Batch(ctx, files, op, opts, func(progress m.BatchProgress) {
		w.DisplayProgress(ctx, progress)
	})

	return result, nil
}

func (w *workflow) finish(ctx context.Context, result m.BatchResult) error {
	w.DisplayBatchSummary(ctx, result)
	w.Close(ctx)
	w.Wait(ctx)

	slog.Info("Batch finished",
		"operation", result.Operation,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"cancelled", result.Cancelled,
	)

	if result.Cancelled {
		return fmt.Errorf("%s cancelled: %w", result.Operation, context.Canceled)
	}

	if !result.Success {
		return fmt.Errorf("%s: %d of %d file(s): %w", result.Operation, result.Failed, result.Total, ErrBatchFailed)
	}

	return nil
}

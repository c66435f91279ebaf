package controller

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	m "narrow.dev/pkg/narrow/internal/model"
)

// SimpleUI implements UI by printing tables to the command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayProgress prints one line per progress notification.
func (s *SimpleUI) DisplayProgress(ctx context.Context, progress m.BatchProgress) {
	if err := ctx.Err(); err != nil {
		return
	}

	if progress.Current == "" {
		return
	}

	s.printf("[%d/%d] %s\n", progress.Processed, progress.Total, progress.Current)
}

// DisplayAnalysis prints the occurrence table.
func (s *SimpleUI) DisplayAnalysis(ctx context.Context, results []m.AnalysisResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderAnalysisTable(results))
}

// DisplayFix prints the change table followed by the diffs.
func (s *SimpleUI) DisplayFix(ctx context.Context, results []m.FixResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderFixTable(results))

	if diff := joinDiffs(results); diff != "" {
		s.printf("\n%s", diff)
	}
}

// DisplayBatchSummary prints counts and per-file errors.
func (s *SimpleUI) DisplayBatchSummary(ctx context.Context, result m.BatchResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderSummaryTable(result))

	if result.Cancelled {
		s.printf("Batch cancelled after %d of %d file(s)\n", result.Processed, result.Total)
	}
}

// DisplayInterface prints the generated declaration and its props.
func (s *SimpleUI) DisplayInterface(ctx context.Context, result m.InterfaceResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n%s", result.Declaration, renderPropsTable(result))
}

// DisplayCacheCleared confirms the cache was emptied.
func (s *SimpleUI) DisplayCacheCleared(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Cache cleared\n")
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

// Package controller provides output adapters for displaying analysis and rewrite results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	m "narrow.dev/pkg/narrow/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeSingle StartMode = iota
	ModeBatch
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode  StartMode
	title string
}

// WithBatchMode shows live progress while a batch runs.
func WithBatchMode(title string) StartOption {
	return func(c *StartConfig) {
		c.mode = ModeBatch
		c.title = title
	}
}

// WithSingleMode renders results of a single-file operation.
func WithSingleMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeSingle
	}
}

func newStartConfig(options ...StartOption) StartConfig {
	cfg := StartConfig{mode: ModeSingle}
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// UI defines the interface for displaying operation results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish rendering
	DisplayProgress(ctx context.Context, progress m.BatchProgress)
	DisplayAnalysis(ctx context.Context, results []m.AnalysisResult)
	DisplayFix(ctx context.Context, results []m.FixResult)
	DisplayBatchSummary(ctx context.Context, result m.BatchResult)
	DisplayInterface(ctx context.Context, result m.InterfaceResult)
	DisplayCacheCleared(ctx context.Context)
}

// NewUI picks the interactive TUI on a terminal and plain tables otherwise.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	m "narrow.dev/pkg/narrow/internal/model"
)

func newBufferedSimpleUI() (*SimpleUI, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	return NewSimpleUI(cmd), &buf
}

func sampleAnalysis() m.AnalysisResult {
	return m.AnalysisResult{
		Path: "src/api.ts",
		Occurrences: []m.Occurrence{
			{
				Line:        3,
				Column:      14,
				Context:     m.ContextFunction,
				Pattern:     m.SurfacePattern{Kind: m.PatternParameter, Name: "data", Text: "data: any"},
				Replacement: "Record<string, unknown>",
				Source:      m.SourceRule,
				Rule:        "data-param",
			},
		},
		Total: 1,
	}
}

func TestSimpleUI_DisplayAnalysis(t *testing.T) {
	tests := []struct {
		name         string
		results      []m.AnalysisResult
		wantContains []string
	}{
		{
			name:         "no files",
			results:      nil,
			wantContains: []string{"TOTAL FILES 0"},
		},
		{
			name:    "one occurrence",
			results: []m.AnalysisResult{sampleAnalysis()},
			wantContains: []string{
				"src/api.ts", "3:14", "function", "data: any",
				"Record<string, unknown>", "rule (data-param)", "TOTAL FILES 1",
			},
		},
		{
			name: "file without escape hatches",
			results: []m.AnalysisResult{
				sampleAnalysis(),
				{Path: "src/clean.ts", Occurrences: []m.Occurrence{}},
			},
			wantContains: []string{"src/api.ts", "TOTAL FILES 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui, buf := newBufferedSimpleUI()
			ui.DisplayAnalysis(context.Background(), tt.results)

			got := buf.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("DisplayAnalysis() output missing %q, got: %s", want, got)
				}
			}
		})
	}
}

func TestSimpleUI_DisplayFix(t *testing.T) {
	ui, buf := newBufferedSimpleUI()

	ui.DisplayFix(context.Background(), []m.FixResult{
		{
			Path:   "src/a.ts",
			DryRun: true,
			Changes: []m.FixChange{
				{Line: 4, Column: 10, Original: "any", Replacement: "number"},
				{Line: 1, Column: 8, Original: "any", Replacement: "boolean"},
			},
			Diff: "--- src/a.ts\n+++ src/a.ts\n@@ -1 +1 @@\n-let a: any\n+let a: boolean\n",
		},
		{Path: "src/b.ts", Changes: []m.FixChange{}},
	})

	got := buf.String()
	assert.Contains(t, got, "dry-run")
	assert.Contains(t, got, "unchanged")
	assert.Contains(t, got, "+let a: boolean")
	assert.Less(t, strings.Index(got, "1:8"), strings.Index(got, "4:10"), "changes are listed top-down")
}

func TestSimpleUI_DisplayProgress(t *testing.T) {
	ui, buf := newBufferedSimpleUI()
	ctx := context.Background()

	ui.DisplayProgress(ctx, m.BatchProgress{Total: 4, Processed: 2, Current: "src/a.ts"})
	ui.DisplayProgress(ctx, m.BatchProgress{Total: 4, Processed: 4})

	assert.Equal(t, "[2/4] src/a.ts\n", buf.String())
}

func TestSimpleUI_DisplayBatchSummary(t *testing.T) {
	ui, buf := newBufferedSimpleUI()

	ui.DisplayBatchSummary(context.Background(), m.BatchResult{
		Operation: m.OperationAnalyze,
		Total:     10,
		Processed: 6,
		Succeeded: 5,
		Failed:    1,
		Errors:    []m.FileError{{Path: "src/bad.ts", Kind: m.KindIO, Message: "io failure: read src/bad.ts"}},
		Cancelled: true,
	})

	got := buf.String()
	assert.Contains(t, got, "analyze")
	assert.Contains(t, got, "src/bad.ts")
	assert.Contains(t, got, m.KindIO)
	assert.Contains(t, got, "Batch cancelled after 6 of 10 file(s)")
}

func TestSimpleUI_DisplayInterface(t *testing.T) {
	ui, buf := newBufferedSimpleUI()

	ui.DisplayInterface(context.Background(), m.InterfaceResult{
		InterfaceName: "CardProps",
		Declaration:   "export interface CardProps {\n  title: string;\n}\n",
		Props:         []m.PropDescriptor{{Name: "title", Type: "string", Required: true, Origin: m.OriginName}},
	})

	got := buf.String()
	assert.True(t, strings.HasPrefix(got, "export interface CardProps {"))
	assert.Contains(t, got, "title")
	assert.Contains(t, got, "true")
}

func TestSimpleUI_CancelledContextPrintsNothing(t *testing.T) {
	ui, buf := newBufferedSimpleUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, ui.Start(ctx))
	ui.DisplayAnalysis(ctx, []m.AnalysisResult{sampleAnalysis()})
	ui.DisplayCacheCleared(ctx)

	assert.Empty(t, buf.String())
}

func TestSimpleUI_DisplayCacheCleared(t *testing.T) {
	ui, buf := newBufferedSimpleUI()
	ui.DisplayCacheCleared(context.Background())

	assert.Equal(t, "Cache cleared\n", buf.String())
}

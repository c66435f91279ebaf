package domain

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/pmezard/go-difflib/difflib"
	m "narrow.dev/pkg/narrow/internal/model"
)

// Fix rewrites every targeted annotation of path with its proposed
// replacement. The file is always scanned fresh. A dry run returns the same
// changes and diff without touching the file.
func (a *analyzer) Fix(ctx context.Context, path m.Path, opts FixOptions) (m.FixResult, error) {
	src, err := a.ReadFile(ctx, path)
	if err != nil {
		return m.FixResult{}, err
	}

	defaultType := opts.ReplacementDefault
	if defaultType == "" {
		defaultType = a.opts.DefaultType
	}

	occurrences, err := a.scan(ctx, path, src, a.HashContent(src), defaultType)
	if err != nil {
		return m.FixResult{}, err
	}

	result := m.FixResult{
		Path:    path,
		Changes: planChanges(src, occurrences),
		DryRun:  opts.DryRun,
	}

	if len(result.Changes) == 0 {
		return result, nil
	}

	rewritten := applyChanges(src, result.Changes)

	result.Diff, err = unifiedDiff(path, src, rewritten)
	if err != nil {
		slog.Warn("Failed to render diff", "path", path, "error", err)
	}

	if opts.DryRun {
		return result, nil
	}

	if opts.Backup {
		backupPath, err := a.Backup(ctx, path, src)
		if err != nil {
			return m.FixResult{}, fmt.Errorf("backup %s: %w", path, err)
		}

		result.BackupPath = backupPath
	}

	if err := a.WriteFile(ctx, path, rewritten); err != nil {
		return m.FixResult{}, fmt.Errorf("write %s: %w", path, err)
	}

	result.Applied = true
	slog.Info("Applied fixes", "path", path, "changes", len(result.Changes), "backup", result.BackupPath)

	return result, nil
}

// planChanges orders edits by descending start so applying them one by one
// never shifts the offsets of the edits still pending.
func planChanges(src []byte, occurrences []m.Occurrence) []m.FixChange {
	changes := make([]m.FixChange, 0, len(occurrences))

	for _, occurrence := range occurrences {
		changes = append(changes, m.FixChange{
			Start:       occurrence.Start,
			End:         occurrence.End,
			Line:        occurrence.Line,
			Column:      occurrence.Column,
			Original:    string(src[occurrence.Start:occurrence.End]),
			Replacement: occurrence.Replacement,
		})
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Start > changes[j].Start
	})

	return changes
}

func applyChanges(src []byte, changes []m.FixChange) []byte {
	out := make([]byte, len(src))
	copy(out, src)

	for _, change := range changes {
		next := make([]byte, 0, len(out)-(change.End-change.Start)+len(change.Replacement))
		next = append(next, out[:change.Start]...)
		next = append(next, change.Replacement...)
		next = append(next, out[change.End:]...)
		out = next
	}

	return out
}

func unifiedDiff(path m.Path, before, after []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: string(path),
		ToFile:   string(path),
		Context:  3,
	})
}

package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"narrow.dev/pkg/narrow/internal/adapter"
	m "narrow.dev/pkg/narrow/internal/model"
)

// Options carries the analysis settings every operation shares.
type Options struct {
	// DefaultType replaces annotations that neither rules nor inference resolve.
	DefaultType string
	// Rules are user rules evaluated before the built-in table.
	Rules []m.ReplacementRule
}

// FixOptions tunes a single rewrite.
type FixOptions struct {
	// ReplacementDefault overrides Options.DefaultType for this rewrite.
	ReplacementDefault string
	// DryRun computes changes and the diff without writing.
	DryRun bool
	// Backup writes the original text next to the file before rewriting it.
	Backup bool
}

// Analyzer runs the per-file operations.
type Analyzer interface {
	Analyze(ctx context.Context, path m.Path) (m.AnalysisResult, error)
	Fix(ctx context.Context, path m.Path, opts FixOptions) (m.FixResult, error)
	GenerateInterface(ctx context.Context, path m.Path, component string) (m.InterfaceResult, error)
	ClearCache(ctx context.Context) error
}

type analyzer struct {
	adapter.SourceFSAdapter
	adapter.TSFileAdapter
	Scanner
	PropExtractor

	cache       *ResultCache[m.AnalysisResult]
	opts        Options
	fingerprint string
}

// NewAnalyzer wires an Analyzer. A nil cache disables caching.
func NewAnalyzer(
	fsAdapter adapter.SourceFSAdapter,
	parser adapter.TSFileAdapter,
	cache *ResultCache[m.AnalysisResult],
	opts Options,
) Analyzer {
	return &analyzer{
		SourceFSAdapter: fsAdapter,
		TSFileAdapter:   parser,
		Scanner:         NewScanner(NewClassifier(), NewRuleMatcher(opts.Rules...)),
		PropExtractor:   NewPropExtractor(),
		cache:           cache,
		opts:            opts,
		fingerprint:     optionsFingerprint(opts),
	}
}

// optionsFingerprint folds everything that changes scan output into the cache key.
func optionsFingerprint(opts Options) string {
	var b strings.Builder

	b.WriteString(normalizeDefault(opts.DefaultType))

	for _, rule := range opts.Rules {
		pattern := ""
		if rule.NamePattern != nil {
			pattern = rule.NamePattern.String()
		}

		b.WriteString("\x00")

		for _, field := range []string{
			rule.Name, string(rule.Kind), pattern, rule.Generic,
			rule.ParentKind, string(rule.Context), rule.Replacement,
		} {
			b.WriteString(field)
			b.WriteString("\x1f")
		}
	}

	return b.String()
}

func (a *analyzer) cacheKey(path m.Path, hash string) string {
	return string(path) + "\x00" + hash + "\x00" + a.fingerprint
}

// Analyze lists the targeted annotations of path. Results for unchanged
// content are served from the cache.
func (a *analyzer) Analyze(ctx context.Context, path m.Path) (m.AnalysisResult, error) {
	src, err := a.ReadFile(ctx, path)
	if err != nil {
		return m.AnalysisResult{}, err
	}

	hash := a.HashContent(src)
	key := a.cacheKey(path, hash)

	if cached, ok := a.cache.Get(ctx, key); ok {
		slog.Debug("Analysis served from cache", "path", path)
		return cached, nil
	}

	occurrences, err := a.scan(ctx, path, src, hash, a.opts.DefaultType)
	if err != nil {
		return m.AnalysisResult{}, err
	}

	result := m.AnalysisResult{
		Path:        path,
		Hash:        hash,
		Occurrences: occurrences,
		Total:       len(occurrences),
	}

	a.cache.Set(ctx, key, result)

	return result, nil
}

func (a *analyzer) scan(ctx context.Context, path m.Path, src []byte, hash, defaultType string) ([]m.Occurrence, error) {
	unit, err := a.Parse(ctx, path, src, hash)
	if err != nil {
		return nil, err
	}
	defer unit.Close()

	return a.Scan(unit, ScanOptions{DefaultType: defaultType}), nil
}

// GenerateInterface reconstructs the props interface of component in path.
func (a *analyzer) GenerateInterface(ctx context.Context, path m.Path, component string) (m.InterfaceResult, error) {
	src, err := a.ReadFile(ctx, path)
	if err != nil {
		return m.InterfaceResult{}, err
	}

	unit, err := a.Parse(ctx, path, src, a.HashContent(src))
	if err != nil {
		return m.InterfaceResult{}, err
	}
	defer unit.Close()

	return a.Extract(unit, component)
}

// ClearCache drops every cached analysis.
func (a *analyzer) ClearCache(ctx context.Context) error {
	if err := a.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	return nil
}

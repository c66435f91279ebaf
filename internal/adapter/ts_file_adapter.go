package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	m "narrow.dev/pkg/narrow/internal/model"
)

// DefaultExtensions lists the TypeScript source extensions scanned by default.
var DefaultExtensions = []string{".ts", ".tsx", ".mts", ".cts"}

// TSFileAdapter encapsulates TypeScript parsing so the domain layer works on
// syntax trees without knowing which grammar produced them.
type TSFileAdapter interface {
	// Parse builds a source unit for the given text. Trees containing syntax
	// errors are still returned; only text that cannot be parsed at all fails.
	Parse(ctx context.Context, path m.Path, src []byte, hash string) (*m.SourceUnit, error)
}

// LocalTSFileAdapter provides a concrete TSFileAdapter backed by tree-sitter.
type LocalTSFileAdapter struct{}

// NewLocalTSFileAdapter constructs a LocalTSFileAdapter.
func NewLocalTSFileAdapter() *LocalTSFileAdapter {
	return &LocalTSFileAdapter{}
}

// Parse picks the TSX grammar for .tsx files and the TypeScript grammar otherwise.
func (a *LocalTSFileAdapter) Parse(ctx context.Context, path m.Path, src []byte, hash string) (*m.SourceUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !utf8.Valid(src) {
		return nil, fmt.Errorf("%w: %s: content is not valid UTF-8", m.ErrParseFailure, path)
	}

	// One parser per call keeps concurrent batch workers independent.
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(languageFor(path))

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		return nil, fmt.Errorf("%w: %s: %v", m.ErrParseFailure, path, err)
	}

	if tree == nil || tree.RootNode() == nil {
		if tree != nil {
			tree.Close()
		}

		return nil, fmt.Errorf("%w: %s: no syntax tree produced", m.ErrParseFailure, path)
	}

	if tree.RootNode().HasError() {
		slog.Debug("Source contains syntax errors, continuing with partial tree", "path", path)
	}

	return m.NewSourceUnit(path, src, hash, tree), nil
}

func languageFor(path m.Path) *sitter.Language {
	if strings.EqualFold(filepath.Ext(string(path)), ".tsx") {
		return tsx.GetLanguage()
	}

	return typescript.GetLanguage()
}

// IsTypeScriptFile reports whether path carries one of the given extensions.
func IsTypeScriptFile(path string, extensions []string) bool {
	if strings.HasSuffix(path, ".d.ts") {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range extensions {
		if ext == strings.ToLower(candidate) {
			return true
		}
	}

	return false
}

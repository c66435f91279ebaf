package domain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/require"
	"narrow.dev/pkg/narrow/internal/adapter"
	m "narrow.dev/pkg/narrow/internal/model"
)

func parseUnit(t *testing.T, path, src string) *m.SourceUnit {
	t.Helper()

	unit, err := adapter.NewLocalTSFileAdapter().Parse(context.Background(), m.Path(path), []byte(src), "test-hash")
	require.NoError(t, err)
	t.Cleanup(unit.Close)

	return unit
}

func scanSource(t *testing.T, path, src string, opts ScanOptions) []m.Occurrence {
	t.Helper()

	unit := parseUnit(t, path, src)

	return NewScanner(NewClassifier(), NewRuleMatcher()).Scan(unit, opts)
}

// firstEscapeHatch returns the first predefined "any" node in source order.
func firstEscapeHatch(t *testing.T, unit *m.SourceUnit) *sitter.Node {
	t.Helper()

	var found *sitter.Node

	preorder(unit.Root, func(n *sitter.Node) bool {
		if n.Type() == kindPredefinedType && n.Content(unit.Text) == m.EscapeHatch {
			found = n
			return false
		}

		return true
	})

	require.NotNil(t, found, "no escape hatch in %q", string(unit.Text))

	return found
}

// firstOfKind returns the first named node of kind in source order.
func firstOfKind(t *testing.T, unit *m.SourceUnit, kind string) *sitter.Node {
	t.Helper()

	var found *sitter.Node

	preorder(unit.Root, func(n *sitter.Node) bool {
		if n.Type() == kind {
			found = n
			return false
		}

		return true
	})

	require.NotNil(t, found, "no %s in %q", kind, string(unit.Text))

	return found
}

func writeSource(t *testing.T, dir, name, contents string) m.Path {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	return m.Path(path)
}

func readSource(t *testing.T, path m.Path) string {
	t.Helper()

	data, err := os.ReadFile(string(path))
	require.NoError(t, err)

	return string(data)
}

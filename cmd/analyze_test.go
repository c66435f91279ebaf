package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiSource = "export function save(data: any) {\n  return data;\n}\n"

func chdirTemp(t *testing.T) string {
	t.Helper()

	tempDir := t.TempDir()
	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(originalWD)) })

	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	return tempDir
}

func writeTempFile(t *testing.T, path, contents string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func executeSubcommand(t *testing.T, sub *cobra.Command, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	cmd.AddCommand(sub)

	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()

	return output.String(), err
}

func TestAnalyzeCmd_ReportsReplacements(t *testing.T) {
	tempDir := chdirTemp(t)
	writeTempFile(t, filepath.Join(tempDir, "src", "api.ts"), apiSource)
	writeTempFile(t, filepath.Join(tempDir, "src", "README.md"), "any\n")

	output, err := executeSubcommand(t, newAnalyzeCmd(), "analyze", "--no-cache", "./src")
	require.NoError(t, err)

	assert.Contains(t, output, filepath.Join("src", "api.ts"))
	assert.Contains(t, output, "Record<string, unknown>")
	assert.NotContains(t, output, "README.md")
	assert.NoDirExists(t, filepath.Join(tempDir, defaultCacheDir))
}

func TestAnalyzeCmd_PopulatesCache(t *testing.T) {
	tempDir := chdirTemp(t)
	writeTempFile(t, filepath.Join(tempDir, "src", "api.ts"), apiSource)

	first, err := executeSubcommand(t, newAnalyzeCmd(), "analyze", "./src/...")
	require.NoError(t, err)

	second, err := executeSubcommand(t, newAnalyzeCmd(), "analyze", "./src/...")
	require.NoError(t, err)

	assert.Equal(t, first, second)

	entries, err := os.ReadDir(filepath.Join(tempDir, defaultCacheDir))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestAnalyzeCmd_Exclude(t *testing.T) {
	tempDir := chdirTemp(t)
	writeTempFile(t, filepath.Join(tempDir, "src", "api.ts"), apiSource)
	writeTempFile(t, filepath.Join(tempDir, "src", "api.test.ts"), apiSource)

	output, err := executeSubcommand(t, newAnalyzeCmd(), "analyze", "--no-cache", "-x", `\.test\.ts$`, "./src")
	require.NoError(t, err)

	assert.Contains(t, output, filepath.Join("src", "api.ts"))
	assert.NotContains(t, output, "api.test.ts")
}

func TestAnalyzeCmd_MissingPath(t *testing.T) {
	chdirTemp(t)

	_, err := executeSubcommand(t, newAnalyzeCmd(), "analyze", "--no-cache", "./missing")
	require.Error(t, err)
}

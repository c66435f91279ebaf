package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestInitCmd_WritesNarrowDefaults(t *testing.T) {
	tempDir := chdirTemp(t)

	_, err := executeSubcommand(t, newInitCmd(), "init")
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(tempDir, configFileName))
	require.NoError(t, err)

	var written map[string]any
	require.NoError(t, yaml.Unmarshal(contents, &written))

	for _, section := range []string{"analysis", "batch", "cache", "fix", "log", "rules"} {
		assert.Contains(t, written, section)
	}

	assert.EqualValues(t, currentConfigVersion, written[configVersionKey])

	cache, ok := written["cache"].(map[string]any)
	require.True(t, ok, "cache section is %T", written["cache"])
	assert.Contains(t, cache, "backend")
	assert.Contains(t, cache, "ttl_seconds")
}

func TestInitCmd_KeepsExistingConfig(t *testing.T) {
	tempDir := chdirTemp(t)

	targetPath := filepath.Join(tempDir, configFileName)
	writeTempFile(t, targetPath, "analysis:\n  default_type: never\n")

	_, err := executeSubcommand(t, newInitCmd(), "init")
	require.Error(t, err)

	contents, err := os.ReadFile(targetPath)
	require.NoError(t, err)
	assert.Equal(t, "analysis:\n  default_type: never\n", string(contents))
}

package cmd

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_NamesNarrow(t *testing.T) {
	chdirTemp(t)

	output, err := executeSubcommand(t, newVersionCmd(), "version")
	require.NoError(t, err)

	if strings.Contains(output, unknownVersion) {
		return
	}

	assert.Contains(t, output, "narrow version")
	assert.Contains(t, output, "go version")
	assert.NotContains(t, output, "tool version")
}

func TestBuildSetting(t *testing.T) {
	info := &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs", Value: "git"},
		{Key: "vcs.revision", Value: "4f2a9c1"},
	}}

	assert.Equal(t, "4f2a9c1", buildSetting(info, "vcs.revision"))
	assert.Empty(t, buildSetting(info, "vcs.time"))
}

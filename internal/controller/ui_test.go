package controller

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestNewUI(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	assert.IsType(t, &TUI{}, NewUI(cmd, true))
	assert.IsType(t, &SimpleUI{}, NewUI(cmd, false))
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

func TestNewStartConfig(t *testing.T) {
	cfg := newStartConfig()
	assert.Equal(t, ModeSingle, cfg.mode)

	cfg = newStartConfig(WithBatchMode("narrow analyze"))
	assert.Equal(t, ModeBatch, cfg.mode)
	assert.Equal(t, "narrow analyze", cfg.title)

	cfg = newStartConfig(WithBatchMode("x"), WithSingleMode())
	assert.Equal(t, ModeSingle, cfg.mode)
}

package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterfaceCmd_PrintsDeclaration(t *testing.T) {
	tempDir := chdirTemp(t)
	writeTempFile(t, filepath.Join(tempDir, "Card.tsx"),
		"export const Card = ({ title, count = 0 }) => <h1>{title}{count}</h1>;\n")

	output, err := executeSubcommand(t, newInterfaceCmd(), "interface", "Card.tsx", "Card")
	require.NoError(t, err)

	assert.Contains(t, output, "export interface CardProps {")
	assert.Contains(t, output, "count?: number;")
	assert.Contains(t, output, "export type CardDefaultProps = Partial<CardProps>;")
}

func TestInterfaceCmd_UnknownComponent(t *testing.T) {
	tempDir := chdirTemp(t)
	writeTempFile(t, filepath.Join(tempDir, "Card.tsx"), "export const Card = () => null;\n")

	_, err := executeSubcommand(t, newInterfaceCmd(), "interface", "Card.tsx", "Missing")
	require.Error(t, err)
}

func TestInterfaceCmd_RequiresTwoArgs(t *testing.T) {
	chdirTemp(t)

	_, err := executeSubcommand(t, newInterfaceCmd(), "interface", "Card.tsx")
	require.Error(t, err)
}

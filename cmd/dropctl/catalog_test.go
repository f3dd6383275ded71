package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/auradrop/dropbot/dropbot/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupSummary(t *testing.T) {
	lines := groupSummary([]catalog.Card{
		{Name: "Aria", Group: "Nova"},
		{Name: "Bea", Group: "Nova"},
		{Name: "Cleo", Group: "Astra"},
		{Name: "Solo"},
	})
	assert.Equal(t, []string{"  (no group): 1", "  Astra: 1", "  Nova: 2"}, lines)
}

func TestCatalogCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Aria","group":"Nova"},{"name":"Bea","group":"Nova"}]`), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"catalog", path})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "2 cards\n  Nova: 2\n", out.String())
}

func TestCatalogCommand_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"group":"Nova"}]`), 0o600))

	rootCmd.SetArgs([]string{"catalog", path})
	assert.Error(t, rootCmd.Execute())
}

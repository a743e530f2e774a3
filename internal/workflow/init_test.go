package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/gwt/internal/model"
)

func TestInit(t *testing.T) {
	h := newHarness(t)
	root := h.root()
	writeRootFile(t, root, ".gitignore", "# secrets\n.env\n\nnode_modules/\n*.log\n")
	writeRootFile(t, root, ".env", "A=1\n")
	writeRootFile(t, root, "debug.log", "")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules"), 0o755))

	h.prompter.Answers = []bool{true, false, true}

	result, err := h.svc.Init(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{".env", "*.log"}, result.Items)

	assert.Equal(t, []string{
		"Should '.env' be added to .gwtconfig? (matches: .env)",
		"Should 'node_modules/' be added to .gwtconfig? (matches: node_modules)",
		"Should '*.log' be added to .gwtconfig? (matches: debug.log)",
	}, h.prompter.Labels)

	data, err := os.ReadFile(filepath.Join(root, ".gwtconfig"))
	require.NoError(t, err)
	assert.Equal(t, ".env\n*.log\n", string(data))
}

func TestInit_OverwritesExistingConfig(t *testing.T) {
	h := newHarness(t)
	writeRootFile(t, h.root(), ".gitignore", ".idea\n")
	writeRootFile(t, h.root(), ".gwtconfig", "old-entry\n")
	h.prompter.Answers = []bool{true}

	_, err := h.svc.Init(context.Background(), h.root())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(h.root(), ".gwtconfig"))
	require.NoError(t, err)
	assert.Equal(t, ".idea\n", string(data))
	assert.Equal(t, []string{"Should '.idea' be added to .gwtconfig?"}, h.prompter.Labels)
}

func TestInit_NothingSelected(t *testing.T) {
	h := newHarness(t)
	writeRootFile(t, h.root(), ".gitignore", ".env\n.cache\n")
	writeRootFile(t, h.root(), ".gwtconfig", "keep-me\n")

	result, err := h.svc.Init(context.Background(), h.root())
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Contains(t, h.logs.String(), "No items selected for .gwtconfig.")

	data, err := os.ReadFile(filepath.Join(h.root(), ".gwtconfig"))
	require.NoError(t, err)
	assert.Equal(t, "keep-me\n", string(data), "config is left untouched")
}

func TestInit_MissingGitignore(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Init(context.Background(), h.root())
	require.Error(t, err)
	assert.Equal(t, "No .gitignore file found in the repository root.", err.Error())
	assert.Empty(t, h.prompter.Labels)

	_, statErr := os.Stat(filepath.Join(h.root(), model.ConfigFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFormatMatches(t *testing.T) {
	assert.Equal(t, "a, b", formatMatches([]string{"a", "b"}))
	assert.Equal(t, "a, b, c and 2 more", formatMatches([]string{"a", "b", "c", "d", "e"}))
}

func TestMatchingEntries(t *testing.T) {
	entries := []dirEntry{{name: "build", isDir: true}, {name: "build.sh"}, {name: "app.log"}}

	assert.Equal(t, []string{"build"}, matchingEntries("build/", entries))
	assert.Equal(t, []string{"app.log"}, matchingEntries("*.log", entries))
	assert.Empty(t, matchingEntries("!app.log", entries), "negations never exclude")
}

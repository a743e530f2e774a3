// Package cli — list_test.go contains unit tests for the pure formatting
// functions used by the list command and other CLI output helpers.
//
// These tests verify data transformation logic without requiring git or
// any external binaries.
package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/gwt/internal/model"
	"github.com/mmr-tortoise/gwt/internal/workflow"
	"github.com/mmr-tortoise/gwt/internal/worktree"
)

func TestFormatTracked(t *testing.T) {
	tests := []struct {
		name  string
		items []workflow.TrackedItem
		want  string
	}{
		{
			name:  "nil items returns dash",
			items: nil,
			want:  "-",
		},
		{
			name: "all missing returns dash",
			items: []workflow.TrackedItem{
				{Item: ".env", State: workflow.ItemMissing},
			},
			want: "-",
		},
		{
			name: "present and linked keep config order",
			items: []workflow.TrackedItem{
				{Item: ".env", State: workflow.ItemPresent},
				{Item: "tmp/", State: workflow.ItemMissing},
				{Item: ".vscode", State: workflow.ItemLinked},
			},
			want: ".env, .vscode@",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTracked(tt.items))
		})
	}
}

func TestFormatBranch(t *testing.T) {
	tests := []struct {
		name string
		wt   worktree.WorktreeInfo
		want string
	}{
		{"branch", worktree.WorktreeInfo{Branch: "refs/heads/feature/x"}, "feature/x"},
		{"bare", worktree.WorktreeInfo{IsBare: true}, "(bare)"},
		{"detached", worktree.WorktreeInfo{HEAD: "abc"}, "(detached)"},
		{"prunable", worktree.WorktreeInfo{Branch: "refs/heads/old", IsPrunable: true}, "old (prunable)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBranch(tt.wt))
		})
	}
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "-", ShortHash(""))
	assert.Equal(t, "abc", ShortHash("abc"))
	assert.Equal(t, "1a2b3c4", ShortHash("1a2b3c4d5e6f"))
}

func TestPrintListText(t *testing.T) {
	var buf bytes.Buffer
	err := printListText(&buf, []workflow.ListEntry{
		{
			WorktreeInfo: worktree.WorktreeInfo{Path: "/src/repo/main", Branch: "refs/heads/main", HEAD: "1a2b3c4d5e"},
			Tracked:      []workflow.TrackedItem{{Item: ".env", State: workflow.ItemPresent}},
		},
		{
			WorktreeInfo: worktree.WorktreeInfo{Path: "/src/repo/feature_x", Branch: "refs/heads/feature/x", HEAD: "5d6e7f8a9b"},
			Tracked:      []workflow.TrackedItem{{Item: ".env", State: workflow.ItemLinked}},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "/src/repo/feature_x")
	assert.Contains(t, out, "feature/x")
	assert.Contains(t, out, "5d6e7f8")
	assert.Contains(t, out, ".env@")
}

func TestPrintListText_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printListText(&buf, nil))
	assert.Equal(t, "No worktrees found.\n", buf.String())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, model.ExitGeneralError, exitCode(errors.New("boom")))
	assert.Equal(t, model.ExitGeneralError, exitCode(model.NewCLIError(model.KindCommand, "git failed")))
}

func TestPrintError(t *testing.T) {
	err := model.CommandError("The branch x is not fully merged and will not be deleted", model.ErrBranchNotMerged)

	t.Run("text", func(t *testing.T) {
		jsonOutput = false
		var buf bytes.Buffer
		printError(&buf, err)
		assert.Contains(t, buf.String(), "Error:")
		assert.Contains(t, buf.String(), "The branch x is not fully merged and will not be deleted")
	})

	t.Run("json", func(t *testing.T) {
		jsonOutput = true
		defer func() { jsonOutput = false }()

		var buf bytes.Buffer
		printError(&buf, err)
		assert.JSONEq(t, `{"error": {
			"kind": "command",
			"message": "The branch x is not fully merged and will not be deleted",
			"detail": "branch is not fully merged"
		}}`, buf.String())
	})
}

// TestPrintErrorJoined covers remove reporting both a failed worktree
// removal and a refused branch deletion.
func TestPrintErrorJoined(t *testing.T) {
	err := errors.Join(
		model.CommandError("Failed to remove worktree", errors.New("exit status 128")),
		model.CommandError("The branch x is not fully merged and will not be deleted", model.ErrBranchNotMerged),
	)
	assert.Equal(t, model.ExitGeneralError, exitCode(err))

	jsonOutput = true
	defer func() { jsonOutput = false }()

	var buf bytes.Buffer
	printError(&buf, err)

	var out struct {
		Error map[string]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "command", out.Error["kind"])
	assert.Contains(t, out.Error["message"], "Failed to remove worktree")
	assert.Contains(t, out.Error["message"], "not fully merged")
	assert.NotContains(t, out.Error, "detail")
}

func TestNewRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"add", "remove", "sync", "clone", "init", "list"}, names)

	add, _, err := root.Find([]string{"add"})
	require.NoError(t, err)
	assert.NotNil(t, add.Flags().Lookup("copy"))
	assert.NotNil(t, add.Flags().Lookup("pull"))
	assert.NotNil(t, add.InheritedFlags().Lookup("verbose"))
}

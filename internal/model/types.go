package model

import (
	"fmt"
	"strings"
)

// Well-known file and directory names relative to a repository root.
const (
	// ConfigFileName holds one tracked item per line.
	ConfigFileName = ".gwtconfig"

	// IgnoreFileName is read by `gwt init` to suggest tracked items.
	IgnoreFileName = ".gitignore"

	// EnvrcFileName marks a worktree whose environment must be approved
	// with direnv after creation.
	EnvrcFileName = ".envrc"

	// BareDirName is the hidden directory holding the bare object store
	// created by `gwt clone`.
	BareDirName = ".bare"

	// GitPointerContent is written to <clone>/.git so git treats the clone
	// directory as rooted in the bare store.
	GitPointerContent = "gitdir: ./" + BareDirName
)

// WorktreeDirName maps a branch name to the directory name of its worktree.
// Branch names may contain slashes, which cannot appear in a single path
// segment, so each "/" becomes "_" ("feature/x" -> "feature_x").
func WorktreeDirName(branch string) string {
	return strings.ReplaceAll(branch, "/", "_")
}

// ValidateBranchName rejects names that cannot be passed to git as a
// positional branch argument.
func ValidateBranchName(branch string) error {
	if strings.TrimSpace(branch) == "" {
		return fmt.Errorf("branch name must not be empty")
	}
	if strings.HasPrefix(branch, "-") {
		return fmt.Errorf("invalid branch name %q: must not start with '-'", branch)
	}
	if WorktreeDirName(branch) == "." || WorktreeDirName(branch) == ".." {
		return fmt.Errorf("invalid branch name %q", branch)
	}
	return nil
}

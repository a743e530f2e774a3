package worktree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmr-tortoise/gwt/internal/command"
	"github.com/mmr-tortoise/gwt/internal/model"
)

// WorktreeInfo holds metadata about a single Git worktree entry
// as parsed from `git worktree list --porcelain` output.
//
// Example porcelain output for a single worktree block:
//
//	worktree /path/to/feature-branch
//	HEAD abc123def456
//	branch refs/heads/feature-branch
type WorktreeInfo struct {
	// Path is the absolute filesystem path to the worktree directory.
	Path string `json:"path"`

	// Branch is the full branch reference (e.g., "refs/heads/main").
	// Empty if the worktree is in a detached HEAD state.
	Branch string `json:"branch"`

	// HEAD is the commit SHA that the worktree currently points to.
	HEAD string `json:"head"`

	// IsBare indicates whether this entry is the bare repository itself.
	// Bare entries have no checkout and are never synchronization targets.
	IsBare bool `json:"bare"`

	// IsPrunable is set when git reports the worktree directory as gone.
	// Such entries are never synchronization targets either.
	IsPrunable bool `json:"prunable,omitempty"`
}

// ShortBranch returns the branch name without the refs/heads/ prefix.
func (w WorktreeInfo) ShortBranch() string {
	return strings.TrimPrefix(w.Branch, "refs/heads/")
}

// Paths returns the paths of every worktree that has a checkout on disk,
// preserving order. Bare and prunable entries are left out.
func Paths(worktrees []WorktreeInfo) []string {
	paths := make([]string, 0, len(worktrees))
	for _, wt := range worktrees {
		if wt.IsBare || wt.IsPrunable {
			continue
		}
		paths = append(paths, wt.Path)
	}
	return paths
}

// Manager provides Git worktree operations by invoking the git CLI.
//
// All methods receive the directory to operate in as a parameter; the
// struct only holds the command runner.
type Manager struct {
	runner command.Runner
}

// NewManager creates a Manager that runs git through runner.
func NewManager(runner command.Runner) *Manager {
	return &Manager{runner: runner}
}

// RepoRoot returns the absolute path to the top-level directory of the
// working tree containing dir.
//
// This uses `git rev-parse --show-toplevel`, so for a linked worktree it
// returns that worktree's root, not the main repository.
func (m *Manager) RepoRoot(ctx context.Context, dir string) (string, error) {
	output, err := m.git(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", model.EnvError(fmt.Sprintf("Not in a git repository: %s", dir), model.ErrNotARepository)
	}
	return strings.TrimSpace(output), nil
}

// PullLatest runs `git pull` in dir.
//
// A failure caused by the current branch having no upstream is reported as
// model.ErrNoTrackingInfo so callers can word their warning accordingly.
// Callers treat every pull failure as non-fatal.
func (m *Manager) PullLatest(ctx context.Context, dir string) error {
	_, stderr, err := m.runner.Run(ctx, "", "git", "-C", dir, "pull")
	if err == nil {
		return nil
	}
	if strings.Contains(string(stderr), "no tracking information") {
		return model.CommandError("There is no tracking information for the current branch", model.ErrNoTrackingInfo)
	}
	return commandFailure([]string{"pull"}, stderr, err)
}

// CreateWorktree creates a worktree for branch at target.
//
// This method handles two cases:
//  1. The branch exists locally or on origin: the worktree is attached to it
//     with `git worktree add <target> <branch>`. For a remote-only branch
//     git creates the local tracking branch.
//  2. Otherwise a new branch is created at HEAD with
//     `git worktree add -b <branch> <target>`.
func (m *Manager) CreateWorktree(ctx context.Context, root, branch, target string) error {
	exists, err := m.BranchExists(ctx, root, branch)
	if err != nil {
		return err
	}

	args := []string{"worktree", "add", "-b", branch, target}
	if exists {
		args = []string{"worktree", "add", target, branch}
	}

	if _, err := m.git(ctx, root, args...); err != nil {
		return model.CommandError(fmt.Sprintf("Failed to create git worktree for branch '%s'", branch), err)
	}
	return nil
}

// BranchExists reports whether branch is a local branch or a branch on the
// origin remote. Names are compared exactly, line by line.
func (m *Manager) BranchExists(ctx context.Context, root, branch string) (bool, error) {
	local, err := m.git(ctx, root, "for-each-ref", "--format=%(refname:lstrip=2)", "refs/heads")
	if err != nil {
		return false, model.CommandError("Failed to check for local branches", err)
	}
	if containsLine(local, branch) {
		return true, nil
	}

	remote, err := m.git(ctx, root, "for-each-ref", "--format=%(refname:lstrip=3)", "refs/remotes/origin")
	if err != nil {
		return false, model.CommandError("Failed to check for remote branches", err)
	}
	return containsLine(remote, branch), nil
}

// ListWorktrees returns all worktrees associated with the repository at
// root, in the order git lists them.
func (m *Manager) ListWorktrees(ctx context.Context, root string) ([]WorktreeInfo, error) {
	output, err := m.git(ctx, root, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, model.CommandError("Failed to list git worktrees", err)
	}
	return parsePorcelainOutput(output), nil
}

// DefaultBranch determines the default branch of the origin remote.
//
// It first asks `git remote show origin` for the "HEAD branch:" line. If
// that is unavailable it probes for main, then master, as remote-tracking
// refs and finally as local branches (a bare clone stores remote heads
// under refs/heads).
func (m *Manager) DefaultBranch(ctx context.Context, dir string) (string, error) {
	if output, err := m.git(ctx, dir, "remote", "show", "origin"); err == nil {
		if branch := parseHeadBranch(output); branch != "" {
			return branch, nil
		}
	}

	for _, prefix := range []string{"refs/remotes/origin/", "refs/heads/"} {
		for _, name := range []string{"main", "master"} {
			if _, err := m.git(ctx, dir, "show-ref", "--verify", "--quiet", prefix+name); err == nil {
				return name, nil
			}
		}
	}

	return "", model.NewCLIError(model.KindCommand, "Could not determine default branch.")
}

// HasUncommittedChanges reports whether `git status -s` prints anything
// for the working tree at dir.
func (m *Manager) HasUncommittedChanges(ctx context.Context, dir string) (bool, error) {
	output, err := m.git(ctx, dir, "status", "-s")
	if err != nil {
		return false, model.CommandError("Failed to execute git status -s", err)
	}
	return strings.TrimSpace(output) != "", nil
}

// RemoveWorktree deletes the worktree at path.
//
// If force is true, --force is passed so git also removes worktrees with
// untracked files or uncommitted changes.
func (m *Manager) RemoveWorktree(ctx context.Context, root, path string, force bool) error {
	args := []string{"worktree", "remove", path}
	if force {
		args = []string{"worktree", "remove", "--force", path}
	}
	if _, err := m.git(ctx, root, args...); err != nil {
		return model.CommandError(fmt.Sprintf("Failed to remove worktree %s", path), err)
	}
	return nil
}

// DeleteBranch deletes a local branch with `git branch -d`.
//
// When git refuses because the branch is not fully merged, the returned
// error wraps model.ErrBranchNotMerged and carries a dedicated message.
func (m *Manager) DeleteBranch(ctx context.Context, root, branch string) error {
	_, stderr, err := m.runner.Run(ctx, "", "git", "-C", root, "branch", "-d", branch)
	if err == nil {
		return nil
	}
	if strings.Contains(string(stderr), "is not fully merged") {
		return model.CommandError(
			fmt.Sprintf("The branch %s is not fully merged and will not be deleted", branch),
			model.ErrBranchNotMerged)
	}
	return model.CommandError(
		fmt.Sprintf("Could not delete branch %s", branch),
		errors.New(strings.TrimSpace(string(stderr))))
}

// SetConfig sets a repository-local git config value.
func (m *Manager) SetConfig(ctx context.Context, dir, key, value string) error {
	if _, err := m.git(ctx, dir, "config", key, value); err != nil {
		return model.CommandError(fmt.Sprintf("Failed to set git config %s", key), err)
	}
	return nil
}

// Fetch runs `git fetch <remote>` in dir.
func (m *Manager) Fetch(ctx context.Context, dir, remote string) error {
	if _, err := m.git(ctx, dir, "fetch", remote); err != nil {
		return model.CommandError(fmt.Sprintf("Failed to fetch %s", remote), err)
	}
	return nil
}

// IsWorktree checks whether the given path is a linked Git worktree (or a
// bare-clone checkout root) as opposed to a main repository working
// directory.
//
// Linked worktrees have a .git FILE containing a "gitdir:" pointer; the main
// working directory has a .git DIRECTORY.
func IsWorktree(path string) bool {
	gitPath := filepath.Join(path, ".git")

	// Lstat so that a symlinked .git is not followed.
	info, err := os.Lstat(gitPath)
	if err != nil || info.IsDir() {
		return false
	}

	content, err := os.ReadFile(gitPath)
	if err != nil {
		return false
	}
	return strings.HasPrefix(string(content), "gitdir:")
}

// git executes a git command in dir and returns stdout.
//
// dir is passed via -C, which causes git to change to that directory before
// doing anything else, leaving the gwt process directory untouched.
func (m *Manager) git(ctx context.Context, dir string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", dir}, args...)

	stdout, stderr, err := m.runner.Run(ctx, "", "git", fullArgs...)
	if err != nil {
		return "", commandFailure(args, stderr, err)
	}
	return string(stdout), nil
}

// commandFailure builds the error for a failed git invocation, including
// stderr output for diagnostics.
func commandFailure(args []string, stderr []byte, err error) error {
	message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
	if s := strings.TrimSpace(string(stderr)); s != "" {
		message = fmt.Sprintf("%s: %s", message, s)
	}
	return model.CommandError(message, err)
}

// containsLine reports whether output contains want as a whole line.
func containsLine(output, want string) bool {
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == want {
			return true
		}
	}
	return false
}

// parseHeadBranch extracts the branch from the "HEAD branch: <name>" line
// of `git remote show` output. "(unknown)" is treated as absent.
func parseHeadBranch(output string) string {
	for _, line := range strings.Split(output, "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), ":")
		if !found || key != "HEAD branch" {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" || value == "(unknown)" {
			return ""
		}
		return value
	}
	return ""
}

// parsePorcelainOutput parses the output of `git worktree list --porcelain`
// into a slice of WorktreeInfo structs.
//
// The porcelain format uses blank lines to separate worktree blocks.
// Each block contains key-value pairs (space-separated) and optional
// standalone markers like "bare", "detached" or "prunable".
//
// Example input:
//
//	worktree /path/to/main
//	HEAD abc123
//	branch refs/heads/main
//
//	worktree /path/to/feature
//	HEAD def456
//	branch refs/heads/feature
func parsePorcelainOutput(output string) []WorktreeInfo {
	var worktrees []WorktreeInfo

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	var current *WorktreeInfo
	for _, line := range lines {
		// A blank line signals the end of a worktree block.
		if line == "" {
			if current != nil {
				worktrees = append(worktrees, *current)
				current = nil
			}
			continue
		}

		key, value, _ := strings.Cut(line, " ")

		switch key {
		case "worktree":
			// A new block may start without a separating blank line.
			if current != nil {
				worktrees = append(worktrees, *current)
			}
			current = &WorktreeInfo{Path: value}
		case "HEAD":
			if current != nil {
				current.HEAD = value
			}
		case "branch":
			if current != nil {
				current.Branch = value
			}
		case "bare":
			if current != nil {
				current.IsBare = true
			}
		case "prunable":
			// "prunable" may carry a reason: "prunable gitdir file points to non-existent location".
			if current != nil {
				current.IsPrunable = true
			}
		}
	}

	// Handle the last block if the output doesn't end with a blank line.
	if current != nil {
		worktrees = append(worktrees, *current)
	}

	return worktrees
}

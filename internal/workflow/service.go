// Package workflow implements the gwt subcommands on top of the git,
// hosting, direnv and prompt capabilities.
//
// Every operation receives the directory it was invoked from and resolves
// the repository root from it explicitly. The process working directory is
// never changed.
package workflow

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/mmr-tortoise/gwt/internal/filesync"
	"github.com/mmr-tortoise/gwt/internal/hosting"
	"github.com/mmr-tortoise/gwt/internal/prompt"
	"github.com/mmr-tortoise/gwt/internal/worktree"
)

// VersionControl is the subset of git operations the workflows need.
// *worktree.Manager implements it.
type VersionControl interface {
	RepoRoot(ctx context.Context, dir string) (string, error)
	PullLatest(ctx context.Context, dir string) error
	CreateWorktree(ctx context.Context, root, branch, target string) error
	ListWorktrees(ctx context.Context, root string) ([]worktree.WorktreeInfo, error)
	DefaultBranch(ctx context.Context, dir string) (string, error)
	HasUncommittedChanges(ctx context.Context, dir string) (bool, error)
	RemoveWorktree(ctx context.Context, root, path string, force bool) error
	DeleteBranch(ctx context.Context, root, branch string) error
	SetConfig(ctx context.Context, dir, key, value string) error
	Fetch(ctx context.Context, dir, remote string) error
}

// EnvApprover approves the environment file of a new worktree.
type EnvApprover interface {
	Allow(ctx context.Context, path string) error
}

// Service wires the capabilities used by the workflows.
type Service struct {
	VCS      VersionControl
	Hosting  hosting.Hosting
	Direnv   EnvApprover
	Prompter prompt.Prompter
	Engine   *filesync.Engine
	Logger   *log.Logger
}

package workflow

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mmr-tortoise/gwt/internal/config"
	"github.com/mmr-tortoise/gwt/internal/filesync"
	"github.com/mmr-tortoise/gwt/internal/logging"
	"github.com/mmr-tortoise/gwt/internal/model"
	"github.com/mmr-tortoise/gwt/internal/worktree"
)

// AddOptions configures Add.
type AddOptions struct {
	// Branch is the branch to check out. It is created from HEAD when it
	// exists neither locally nor on origin.
	Branch string

	// Copy copies tracked items instead of symlinking them.
	Copy bool

	// Pull runs `git pull` in the repository root first.
	Pull bool

	// Direnv runs `direnv allow` when the new worktree has an .envrc.
	Direnv bool
}

// AddResult describes a created worktree.
type AddResult struct {
	Path   string          `json:"path"`
	Branch string          `json:"branch"`
	Report filesync.Report `json:"report"`
}

// Add creates a worktree for opts.Branch next to the repository root and
// populates it with the tracked items.
//
// The worktree directory is the branch name with "/" replaced by "_", placed
// in the parent directory of the repository root. The returned path is
// canonical (symlinks resolved).
func (s *Service) Add(ctx context.Context, dir string, opts AddOptions) (*AddResult, error) {
	if err := model.ValidateBranchName(opts.Branch); err != nil {
		return nil, model.EnvError("Invalid branch name", err)
	}

	root, err := s.VCS.RepoRoot(ctx, dir)
	if err != nil {
		return nil, err
	}
	s.Logger.Debug("resolved repository root", "root", root)

	if opts.Pull {
		s.pull(ctx, root)
	}

	target := filepath.Join(filepath.Dir(root), model.WorktreeDirName(opts.Branch))
	s.Logger.Debug("creating worktree", "branch", opts.Branch, "path", target)
	if err := s.VCS.CreateWorktree(ctx, root, opts.Branch, target); err != nil {
		return nil, err
	}

	path, err := canonicalPath(target)
	if err != nil {
		return nil, err
	}

	items, err := config.GetTrackedItems(filepath.Join(root, model.ConfigFileName))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		verb := "linked"
		if opts.Copy {
			verb = "copied"
		}
		s.Logger.Info(fmt.Sprintf("No %s file found or it is empty. No files will be %s.", model.ConfigFileName, verb))
	}

	report, err := s.Engine.Populate(ctx, items, root, path, opts.Copy)
	if err != nil {
		return nil, err
	}

	if opts.Direnv {
		if _, err := os.Stat(filepath.Join(path, model.EnvrcFileName)); err == nil {
			if err := s.Direnv.Allow(ctx, path); err != nil {
				return nil, err
			}
		}
	}

	s.Logger.Info(fmt.Sprintf("Worktree for branch %s created at %s", logging.Highlight(opts.Branch), logging.Highlight(path)))
	return &AddResult{Path: path, Branch: opts.Branch, Report: report}, nil
}

// pull updates the repository root. Failures never abort the caller and are
// reported as warnings.
func (s *Service) pull(ctx context.Context, root string) {
	err := s.VCS.PullLatest(ctx, root)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrNoTrackingInfo):
		s.Logger.Warn("The current branch has no upstream, skipping git pull")
	default:
		s.Logger.Warn("Unable to run git pull, there may not be an upstream", "err", err)
	}
}

// canonicalPath resolves symlinks in path and makes it absolute. It fails
// when path does not exist.
func canonicalPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", model.FSError(fmt.Sprintf("Failed to canonicalize worktree path '%s'", path), err)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", model.FSError(fmt.Sprintf("Failed to canonicalize worktree path '%s'", path), err)
	}
	return abs, nil
}

// RemoveOptions configures Remove.
type RemoveOptions struct {
	Branch string

	// Force removes the worktree even with uncommitted changes or
	// untracked files.
	Force bool
}

// RemoveResult describes a removed worktree.
type RemoveResult struct {
	Path   string `json:"path"`
	Branch string `json:"branch"`
}

// Remove deletes the worktree of opts.Branch and then the local branch.
//
// Without opts.Force a linked worktree with uncommitted changes is refused
// before anything is touched. Branch deletion with `git branch -d` is
// attempted even when the worktree removal failed, and both failures are
// returned. If git refuses because the branch is not fully merged the error
// wraps model.ErrBranchNotMerged.
func (s *Service) Remove(ctx context.Context, dir string, opts RemoveOptions) (*RemoveResult, error) {
	if err := model.ValidateBranchName(opts.Branch); err != nil {
		return nil, model.EnvError("Invalid branch name", err)
	}

	root, err := s.VCS.RepoRoot(ctx, dir)
	if err != nil {
		return nil, err
	}
	target := filepath.Join(filepath.Dir(root), model.WorktreeDirName(opts.Branch))

	if !opts.Force {
		if err := s.ensureClean(ctx, target); err != nil {
			return nil, err
		}
	}

	removeErr := s.VCS.RemoveWorktree(ctx, root, target, opts.Force)
	if removeErr == nil {
		s.Logger.Info(fmt.Sprintf("Removed worktree %s", logging.Highlight(target)))
	}

	deleteErr := s.VCS.DeleteBranch(ctx, root, opts.Branch)
	if deleteErr == nil {
		s.Logger.Info(fmt.Sprintf("Deleted branch %s", logging.Highlight(opts.Branch)))
	}

	if err := errors.Join(removeErr, deleteErr); err != nil {
		return nil, err
	}
	return &RemoveResult{Path: target, Branch: opts.Branch}, nil
}

// ensureClean refuses to continue when target is a linked worktree with
// uncommitted changes. A missing target, or a directory that is not a linked
// worktree, is left for `git worktree remove` to report.
func (s *Service) ensureClean(ctx context.Context, target string) error {
	if _, err := os.Stat(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return model.FSError(fmt.Sprintf("Failed to inspect %s", target), err)
	}
	if !worktree.IsWorktree(target) {
		s.Logger.Warn(fmt.Sprintf("%s is not a linked worktree", target))
		return nil
	}

	dirty, err := s.VCS.HasUncommittedChanges(ctx, target)
	if err != nil {
		return err
	}
	if dirty {
		return model.NewCLIError(model.KindEnvironment,
			fmt.Sprintf("Worktree %s has uncommitted changes; use --force to remove it anyway", target))
	}
	return nil
}

// Sync propagates the newest copy of every tracked item across all
// worktrees of the repository containing dir.
func (s *Service) Sync(ctx context.Context, dir string, copyMode bool) (filesync.Report, error) {
	root, err := s.VCS.RepoRoot(ctx, dir)
	if err != nil {
		return filesync.Report{}, err
	}

	worktrees, err := s.VCS.ListWorktrees(ctx, root)
	if err != nil {
		return filesync.Report{}, err
	}

	items, err := config.GetTrackedItems(filepath.Join(root, model.ConfigFileName))
	if err != nil {
		return filesync.Report{}, err
	}
	if len(items) == 0 {
		s.Logger.Info(fmt.Sprintf("No %s file found or it is empty. No files to sync.", model.ConfigFileName))
		return filesync.Report{}, nil
	}

	paths := worktree.Paths(worktrees)
	s.Logger.Debug("synchronizing", "items", len(items), "worktrees", len(paths))
	return s.Engine.Synchronize(ctx, items, paths, copyMode)
}

package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmr-tortoise/gwt/internal/logging"
	"github.com/mmr-tortoise/gwt/internal/model"
)

// originFetchRefspec restores remote-tracking refs, which a bare clone does
// not configure.
const originFetchRefspec = "+refs/heads/*:refs/remotes/origin/*"

// CloneResult describes a bootstrapped repository.
type CloneResult struct {
	// Dir is the directory holding .bare, the .git pointer and worktrees.
	Dir string `json:"dir"`

	// Branch is the default branch that received the first worktree.
	Branch string `json:"branch"`

	// Worktree is the path of the default branch worktree.
	Worktree string `json:"worktree"`
}

// Clone bootstraps repo for worktree use inside dir:
//
//	<name>/.bare      bare clone made by the hosting CLI
//	<name>/.git       "gitdir: ./.bare"
//	<name>/<default>  worktree of the default branch
//
// name is the last path segment of repo. Any failure aborts the remaining
// steps; whatever was already created is left in place.
func (s *Service) Clone(ctx context.Context, dir, repo string) (*CloneResult, error) {
	name := RepoName(repo)
	if name == "" {
		return nil, model.NewCLIError(model.KindEnvironment, fmt.Sprintf("Cannot derive a directory name from '%s'", repo))
	}

	repoDir := filepath.Join(dir, name)
	s.Logger.Info(fmt.Sprintf("Cloning into '%s'...", logging.Highlight(name)))

	if err := os.Mkdir(repoDir, 0o755); err != nil {
		return nil, model.FSError(fmt.Sprintf("Failed to create directory %s", name), err)
	}

	if err := s.Hosting.Clone(ctx, repoDir, repo, model.BareDirName); err != nil {
		return nil, err
	}

	pointer := filepath.Join(repoDir, ".git")
	if err := os.WriteFile(pointer, []byte(model.GitPointerContent), 0o644); err != nil {
		return nil, model.FSError("Failed to write .git file", err)
	}

	if err := s.VCS.SetConfig(ctx, repoDir, "remote.origin.fetch", originFetchRefspec); err != nil {
		s.Logger.Warn("Could not configure remote-tracking branches", "err", err)
	} else if err := s.VCS.Fetch(ctx, repoDir, "origin"); err != nil {
		s.Logger.Warn("Could not fetch origin", "err", err)
	}

	branch, err := s.VCS.DefaultBranch(ctx, repoDir)
	if err != nil {
		return nil, err
	}

	s.Logger.Info(fmt.Sprintf("Adding worktree '%s' for branch '%s'", branch, logging.Highlight(branch)))
	wtPath := filepath.Join(repoDir, branch)
	if err := s.VCS.CreateWorktree(ctx, repoDir, branch, wtPath); err != nil {
		return nil, err
	}

	s.Logger.Info(fmt.Sprintf("Successfully cloned %s and set up worktree in '%s'", repo, logging.Highlight(name+"/"+branch)))
	return &CloneResult{Dir: repoDir, Branch: branch, Worktree: wtPath}, nil
}

// RepoName returns the directory name for a repository reference: the last
// "/" or ":" separated segment without a trailing ".git".
//
//	owner/repo                      -> repo
//	https://github.com/owner/repo/  -> repo
//	git@github.com:owner/repo.git   -> repo
func RepoName(repo string) string {
	name := strings.TrimRight(strings.TrimSpace(repo), "/")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, ".git")
	if name == "." || name == ".." {
		return ""
	}
	return name
}

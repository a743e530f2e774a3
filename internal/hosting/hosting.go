// Package hosting wraps the code-hosting CLI used to bootstrap a repository.
package hosting

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmr-tortoise/gwt/internal/command"
	"github.com/mmr-tortoise/gwt/internal/model"
)

// Hosting clones a hosted repository as a bare store.
type Hosting interface {
	// Clone clones repo into target (relative to dir) in bare mode.
	Clone(ctx context.Context, dir, repo, target string) error
}

// GitHubCLI clones through the `gh` command.
type GitHubCLI struct {
	runner command.Runner
}

// NewGitHubCLI returns a Hosting backed by `gh`.
func NewGitHubCLI(runner command.Runner) *GitHubCLI {
	return &GitHubCLI{runner: runner}
}

// Clone runs `gh repo clone <repo> <target> -- --bare` with dir as the
// working directory. Arguments after `--` are passed through to git clone.
func (g *GitHubCLI) Clone(ctx context.Context, dir, repo, target string) error {
	_, stderr, err := g.runner.Run(ctx, dir, "gh", "repo", "clone", repo, target, "--", "--bare")
	if err == nil {
		return nil
	}

	message := fmt.Sprintf("Failed to clone repository %s", repo)
	if s := strings.TrimSpace(string(stderr)); s != "" {
		message = fmt.Sprintf("%s: %s", message, s)
	}
	return model.CommandError(message, err)
}

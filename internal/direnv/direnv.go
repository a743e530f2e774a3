// Package direnv approves `.envrc` files in freshly created worktrees.
package direnv

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mmr-tortoise/gwt/internal/command"
	"github.com/mmr-tortoise/gwt/internal/model"
)

// Approver marks a directory's environment file as trusted.
type Approver interface {
	Allow(ctx context.Context, path string) error
}

// CLI runs the direnv binary.
type CLI struct {
	runner command.Runner
	logger *log.Logger
}

// NewCLI returns an Approver that shells out to direnv and reports
// non-fatal problems through logger.
func NewCLI(runner command.Runner, logger *log.Logger) *CLI {
	return &CLI{runner: runner, logger: logger}
}

// Allow runs `direnv allow <path>`.
//
// Failing to spawn direnv (not installed) is an error. A non-zero exit only
// produces a warning: the worktree exists either way and the user can rerun
// the approval by hand.
func (c *CLI) Allow(ctx context.Context, path string) error {
	_, stderr, err := c.runner.Run(ctx, "", "direnv", "allow", path)
	if err == nil {
		return nil
	}

	if command.ExitCode(err) < 0 {
		if errors.Is(err, exec.ErrNotFound) {
			return model.CommandError("Failed to run direnv allow: direnv is not installed", err)
		}
		return model.CommandError("Failed to run direnv allow", err)
	}

	c.logger.Warn(fmt.Sprintf("direnv allow exited with status %d", command.ExitCode(err)),
		"stderr", strings.TrimSpace(string(stderr)))
	return nil
}

// Package cli — clone.go implements the "gwt clone" command.
//
// The clone command bootstraps a repository for worktree use: a bare clone
// in <name>/.bare, a <name>/.git pointer to it, and a first worktree for the
// default branch. Cloning goes through the GitHub CLI (gh).
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCloneCommand creates the "clone" cobra command.
func NewCloneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clone <repo>",
		Short: "Clone a repository and set it up for worktrees",
		Long: `Clone <repo> as a bare repository and create a worktree for its default
branch. The directory is named after the last segment of <repo>:

  repo/.bare   bare clone
  repo/.git    "gitdir: ./.bare"
  repo/main    worktree of the default branch

The path of the default branch worktree is printed on stdout.

Examples:
  gwt clone owner/repo
  gwt clone https://github.com/owner/repo.git`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runClone(cmd, args[0])
		},
	}

	return cmd
}

func runClone(cmd *cobra.Command, repo string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	result, err := a.svc.Clone(cmd.Context(), a.dir, repo)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(cmd.OutOrStdout(), result)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Worktree)
	return err
}

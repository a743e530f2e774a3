// Package cli — remove.go implements the "gwt remove" command.
//
// The remove command deletes the worktree of a branch and then the local
// branch itself with `git branch -d`. A branch that is not fully merged is
// kept and reported as an error, but the worktree stays removed.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gwt/internal/workflow"
)

// removeFlags holds the flag values for the remove command.
type removeFlags struct {
	// force removes the worktree even if it has local modifications.
	force bool
}

// NewRemoveCommand creates the "remove" cobra command.
func NewRemoveCommand() *cobra.Command {
	flags := &removeFlags{}

	cmd := &cobra.Command{
		Use:   "remove <branch>",
		Short: "Remove a worktree and delete its branch",
		Long: `Remove the worktree created by "gwt add <branch>" and delete the local
branch.

A worktree with uncommitted changes or untracked files is refused unless
--force is given. The branch is deleted with "git branch -d", so a branch
whose commits are not merged is kept and reported.

Examples:
  gwt remove feature/x
  gwt remove --force experiment`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Remove even with uncommitted changes")

	return cmd
}

func runRemove(cmd *cobra.Command, branch string, flags *removeFlags) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	VerboseLog("Removing worktree for branch %s (force=%t)", branch, flags.force)
	result, err := a.svc.Remove(cmd.Context(), a.dir, workflow.RemoveOptions{Branch: branch, Force: flags.force})
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(cmd.OutOrStdout(), result)
	}
	return nil
}

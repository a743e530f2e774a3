// Package cli — add.go implements the "gwt add" command.
//
// The add command creates a worktree for a branch next to the repository
// root and links (or copies) every item listed in .gwtconfig into it.
// The only line written to stdout is the new worktree path, so the command
// composes with cd:
//
//	cd "$(gwt add feature/x)"
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gwt/internal/config"
	"github.com/mmr-tortoise/gwt/internal/workflow"
)

// addFlags holds the flag values for the add command.
type addFlags struct {
	// copy copies tracked items instead of symlinking them.
	copy bool

	// pull runs `git pull` before creating the worktree.
	pull bool
}

// NewAddCommand creates the "add" cobra command.
func NewAddCommand() *cobra.Command {
	flags := &addFlags{}

	cmd := &cobra.Command{
		Use:   "add <branch>",
		Short: "Add a worktree and populate its tracked files",
		Long: `Create a git worktree for <branch> in the parent directory of the
repository root. Slashes in the branch name become underscores in the
directory name (feature/x -> ../feature_x).

An existing local or origin branch is checked out; otherwise a new branch is
created from HEAD. Items listed in .gwtconfig are then symlinked from the
repository root into the new worktree, or copied with --copy. If the new
worktree contains .envrc, "direnv allow" is run for it.

Examples:
  gwt add feature/x
  gwt add --copy --pull hotfix
  cd "$(gwt add review)"`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.copy, "copy", "c", false, "Copy files instead of creating symbolic links")
	cmd.Flags().BoolVarP(&flags.pull, "pull", "p", false, "Run git pull before creating the worktree")

	return cmd
}

// runAdd is the main logic function for the add command.
func runAdd(cmd *cobra.Command, branch string, flags *addFlags) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	// Flags given on the command line win over the settings file.
	opts := workflow.AddOptions{
		Branch: branch,
		Copy:   config.Resolve(flags.copy, cmd.Flags().Changed("copy"), a.settings.Copy, false),
		Pull:   config.Resolve(flags.pull, cmd.Flags().Changed("pull"), a.settings.Pull, false),
		Direnv: a.settings.DirenvEnabled(),
	}
	VerboseLog("Adding worktree for branch %s (copy=%t, pull=%t)", branch, opts.Copy, opts.Pull)

	result, err := a.svc.Add(cmd.Context(), a.dir, opts)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(cmd.OutOrStdout(), result)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Path)
	return err
}

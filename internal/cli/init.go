// Package cli — init.go implements the "gwt init" command.
package cli

import (
	"github.com/spf13/cobra"
)

// NewInitCommand creates the "init" cobra command.
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create .gwtconfig interactively from .gitignore",
		Long: `Ask, for every pattern in the repository's .gitignore, whether it should
be synchronized between worktrees, and write the accepted patterns to
.gwtconfig. An existing .gwtconfig is overwritten unless nothing is
accepted.

Answers are read from the terminal, or one per line from stdin when it is
not a terminal:

  printf 'y\nn\ny\n' | gwt init`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			result, err := a.svc.Init(cmd.Context(), a.dir)
			if err != nil {
				return err
			}
			if IsJSONOutput() {
				return printJSON(cmd.OutOrStdout(), result)
			}
			return nil
		},
	}

	return cmd
}

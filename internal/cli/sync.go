// Package cli — sync.go implements the "gwt sync" command.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gwt/internal/config"
	"github.com/mmr-tortoise/gwt/internal/filesync"
)

type syncFlags struct {
	copy bool
}

// NewSyncCommand creates the "sync" cobra command.
func NewSyncCommand() *cobra.Command {
	flags := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync tracked files between worktrees",
		Long: `For every item in .gwtconfig, find the worktree holding the most recently
modified copy and link (or copy with --copy) it into every other worktree.
Items that exist in no worktree are skipped.

Examples:
  gwt sync
  gwt sync --copy --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.copy, "copy", "c", false, "Copy files instead of creating symbolic links")

	return cmd
}

func runSync(cmd *cobra.Command, flags *syncFlags) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	copyMode := config.Resolve(flags.copy, cmd.Flags().Changed("copy"), a.settings.Copy, false)
	report, err := a.svc.Sync(cmd.Context(), a.dir, copyMode)
	if err != nil {
		return err
	}
	VerboseLog("Wrote %d destinations, %d items not found", len(report.Actions), len(report.Missing))

	if IsJSONOutput() {
		if report.Actions == nil {
			report.Actions = []filesync.Action{}
		}
		return printJSON(cmd.OutOrStdout(), report)
	}
	return nil
}

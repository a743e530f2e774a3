// Package cli — list.go implements the "gwt list" command.
//
// The list command shows every worktree of the repository together with
// which tracked items it currently holds, as a text table or as JSON with
// the --json flag.
package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gwt/internal/workflow"
	"github.com/mmr-tortoise/gwt/internal/worktree"
)

// shortHashLen is the number of commit hash characters shown in the table.
const shortHashLen = 7

// NewListCommand creates the "list" cobra command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List worktrees and their tracked files",
		Long: `List all worktrees of the current repository with their branch, commit,
and the .gwtconfig items present in each. Linked items are marked with "@".

Examples:
  gwt list
  gwt list --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			entries, err := a.svc.List(cmd.Context(), a.dir)
			if err != nil {
				return err
			}
			VerboseLog("Found %d worktrees", len(entries))

			if IsJSONOutput() {
				return printJSON(cmd.OutOrStdout(), struct {
					Worktrees []workflow.ListEntry `json:"worktrees"`
				}{Worktrees: entries})
			}
			return printListText(cmd.OutOrStdout(), entries)
		},
	}

	return cmd
}

// printListText outputs the worktrees as an aligned table:
//
//	PATH                 BRANCH      HEAD     TRACKED
//	/src/repo/main       main        1a2b3c4  .env, .vscode@
//	/src/repo/feature_x  feature/x   5d6e7f8  .env@
func printListText(w io.Writer, entries []workflow.ListEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No worktrees found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PATH\tBRANCH\tHEAD\tTRACKED")

	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.Path, FormatBranch(e.WorktreeInfo), ShortHash(e.HEAD), FormatTracked(e.Tracked))
	}
	return tw.Flush()
}

// FormatBranch returns the short branch name, "(bare)" for the bare store
// or "(detached)" for a detached HEAD. Worktrees whose directory is gone are
// marked "(prunable)".
func FormatBranch(wt worktree.WorktreeInfo) string {
	var name string
	switch {
	case wt.IsBare:
		return "(bare)"
	case wt.Branch == "":
		name = "(detached)"
	default:
		name = wt.ShortBranch()
	}
	if wt.IsPrunable {
		name += " (prunable)"
	}
	return name
}

// ShortHash abbreviates a commit hash for display. Returns "-" when empty.
func ShortHash(hash string) string {
	if hash == "" {
		return "-"
	}
	if len(hash) > shortHashLen {
		return hash[:shortHashLen]
	}
	return hash
}

// FormatTracked lists the tracked items present in a worktree, marking
// symlinks with "@". Missing items are omitted. Returns "-" if none are
// present.
//
// Example:
//
//	[{.env present} {.vscode linked} {tmp missing}] → ".env, .vscode@"
func FormatTracked(items []workflow.TrackedItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		switch it.State {
		case workflow.ItemPresent:
			parts = append(parts, it.Item)
		case workflow.ItemLinked:
			parts = append(parts, it.Item+"@")
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// Package worktree provides Git worktree management operations for
// the gwt CLI.
//
// All Git operations are performed by running the git binary through a
// command.Runner, rather than using a Git library like go-git. This approach:
//   - Avoids CGO dependencies (libgit2)
//   - Uses the exact same Git behavior the user sees in their terminal
//   - Requires Git >= 2.15 (when worktree support matured)
//
// The Manager struct provides methods for adding, listing, and removing
// worktrees, as well as querying branch and repository information.
package worktree

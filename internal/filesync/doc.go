// Package filesync propagates tracked files between worktrees.
//
// For every tracked item the worktree holding the most recently modified
// copy is the source; every other worktree receives either a symlink to the
// source or a copy of it. Symlink failures fall back to copying, and copying
// prefers copy-on-write through cp before falling back to a plain byte copy.
//
// The "most recently modified wins" rule trusts local mtimes. Worktrees on
// filesystems with skewed clocks can pick the wrong source.
package filesync

package filesync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mmr-tortoise/gwt/internal/config"
	"github.com/mmr-tortoise/gwt/internal/model"
)

// Mode describes how a destination was written.
type Mode string

const (
	// ModeLinked means the destination is a symlink to the source.
	ModeLinked Mode = "linked"

	// ModeCopied means the destination was copied because copy mode was
	// requested.
	ModeCopied Mode = "copied"

	// ModeFallbackCopied means a symlink was attempted, failed, and the
	// destination was copied instead.
	ModeFallbackCopied Mode = "fallback-copied"
)

// Action records one destination written during a run.
type Action struct {
	Item        string `json:"item"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Mode        Mode   `json:"mode"`
}

// Report lists what a run did, in processing order.
type Report struct {
	Actions []Action `json:"actions"`

	// Missing holds tracked items that were not found anywhere and were
	// skipped.
	Missing []string `json:"missing,omitempty"`

	// Rejected holds tracked items that do not name a path below the
	// worktree root, such as "./" or "../x". They are never written.
	Rejected []string `json:"rejected,omitempty"`
}

// Engine places tracked items into worktrees.
type Engine struct {
	// Link creates a symlink at newname pointing to oldname. It defaults to
	// os.Symlink; tests replace it to simulate filesystems without symlinks.
	Link func(oldname, newname string) error

	copier Copier
	logger *log.Logger
}

// NewEngine returns an Engine that copies with copier and reports progress
// through logger.
func NewEngine(copier Copier, logger *log.Logger) *Engine {
	return &Engine{Link: os.Symlink, copier: copier, logger: logger}
}

// Synchronize propagates each tracked item from the worktree holding its
// newest copy to every other worktree.
//
// Items are processed independently in the given order. An item found in no
// worktree is skipped without writing anything. A destination that already
// resolves to the source is left untouched, so running Synchronize twice in
// link mode changes nothing the second time. The source is never written.
func (e *Engine) Synchronize(ctx context.Context, items []string, worktrees []string, copyMode bool) (Report, error) {
	var report Report

	for _, item := range items {
		key, ok := e.itemKey(item, &report)
		if !ok {
			continue
		}

		source, err := newestCopy(key, worktrees)
		if err != nil {
			return report, err
		}
		if source == "" {
			e.logger.Debug(fmt.Sprintf("'%s' not found in any worktree, skipping.", item))
			report.Missing = append(report.Missing, item)
			continue
		}

		resolved, err := filepath.EvalSymlinks(source)
		if err != nil {
			return report, model.FSError(fmt.Sprintf("Failed to resolve %s", source), err)
		}

		for _, wt := range worktrees {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			dst := filepath.Join(wt, key)
			if dst == source || sameTarget(dst, resolved) {
				continue
			}

			mode, err := e.place(ctx, item, resolved, dst, copyMode)
			if err != nil {
				return report, err
			}
			report.Actions = append(report.Actions, Action{Item: item, Source: resolved, Destination: dst, Mode: mode})

			label := "linked"
			if mode != ModeLinked {
				label = "copied"
			}
			e.logger.Info(fmt.Sprintf("Synced '%s' to %s (%s)", item, wt, label))
		}
	}

	return report, nil
}

// Populate places each tracked item from root into a newly created worktree.
//
// Unlike Synchronize this only looks at the repository root. Items missing
// under root, and root entries that are broken symlinks, produce a warning
// and are skipped. In link mode the destination points at the absolute path
// under root.
func (e *Engine) Populate(ctx context.Context, items []string, root, worktree string, copyMode bool) (Report, error) {
	var report Report

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		key, ok := e.itemKey(item, &report)
		if !ok {
			continue
		}
		src := filepath.Join(root, key)

		info, err := os.Lstat(src)
		if errors.Is(err, fs.ErrNotExist) {
			e.logger.Warn(fmt.Sprintf("File or directory '%s' not found, skipping.", item))
			report.Missing = append(report.Missing, item)
			continue
		}
		if err != nil {
			return report, model.FSError(fmt.Sprintf("Failed to inspect %s", src), err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			if _, err := os.Stat(src); err != nil {
				e.logger.Warn(fmt.Sprintf("Source path '%s' is a broken symlink, skipping.", src))
				report.Missing = append(report.Missing, item)
				continue
			}
		}

		dst := filepath.Join(worktree, key)
		mode, err := e.place(ctx, key, src, dst, copyMode)
		if err != nil {
			return report, err
		}
		report.Actions = append(report.Actions, Action{Item: item, Source: src, Destination: dst, Mode: mode})

		if mode == ModeLinked {
			e.logger.Info(fmt.Sprintf("Linked '%s' to new worktree.", key))
		} else {
			e.logger.Info(fmt.Sprintf("Copied '%s' to new worktree.", key))
		}
	}

	return report, nil
}

// itemKey normalizes item. Items that would resolve to the worktree root or
// outside of it are recorded in report and rejected with a warning.
func (e *Engine) itemKey(item string, report *Report) (string, bool) {
	key := config.ItemKey(item)
	if key == "" {
		return "", false
	}
	if !config.IsLocalKey(key) {
		e.logger.Warn(fmt.Sprintf("Tracked item '%s' is not a path inside the worktree, skipping.", item))
		report.Rejected = append(report.Rejected, item)
		return "", false
	}
	return key, true
}

// place writes dst from src, replacing whatever dst held before.
func (e *Engine) place(ctx context.Context, item, src, dst string, copyMode bool) (Mode, error) {
	parent := filepath.Dir(dst)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", model.FSError(fmt.Sprintf("Failed to create directory %s", parent), err)
	}
	if err := os.RemoveAll(dst); err != nil {
		return "", model.FSError(fmt.Sprintf("Failed to remove %s", dst), err)
	}

	if copyMode {
		return ModeCopied, e.copy(ctx, src, dst)
	}

	if err := e.Link(src, dst); err != nil {
		e.logger.Warn(fmt.Sprintf("Failed to symlink '%s' to %s (%v). Falling back to copy.", item, filepath.Dir(dst), err))
		// A failed link may still have left an entry behind.
		if err := os.RemoveAll(dst); err != nil {
			return "", model.FSError(fmt.Sprintf("Failed to remove %s", dst), err)
		}
		return ModeFallbackCopied, e.copy(ctx, src, dst)
	}
	return ModeLinked, nil
}

func (e *Engine) copy(ctx context.Context, src, dst string) error {
	// cp -R copies a symlink operand as a link, so copy what it points to.
	if resolved, err := filepath.EvalSymlinks(src); err == nil {
		src = resolved
	}
	return e.copier.Copy(ctx, src, dst)
}

// newestCopy returns the path of the most recently modified copy of key
// across worktrees, or "" when no worktree has one. The first worktree wins
// ties. Symlinks are followed, so a dangling link counts as absent.
func newestCopy(key string, worktrees []string) (string, error) {
	var (
		source string
		newest time.Time
	)
	for _, wt := range worktrees {
		path := filepath.Join(wt, key)
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", model.FSError(fmt.Sprintf("Failed to get metadata for %s", path), err)
		}
		if source == "" || info.ModTime().After(newest) {
			source = path
			newest = info.ModTime()
		}
	}
	return source, nil
}

// sameTarget reports whether path already resolves to resolved.
func sameTarget(path, resolved string) bool {
	target, err := filepath.EvalSymlinks(path)
	return err == nil && target == resolved
}

package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmr-tortoise/gwt/internal/config"
	"github.com/mmr-tortoise/gwt/internal/model"
	"github.com/mmr-tortoise/gwt/internal/worktree"
)

// ItemState is how a tracked item is present in a worktree.
type ItemState string

const (
	// ItemPresent is a regular file or directory.
	ItemPresent ItemState = "present"

	// ItemLinked is a symlink.
	ItemLinked ItemState = "linked"

	// ItemMissing means nothing exists at the item path.
	ItemMissing ItemState = "missing"
)

// TrackedItem is the state of one tracked item in one worktree.
type TrackedItem struct {
	Item  string    `json:"item"`
	State ItemState `json:"state"`
}

// ListEntry is one worktree with the state of each tracked item in it.
// Bare and prunable entries carry no tracked items.
type ListEntry struct {
	worktree.WorktreeInfo
	Tracked []TrackedItem `json:"tracked"`
}

// List returns every worktree of the repository containing dir, in git's
// order, annotated with the tracked items each one holds.
func (s *Service) List(ctx context.Context, dir string) ([]ListEntry, error) {
	root, err := s.VCS.RepoRoot(ctx, dir)
	if err != nil {
		return nil, err
	}

	worktrees, err := s.VCS.ListWorktrees(ctx, root)
	if err != nil {
		return nil, err
	}

	items, err := config.GetTrackedItems(filepath.Join(root, model.ConfigFileName))
	if err != nil {
		return nil, err
	}

	keys := s.localKeys(items)

	entries := make([]ListEntry, 0, len(worktrees))
	for _, wt := range worktrees {
		entry := ListEntry{WorktreeInfo: wt, Tracked: []TrackedItem{}}
		if !wt.IsBare && !wt.IsPrunable {
			for _, k := range keys {
				entry.Tracked = append(entry.Tracked, TrackedItem{Item: k.item, State: itemState(filepath.Join(wt.Path, k.key))})
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

type itemKey struct {
	item string
	key  string
}

// localKeys normalizes items, dropping those that do not name a path inside
// a worktree.
func (s *Service) localKeys(items []string) []itemKey {
	keys := make([]itemKey, 0, len(items))
	for _, item := range items {
		key := config.ItemKey(item)
		if key == "" {
			continue
		}
		if !config.IsLocalKey(key) {
			s.Logger.Warn(fmt.Sprintf("Tracked item '%s' is not a path inside the worktree, skipping.", item))
			continue
		}
		keys = append(keys, itemKey{item: item, key: key})
	}
	return keys
}

func itemState(path string) ItemState {
	info, err := os.Lstat(path)
	if err != nil {
		return ItemMissing
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return ItemLinked
	}
	return ItemPresent
}

package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/mmr-tortoise/gwt/internal/config"
	"github.com/mmr-tortoise/gwt/internal/model"
)

// maxMatchesShown caps the matched names listed in a prompt label.
const maxMatchesShown = 3

// InitResult describes the outcome of Init.
type InitResult struct {
	// Path is the config file. It is only written when Items is non-empty.
	Path  string   `json:"path"`
	Items []string `json:"items"`
}

// Init asks, for each entry of the root .gitignore, whether it should be
// tracked, and writes the accepted entries to .gwtconfig in order.
//
// When nothing is accepted the existing config file is left untouched.
func (s *Service) Init(ctx context.Context, dir string) (*InitResult, error) {
	root, err := s.VCS.RepoRoot(ctx, dir)
	if err != nil {
		return nil, err
	}

	entries, err := config.ReadIgnoreEntries(filepath.Join(root, model.IgnoreFileName))
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(root, model.ConfigFileName)
	s.Logger.Info(fmt.Sprintf("Reading %s and suggesting patterns for %s...", model.IgnoreFileName, model.ConfigFileName))

	names := topLevelEntries(root)
	selected := []string{}
	for _, entry := range entries {
		label := fmt.Sprintf("Should '%s' be added to %s?", entry, model.ConfigFileName)
		if matched := matchingEntries(entry, names); len(matched) > 0 {
			label = fmt.Sprintf("%s (matches: %s)", label, formatMatches(matched))
		}

		ok, err := s.Prompter.Confirm(label)
		if err != nil {
			return nil, model.EnvError("Failed to read answer", err)
		}
		if ok {
			selected = append(selected, entry)
		}
	}

	if len(selected) == 0 {
		s.Logger.Info(fmt.Sprintf("No items selected for %s.", model.ConfigFileName))
		return &InitResult{Path: configPath, Items: selected}, nil
	}

	if err := config.WriteTrackedItems(configPath, selected); err != nil {
		return nil, err
	}
	s.Logger.Info(fmt.Sprintf("%s created/updated at %s.", model.ConfigFileName, configPath))
	return &InitResult{Path: configPath, Items: selected}, nil
}

type dirEntry struct {
	name  string
	isDir bool
}

// topLevelEntries lists the entries directly under root, excluding .git.
// An unreadable root yields no entries; the annotation is only a hint.
func topLevelEntries(root string) []dirEntry {
	list, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	entries := make([]dirEntry, 0, len(list))
	for _, e := range list {
		if e.Name() == ".git" {
			continue
		}
		entries = append(entries, dirEntry{name: e.Name(), isDir: e.IsDir()})
	}
	return entries
}

// matchingEntries returns the names excluded by the gitignore pattern.
func matchingEntries(pattern string, entries []dirEntry) []string {
	p := gitignore.ParsePattern(pattern, nil)
	var matched []string
	for _, e := range entries {
		if p.Match([]string{e.name}, e.isDir) == gitignore.Exclude {
			matched = append(matched, e.name)
		}
	}
	return matched
}

func formatMatches(names []string) string {
	if len(names) <= maxMatchesShown {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(names[:maxMatchesShown], ", "), len(names)-maxMatchesShown)
}

// Package config reads and writes the files gwt keeps at a repository root:
// the .gwtconfig tracked-item list, the .gitignore consulted by `gwt init`,
// and the optional .gwt.yaml / .gwt.json settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmr-tortoise/gwt/internal/model"
)

// GetTrackedItems returns the tracked items listed in the config file at
// configPath, one per non-blank line, trimmed, in file order.
//
// A missing file is equivalent to an empty list and is not an error.
// Lines starting with "#" are NOT treated as comments; only blank lines are
// dropped. Duplicates are kept.
func GetTrackedItems(configPath string) ([]string, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, model.FSError(fmt.Sprintf("failed to read %s", configPath), err)
	}

	return splitNonBlank(string(data)), nil
}

// ItemKey normalizes a tracked item for use as a path below a worktree root
// by stripping trailing path separators ("node_modules/" -> "node_modules")
// and cleaning the result ("./a/../.env" -> ".env"). An item made only of
// separators yields "", which callers skip.
func ItemKey(item string) string {
	trimmed := strings.TrimRight(item, "/"+string(filepath.Separator))
	if trimmed == "" {
		return ""
	}
	return filepath.Clean(trimmed)
}

// IsLocalKey reports whether key names an entry strictly below a worktree
// root. "." (the root itself), keys escaping with ".." and absolute paths
// are not local and must never be written to.
func IsLocalKey(key string) bool {
	return key != "." && filepath.IsLocal(key)
}

// WriteTrackedItems overwrites the config file with items, newline-joined
// and newline-terminated.
func WriteTrackedItems(configPath string, items []string) error {
	content := strings.Join(items, "\n") + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return model.FSError(fmt.Sprintf("failed to write %s", configPath), err)
	}
	return nil
}

// ReadIgnoreEntries returns the candidate lines of an ignore file: trimmed,
// non-blank and not starting with "#", in file order.
//
// Unlike GetTrackedItems, a missing file is an error because `gwt init`
// has nothing to suggest without it.
func ReadIgnoreEntries(ignorePath string) ([]string, error) {
	data, err := os.ReadFile(ignorePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.NewCLIError(model.KindEnvironment,
				fmt.Sprintf("No %s file found in the repository root.", filepath.Base(ignorePath)))
		}
		return nil, model.FSError(fmt.Sprintf("failed to read %s", ignorePath), err)
	}

	var entries []string
	for _, line := range splitNonBlank(string(data)) {
		if strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	return entries, nil
}

// splitNonBlank splits content into trimmed lines and drops empty ones.
// Both LF and CRLF line endings are accepted.
func splitNonBlank(content string) []string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

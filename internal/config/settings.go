package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/gwt/internal/model"
)

// SettingsFileNames lists the settings files looked up at the repository
// root, in priority order. The first one that exists wins.
var SettingsFileNames = []string{".gwt.yaml", ".gwt.yml", ".gwt.json"}

// Settings holds per-repository defaults for command flags.
//
// Pointer fields distinguish "not set" from an explicit false so that
// Resolve can layer file values under command-line flags.
type Settings struct {
	// Copy makes add and sync copy files instead of symlinking them.
	Copy *bool `yaml:"copy" json:"copy"`

	// Pull runs `git pull` before add creates the worktree.
	Pull *bool `yaml:"pull" json:"pull"`

	// Verbose enables debug logging.
	Verbose *bool `yaml:"verbose" json:"verbose"`

	// Direnv controls whether a new worktree containing .envrc is approved
	// with `direnv allow`. Defaults to true.
	Direnv *bool `yaml:"direnv" json:"direnv"`

	// Path is the file the settings were read from; empty for defaults.
	Path string `yaml:"-" json:"-"`
}

// LoadSettings reads the first settings file found at root.
// No settings file yields zero Settings and no error.
func LoadSettings(root string) (*Settings, error) {
	for _, name := range SettingsFileNames {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, model.FSError(fmt.Sprintf("failed to read %s", path), err)
		}

		s, err := parseSettings(name, data)
		if err != nil {
			return nil, model.EnvError(fmt.Sprintf("invalid settings file %s", path), err)
		}
		s.Path = path
		return s, nil
	}
	return &Settings{}, nil
}

// parseSettings decodes data according to the file extension of name.
// JSON files may contain comments and trailing commas.
func parseSettings(name string, data []byte) (*Settings, error) {
	var s Settings

	if strings.HasSuffix(name, ".json") {
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return &s, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &s, nil
}

// Resolve returns the effective value of a boolean option: the flag value
// when the flag was given on the command line, else the settings value when
// present, else def.
func Resolve(flagValue, flagChanged bool, setting *bool, def bool) bool {
	if flagChanged {
		return flagValue
	}
	if setting != nil {
		return *setting
	}
	return def
}

// DirenvEnabled reports whether environment approval should run.
func (s *Settings) DirenvEnabled() bool {
	if s == nil || s.Direnv == nil {
		return true
	}
	return *s.Direnv
}

package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/specialistvlad/wfscript/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable pointing at the settings file.
const EnvConfigPath = "WFSCRIPT_CONFIG"

// YAMLLoader reads settings from a YAML file. Unknown keys are rejected.
type YAMLLoader struct{}

// NewLoader returns the YAML settings loader.
func NewLoader() *YAMLLoader {
	return &YAMLLoader{}
}

// Load implements Loader. Values missing from the file keep their defaults.
func (l *YAMLLoader) Load(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	cfg := Defaults()
	if path == "" {
		logger.Debug("No settings file, using defaults.")
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", path, err)
	}

	logger.Debug("Settings file loaded.", "path", path)
	return cfg, nil
}

// Locate returns the settings file to load. An explicit path always wins
// and must exist. Otherwise $WFSCRIPT_CONFIG, then
// $XDG_CONFIG_HOME/wfscript/config.yaml (or ~/.config/...) are tried; a
// missing default file is not an error and yields "".
func Locate(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("settings file: %w", err)
		}
		return explicit, nil
	}
	if p := getenv(EnvConfigPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("settings file from %s: %w", EnvConfigPath, err)
		}
		return p, nil
	}

	dir := getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home := getenv("HOME")
		if home == "" {
			return "", nil
		}
		dir = filepath.Join(home, ".config")
	}
	p := filepath.Join(dir, "wfscript", "config.yaml")
	if _, err := os.Stat(p); err != nil {
		return "", nil
	}
	return p, nil
}

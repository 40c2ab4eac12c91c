// Package config loads the lazychanges configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/chmouel/lazychanges/internal/theme"
	"gopkg.in/yaml.v3"
)

// AppConfig defines the global lazychanges configuration options.
type AppConfig struct {
	// Nested selects the default presentation: real folder hierarchy when
	// true, flat file list with the folder in each label when false. The
	// root-level toggle in the UI flips it for subsequent rebuilds.
	Nested      bool   `yaml:"nested"`
	ShowIcons   bool   `yaml:"show_icons"` // Render Nerd Font icons in the file tree
	Theme       string `yaml:"theme"`
	DebugLog    string `yaml:"debug_log"`
	AutoRefresh bool   `yaml:"auto_refresh"` // Rebuild when the repository changes on disk
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Nested:      true,
		ShowIcons:   true,
		Theme:       theme.DraculaName,
		AutoRefresh: true,
	}
}

// DefaultConfigPath returns the XDG location of the config file.
func DefaultConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "lazychanges", "config.yaml")
}

// LoadConfig reads the YAML config at path, or the default location when
// path is empty. A missing file yields the defaults without error; an
// unreadable or unparsable file yields the defaults plus the error so the
// caller can warn and continue.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Theme != "" && !theme.Known(cfg.Theme) {
		unknown := cfg.Theme
		cfg.Theme = theme.DraculaName
		return cfg, fmt.Errorf("unknown theme %q in %s", unknown, path)
	}
	return cfg, nil
}

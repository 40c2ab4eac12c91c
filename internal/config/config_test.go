package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chmouel/lazychanges/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Nested)
	assert.True(t, cfg.ShowIcons)
	assert.True(t, cfg.AutoRefresh)
	assert.Equal(t, theme.DraculaName, cfg.Theme)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
nested: false
show_icons: false
theme: nord
debug_log: /tmp/lazychanges.log
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Nested)
	assert.False(t, cfg.ShowIcons)
	assert.Equal(t, "nord", cfg.Theme)
	assert.Equal(t, "/tmp/lazychanges.log", cfg.DebugLog)
	// Keys absent from the file keep their defaults.
	assert.True(t, cfg.AutoRefresh)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nested: [[["), 0o600))

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigUnknownTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: neon-zebra\n"), 0o600))

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Equal(t, theme.DraculaName, cfg.Theme)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) (configHome, dataHome string) {
	t.Helper()
	root := t.TempDir()
	configHome = filepath.Join(root, "config")
	dataHome = filepath.Join(root, "data")
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_DATA_HOME", dataHome)
	return configHome, dataHome
}

func TestLoadConfigCreatesDefaults(t *testing.T) {
	configHome, dataHome := isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://tavernai.net", cfg.BaseURL)
	assert.Equal(t, filepath.Join(dataHome, "tavernkeep", "characters"), cfg.LibraryDir)
	assert.True(t, cfg.NSFW)
	assert.Equal(t, 30, cfg.Amount)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.FileExists(t, filepath.Join(configHome, "tavernkeep", "config.toml"))
}

func TestLoadConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	configHome, _ := isolate(t)
	path := filepath.Join(configHome, "tavernkeep", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("nsfw = false\namount = 10\n"), 0644))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.NSFW)
	assert.Equal(t, 10, cfg.Amount)
	assert.Equal(t, "https://tavernai.net", cfg.BaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigRejectsBadFile(t *testing.T) {
	configHome, _ := isolate(t)
	path := filepath.Join(configHome, "tavernkeep", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("amount = \"many\"\n"), 0644))

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestSetLibraryDir(t *testing.T) {
	isolate(t)
	target := t.TempDir()

	require.NoError(t, SetLibraryDir(target))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, target, cfg.LibraryDir)
}

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(file, []byte(""), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir), "directories don't count")
	assert.False(t, FileExists(filepath.Join(dir, "missing.toml")))
}

func TestUserConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	path, err := UserConfigFile("pulse-switcher", "config.toml")
	require.NoError(t, err)
	assert.Equal(t, "config.toml", filepath.Base(path))
	assert.Equal(t, "pulse-switcher", filepath.Base(filepath.Dir(path)))
}

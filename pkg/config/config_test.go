package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexlane/commitlog/internal/bytesize"
)

// yamlSafePath converts a filesystem path to a YAML-safe representation.
// On Windows, backslashes in double-quoted YAML strings are interpreted
// as escape sequences, causing parse errors.
func yamlSafePath(p string) string {
	return filepath.ToSlash(p)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeConfig(t, `
disk:
  path: "`+yamlSafePath(tmpDir)+`/log.bin"
  capacity: 64Mi
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, 64*bytesize.MiB, cfg.Disk.Capacity)
	assert.Equal(t, uint64(1<<20), cfg.Disk.MaxItems)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_HumanReadableCapacity(t *testing.T) {
	path := writeConfig(t, `
disk:
  path: "log.bin"
  capacity: "1Gi"
  max_items: 500
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, bytesize.GiB, cfg.Disk.Capacity)
	assert.Equal(t, uint64(500), cfg.Disk.MaxItems)
}

func TestLoad_PlainNumberCapacity(t *testing.T) {
	path := writeConfig(t, `
disk:
  path: "log.bin"
  capacity: 1024
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, bytesize.ByteSize(1024), cfg.Disk.Capacity)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "commitlog.bin", cfg.Disk.Path)
}

func TestLoad_RejectsTinyCapacity(t *testing.T) {
	path := writeConfig(t, `
disk:
  path: "log.bin"
  capacity: 10
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header minimum")
}

func TestLoad_RejectsBadLogLevel(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: "LOUD"
disk:
  path: "log.bin"
  capacity: 1Ki
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Disk.Capacity = 28

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Disk.Path, loaded.Disk.Path)
	assert.Equal(t, cfg.Disk.Capacity, loaded.Disk.Capacity)
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	require.NoError(t, Validate(GetDefaultConfig()))
}

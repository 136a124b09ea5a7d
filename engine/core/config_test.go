package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[texture]
update_strategy = "retain-last"

[window]
count = 3
parallel = true
`))
	require.NoError(t, err)
	assert.Equal(t, "retain-last", cfg.Texture.UpdateStrategy)
	assert.Equal(t, 3, cfg.Window.Count)
	assert.True(t, cfg.Window.Parallel)

	def := DefaultConfig()
	assert.Equal(t, def.Log, cfg.Log)
	assert.Equal(t, def.Assets, cfg.Assets)
	assert.Equal(t, def.Window.Width, cfg.Window.Width)
}

func TestParseConfigRejects(t *testing.T) {
	cases := map[string]string{
		"syntax":   `[texture`,
		"strategy": "[texture]\nupdate_strategy = \"newest\"",
		"units":    "[capabilities]\nmax_texture_units = -1",
		"workers":  "[assets]\nworkers = 0",
		"cache":    "[assets]\ncache_size = 0",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(data))
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aviatrix3d.toml")
	require.NoError(t, os.WriteFile(path, []byte("[capabilities]\ndisable_vbo = true\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Capabilities.DisableBufferObjects)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigureLogging(t *testing.T) {
	assert.Error(t, ConfigureLogging(LogConfig{Level: "loud"}))

	file := filepath.Join(t.TempDir(), "a3d.log")
	require.NoError(t, ConfigureLogging(LogConfig{Level: "debug", File: file, MaxSizeMB: 1}))
	LogInfo("rotated %d", 1)
	t.Cleanup(func() { _ = ConfigureLogging(LogConfig{Level: "info"}) })

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rotated 1")
}

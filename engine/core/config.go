package core

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LogConfig is the [log] section.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// CapabilityConfig is the [capabilities] section. It can only ever take
// features away from what the driver reports.
type CapabilityConfig struct {
	DisableBufferObjects bool `toml:"disable_vbo"`
	DisableMultiTexture  bool `toml:"disable_multitexture"`
	// MaxTextureUnits caps the probed unit count. Zero keeps the probed value.
	MaxTextureUnits int `toml:"max_texture_units"`
}

// TextureConfig is the [texture] section.
type TextureConfig struct {
	UpdateStrategy string `toml:"update_strategy"`
}

// AssetConfig is the [assets] section.
type AssetConfig struct {
	Dir       string `toml:"dir"`
	CacheSize int    `toml:"cache_size"`
	Workers   int    `toml:"workers"`
	Watch     bool   `toml:"watch"`
}

// WindowConfig is the [window] section, only consulted by the testbed.
type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	Count  int    `toml:"count"`
	// Parallel renders each window's context on its own goroutine.
	Parallel bool `toml:"parallel"`
}

type Config struct {
	Log          LogConfig        `toml:"log"`
	Capabilities CapabilityConfig `toml:"capabilities"`
	Texture      TextureConfig    `toml:"texture"`
	Assets       AssetConfig      `toml:"assets"`
	Window       WindowConfig     `toml:"window"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  32,
			MaxBackups: 1,
		},
		Texture: TextureConfig{
			UpdateStrategy: "retain-all",
		},
		Assets: AssetConfig{
			Dir:       "assets",
			CacheSize: 64,
			Workers:   2,
			Watch:     true,
		},
		Window: WindowConfig{
			Width:  640,
			Height: 480,
			Title:  "Aviatrix3D",
			Count:  2,
		},
	}
}

// ParseConfig decodes TOML on top of DefaultConfig, so a file only needs to
// name the values it changes.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: config: %v", ErrInvalidArgument, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

func (c *Config) validate() error {
	switch c.Texture.UpdateStrategy {
	case "retain-all", "retain-last", "discard-overwritten":
	default:
		return fmt.Errorf("%w: unknown texture update strategy %q", ErrInvalidArgument, c.Texture.UpdateStrategy)
	}
	if c.Capabilities.MaxTextureUnits < 0 {
		return fmt.Errorf("%w: max_texture_units must be >= 0", ErrInvalidArgument)
	}
	if c.Assets.Workers <= 0 {
		return fmt.Errorf("%w: assets.workers must be > 0", ErrInvalidArgument)
	}
	if c.Assets.CacheSize <= 0 {
		return fmt.Errorf("%w: assets.cache_size must be > 0", ErrInvalidArgument)
	}
	return nil
}

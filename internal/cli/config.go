package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/kintree/kintree/pkg/pipeline"
)

// Config is the optional TOML config file. Every field has a default, so a
// missing file is the same as an empty one.
//
//	[layout]
//	sibling_gap = 200
//	level_height = 200
//
//	[cache]
//	redis = "localhost:6379"
//	redis_prefix = "kintree:"
//
//	[serve]
//	addr = ":8080"
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
}

// LayoutConfig holds layout spacing defaults.
type LayoutConfig struct {
	SiblingGap  float64 `toml:"sibling_gap"`
	LevelHeight float64 `toml:"level_height"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Redis       string `toml:"redis"`
	RedisPrefix string `toml:"redis_prefix"`
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Layout: LayoutConfig{
			SiblingGap:  pipeline.DefaultSiblingGap,
			LevelHeight: pipeline.DefaultLevelHeight,
		},
		Cache: CacheConfig{RedisPrefix: appName + ":"},
		Serve: ServeConfig{Addr: ":8080"},
	}
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. Only an explicitly named file must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = configPath(); err != nil {
			return cfg, nil
		}
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Layout.SiblingGap <= 0 || cfg.Layout.LevelHeight <= 0 {
		return cfg, fmt.Errorf("config %s: layout spacing must be positive", path)
	}
	return cfg, nil
}

// configPath returns $XDG_CONFIG_HOME/kintree/config.toml, falling back to
// ~/.config/kintree/config.toml.
func configPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Grid    GridConfig    `toml:"grid"`
	Capture CaptureConfig `toml:"capture"`
	Session SessionConfig `toml:"session"`
	Log     LogConfig     `toml:"log"`
}

// GridConfig maps screen and grid dimensions.
type GridConfig struct {
	Width  *int `toml:"width"`
	Height *int `toml:"height"`
	Rows   *int `toml:"rows"`
	Cols   *int `toml:"cols"`
}

// CaptureConfig maps camera and detector settings.
type CaptureConfig struct {
	Source     *string  `toml:"source"`
	Camera     *int     `toml:"camera"`
	Model      *string  `toml:"model"`
	Eye        *string  `toml:"eye"`
	Mirror     *bool    `toml:"mirror"`
	Confidence *float64 `toml:"confidence"`
}

// SessionConfig maps accumulation settings.
type SessionConfig struct {
	Attribution *string `toml:"attribution"`
	Events      *bool   `toml:"events"`
	Save        *bool   `toml:"save"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

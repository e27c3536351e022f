package ops

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds ambient, non-semantic knobs for running an ops program:
// none of these fields change what a program computes, only how it is
// presented. Grounded in the shape of an emulator's own config package —
// defaults first, optionally overridden by a config.toml.
type Config struct {
	Display struct {
		FloatFormat string `toml:"float_format"`
		ColorOutput bool   `toml:"color_output"`
	} `toml:"display"`

	IO struct {
		ReadPrompt string `toml:"read_prompt"`
	} `toml:"io"`

	Debugger struct {
		HistorySize int `toml:"history_size"`
	} `toml:"debugger"`
}

// DefaultConfig returns a Config with the toolchain's built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Display.FloatFormat = "%.6f"
	cfg.Display.ColorOutput = false
	cfg.IO.ReadPrompt = "Enter value for"
	cfg.Debugger.HistorySize = 100
	return cfg
}

// LoadFrom overlays a config.toml at path on top of DefaultConfig. A
// missing file is not an error; it leaves the defaults untouched.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

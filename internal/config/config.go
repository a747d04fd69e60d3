package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// Config holds the batch conversion settings.
type Config struct {
	// Files
	Input        string `json:"input"`
	InputFormat  string `json:"input_format"`
	Output       string `json:"output"`
	OutputFormat string `json:"output_format"`

	// Conversion settings
	Workers         int  `json:"workers"`
	RejectNonFinite bool `json:"reject_non_finite"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies CLI flags and fills any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Input != "" {
		c.Input = flags.Input
	}
	if flags.InputFormat != "" {
		c.InputFormat = flags.InputFormat
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.OutputFormat != "" {
		c.OutputFormat = flags.OutputFormat
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Strict {
		c.RejectNonFinite = true
	}

	// Defaults
	if c.InputFormat == "" {
		c.InputFormat = "auto"
	}
	if c.OutputFormat == "" {
		c.OutputFormat = "text"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Input        string
	InputFormat  string
	Output       string
	OutputFormat string
	Workers      int
	Strict       bool
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the ngram configuration file (~/.config/ngram/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	ModelsDir string `yaml:"models_dir"`

	// Model defaults
	ContextSize      *int64   `yaml:"context_size"`
	Smoothing        *bool    `yaml:"smoothing"`
	SamplingFraction *float64 `yaml:"sampling_fraction"`
	Seed             *int64   `yaml:"seed"`
	Steps            *int64   `yaml:"steps"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ngram", "config.yaml")
}

// LoadConfig reads the config file. A missing or unreadable file yields a
// zero Config.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "warning: ignoring config file: %v\n", err)
		return Config{}
	}
	return cfg
}

func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func applyLogConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyModelConfig applies config file defaults to the model flags that were
// not explicitly set.
func applyModelConfig(c *cli.Command, cfg Config) {
	if cfg.ModelsDir != "" && !c.IsSet("models-path") {
		modelsPath = cfg.ModelsDir
	}
	if cfg.ContextSize != nil && !c.IsSet("context-size") {
		contextSize = *cfg.ContextSize
	}
	if cfg.Smoothing != nil && !c.IsSet("smoothing") {
		smoothing = *cfg.Smoothing
	}
	if cfg.SamplingFraction != nil && !c.IsSet("sampling-fraction") {
		samplingFraction = *cfg.SamplingFraction
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		seed = *cfg.Seed
	}
}

func applyGenerateConfig(c *cli.Command, cfg Config, steps *int64) {
	applyModelConfig(c, cfg)
	if cfg.Steps != nil && !c.IsSet("steps") {
		*steps = *cfg.Steps
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	applyModelConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

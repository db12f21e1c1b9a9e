package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the optional config file (~/.config/upkg/config.yaml). Pointer
// fields distinguish "not set" from zero values.
type Config struct {
	Legacy     *bool  `yaml:"legacy"`
	Sequential *bool  `yaml:"sequential"`
	Workers    *int64 `yaml:"workers"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`

	// Sidecar is the default codec for dumped bulk payloads.
	Sidecar string `yaml:"sidecar"`
	// CompanionDir is searched for companion files named by --companion.
	CompanionDir string `yaml:"companion_dir"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "upkg", "config.yaml")
}

var loaded Config

// LoadConfig reads the config file. A missing file yields a zero Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyConfig applies config file defaults to the global flags that were not
// set explicitly.
func applyConfig(c *cli.Command, cfg Config) {
	loaded = cfg
	if cfg.Legacy != nil && !c.IsSet("legacy") {
		legacy = *cfg.Legacy
	}
	if cfg.Sequential != nil && !c.IsSet("sequential") {
		sequential = *cfg.Sequential
	}
	if cfg.Workers != nil && !c.IsSet("workers") {
		workers = *cfg.Workers
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// companionPath resolves a relative companion file name against the
// configured companion directory.
func companionPath(name string) string {
	if name == "" || filepath.IsAbs(name) || loaded.CompanionDir == "" {
		return name
	}

	return filepath.Join(loaded.CompanionDir, name)
}

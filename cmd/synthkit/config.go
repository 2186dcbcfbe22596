package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const envSynthkitDataDir = "SYNTHKIT_DATA_DIR"

// Config represents the synthkit configuration file (~/.config/synthkit/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	// Fetcher
	BaseURL     string         `yaml:"base_url"`
	MaxAttempts *int64         `yaml:"max_attempts"`
	Timeout     *time.Duration `yaml:"timeout"`
	DataDir     string         `yaml:"data_dir"`

	// Generation defaults
	Generate GenerateConfig `yaml:"generate"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

type GenerateConfig struct {
	Rows        *int64   `yaml:"n"`
	Continuous  *int64   `yaml:"p_cts"`
	Binary      *int64   `yaml:"p_bin"`
	Categorical *int64   `yaml:"p_cat"`
	Ordinal     *int64   `yaml:"p_ord"`
	Rank        *int64   `yaml:"k"`
	NumCats     *int64   `yaml:"num_cats"`
	NumOrd      *int64   `yaml:"num_ord"`
	PctMissing  *float64 `yaml:"pct_missing"`
	NoiseScale  *float64 `yaml:"noise_scale"`
	Seed        *uint64  `yaml:"seed"`
	Format      string   `yaml:"format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "synthkit", "config.yaml")
}

// loadConfig reads the config file. A missing file yields a zero Config
// unless the path was given explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyFetchConfig applies config file defaults to fetch command variables
// when the corresponding CLI flag was not explicitly set.
func applyFetchConfig(c *cli.Command, cfg Config, baseURL *string, maxAttempts *int64, timeout *time.Duration) {
	if cfg.BaseURL != "" && !c.IsSet("base-url") {
		*baseURL = cfg.BaseURL
	}
	if cfg.MaxAttempts != nil && !c.IsSet("max-attempts") {
		*maxAttempts = *cfg.MaxAttempts
	}
	if cfg.Timeout != nil && !c.IsSet("timeout") {
		*timeout = *cfg.Timeout
	}
}

// applyGenerateConfig applies config file defaults to generate command variables.
func applyGenerateConfig(c *cli.Command, cfg GenerateConfig, o *generateOptions) {
	setInt := func(flag string, v *int64, dst *int64) {
		if v != nil && !c.IsSet(flag) {
			*dst = *v
		}
	}
	setInt("rows", cfg.Rows, &o.rows)
	setInt("continuous", cfg.Continuous, &o.continuous)
	setInt("binary", cfg.Binary, &o.binary)
	setInt("categorical", cfg.Categorical, &o.categorical)
	setInt("ordinal", cfg.Ordinal, &o.ordinal)
	setInt("rank", cfg.Rank, &o.rank)
	setInt("num-cats", cfg.NumCats, &o.numCats)
	setInt("num-ord", cfg.NumOrd, &o.numOrd)

	if cfg.PctMissing != nil && !c.IsSet("missing") {
		o.pctMissing = *cfg.PctMissing
	}
	if cfg.NoiseScale != nil && !c.IsSet("noise") {
		o.noiseScale = *cfg.NoiseScale
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		o.seed = *cfg.Seed
	}
	if cfg.Format != "" && !c.IsSet("format") {
		o.format = cfg.Format
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

// resolveDataDir picks the download directory: flag, then config file, then
// SYNTHKIT_DATA_DIR, then the flag default.
func resolveDataDir(c *cli.Command, flag, flagValue string, cfg Config) string {
	if c.IsSet(flag) {
		return filepath.Clean(flagValue)
	}
	if dir := strings.TrimSpace(cfg.DataDir); dir != "" {
		return filepath.Clean(dir)
	}
	if dir := strings.TrimSpace(os.Getenv(envSynthkitDataDir)); dir != "" {
		return filepath.Clean(dir)
	}
	return filepath.Clean(flagValue)
}

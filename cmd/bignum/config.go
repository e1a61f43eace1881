package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// ErrConfigFileNotFound is returned when an explicitly named config file
// does not exist.
var ErrConfigFileNotFound = errors.New("cmd/bignum: config file not found")

// ErrInvalidConfig is returned by ValidateConfig for an out-of-range field.
var ErrInvalidConfig = errors.New("cmd/bignum: invalid configuration")

// Config holds the CLI's resolved settings: YAML file defaults, layered
// under environment variables, layered under explicit CLI flags --
// matching the corpus's "defaults struct + flags override" pattern.
type Config struct {
	DefaultRadix     int  `yaml:"default_radix"`
	ShowBase         bool `yaml:"show_base"`
	ShowPositiveSign bool `yaml:"show_positive_sign"`
	UppercaseHex     bool `yaml:"uppercase_hex"`
	Verbosity        int  `yaml:"verbosity"`
	Metrics          bool `yaml:"metrics"`

	ConfigFile string            `yaml:"-"`
	ExtraFlags map[string]string `yaml:"-"`
}

// DefaultConfig returns the built-in defaults applied before any file,
// environment, or flag override.
func DefaultConfig() Config {
	return Config{
		DefaultRadix: 10,
		Verbosity:    3,
		ExtraFlags:   make(map[string]string),
	}
}

// LoadConfig reads a YAML config file at path. An empty path returns the
// defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigFileNotFound
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cmd/bignum: parsing config %s: %w", path, err)
	}
	cfg.ConfigFile = path
	MergeDefaults(&cfg)
	return &cfg, nil
}

// MergeDefaults fills any zero-valued field of cfg from DefaultConfig.
// Explicit zero in a config file is indistinguishable from "unset" --
// an accepted limitation of the plain-struct YAML approach, consistent
// with the corpus's own config loader.
func MergeDefaults(cfg *Config) {
	defaults := DefaultConfig()
	if cfg.DefaultRadix == 0 {
		cfg.DefaultRadix = defaults.DefaultRadix
	}
	if cfg.Verbosity == 0 {
		cfg.Verbosity = defaults.Verbosity
	}
	if cfg.ExtraFlags == nil {
		cfg.ExtraFlags = make(map[string]string)
	}
}

// ValidateConfig rejects an out-of-range radix or verbosity.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if cfg.DefaultRadix < 2 || cfg.DefaultRadix > 36 {
		return fmt.Errorf("%w: default_radix %d out of range [2,36]", ErrInvalidConfig, cfg.DefaultRadix)
	}
	if cfg.Verbosity < 0 || cfg.Verbosity > 5 {
		return fmt.Errorf("%w: verbosity %d out of range [0,5]", ErrInvalidConfig, cfg.Verbosity)
	}
	return nil
}

// ApplyEnvironment overlays BIGNUM_* environment variables onto cfg.
// Malformed values are silently ignored, leaving the prior value in place.
func ApplyEnvironment(cfg *Config) {
	if v, ok := os.LookupEnv("BIGNUM_RADIX"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DefaultRadix = n
		}
	}
	if v, ok := os.LookupEnv("BIGNUM_VERBOSITY"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Verbosity = n
		}
	}
	if v, ok := os.LookupEnv("BIGNUM_METRICS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics = b
		}
	}
	if v, ok := os.LookupEnv("BIGNUM_SHOW_BASE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ShowBase = b
		}
	}
}

// MergeCLIFlags layers cli -- already populated from flag defaults seeded
// with cfg's current values -- on top of cfg. Numeric fields only override
// when non-zero, so an explicit 0 on the command line never replaces a
// file- or environment-supplied value; boolean fields always take the
// CLI's resolved value, which for a flag that was not passed is the seeded
// value from cfg.
func MergeCLIFlags(cfg *Config, cli Config) {
	if cli.DefaultRadix != 0 {
		cfg.DefaultRadix = cli.DefaultRadix
	}
	if cli.Verbosity != 0 {
		cfg.Verbosity = cli.Verbosity
	}
	cfg.ShowBase = cli.ShowBase
	cfg.ShowPositiveSign = cli.ShowPositiveSign
	cfg.UppercaseHex = cli.UppercaseHex
	cfg.Metrics = cli.Metrics
}

// Package config loads loglens settings from flags, LOGLENS_* environment
// variables and an optional YAML config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tinytelemetry/loglens/internal/logger"
	"github.com/tinytelemetry/loglens/internal/model"
	"github.com/tinytelemetry/loglens/internal/render"
)

const (
	EnvPrefix   = "LOGLENS"
	DefaultAddr = "127.0.0.1:3000"
)

// Color modes for the text renderer.
var ColorModes = []string{"auto", "always", "never"}

// Config is the resolved runtime configuration.
type Config struct {
	Format      string `mapstructure:"format"`
	Top         int    `mapstructure:"top"`
	LogLevel    string `mapstructure:"log-level"`
	SkipBlank   bool   `mapstructure:"skip-blank"`
	Parallel    bool   `mapstructure:"parallel"`
	MaxLineSize int    `mapstructure:"max-line-size"`
	BufferSize  int    `mapstructure:"buffer-size"`
	Color       string `mapstructure:"color"`
	Addr        string `mapstructure:"addr"`
	ConfigPath  string `mapstructure:"-"` // not from config file
}

// DefaultConfigPath returns $HOME/.config/loglens/config.yml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "loglens", "config.yml"), nil
}

// Load resolves the configuration. flags may be nil; set flags override every
// other source. A missing default config file is not an error, a missing
// explicit configPath is.
func Load(configPath string, flags *pflag.FlagSet) (Config, error) {
	var cfg Config

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("format", model.DefaultFormat)
	v.SetDefault("top", model.DefaultTopN)
	v.SetDefault("log-level", logger.DefaultLevel)
	v.SetDefault("skip-blank", true)
	v.SetDefault("parallel", false)
	v.SetDefault("max-line-size", model.DefaultMaxLineSize)
	v.SetDefault("buffer-size", model.DefaultLineBuffer)
	v.SetDefault("color", "auto")
	v.SetDefault("addr", DefaultAddr)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return cfg, fmt.Errorf("config: bind flags: %w", err)
		}
	}

	explicit := configPath != ""
	if !explicit {
		p, err := DefaultConfigPath()
		if err != nil {
			return cfg, err
		}
		configPath = p
	}
	v.SetConfigFile(configPath)

	loaded := true
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &configFileNotFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return cfg, fmt.Errorf("config: reading %s: %w", configPath, err)
		}
		loaded = false
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if loaded {
		cfg.ConfigPath = v.ConfigFileUsed()
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.Color = strings.ToLower(strings.TrimSpace(cfg.Color))

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !slices.Contains(render.Formats, c.Format) {
		return fmt.Errorf("config: invalid format %q (want one of %s)", c.Format, strings.Join(render.Formats, ", "))
	}
	if c.Top < 1 {
		return fmt.Errorf("config: invalid top %d (must be at least 1)", c.Top)
	}
	if !slices.Contains(ColorModes, c.Color) {
		return fmt.Errorf("config: invalid color %q (want one of %s)", c.Color, strings.Join(ColorModes, ", "))
	}
	if c.MaxLineSize <= 0 {
		return fmt.Errorf("config: invalid max-line-size %d", c.MaxLineSize)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("config: invalid buffer-size %d", c.BufferSize)
	}
	return nil
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/railyard/shunt/internal/logging"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration, loaded from an optional YAML file.
type Config struct {
	LogLevel string      `mapstructure:"log_level"`
	Redis    RedisConfig `mapstructure:"redis"`
}

// RedisConfig enables Redis-backed run record persistence when Addr is set.
type RedisConfig struct {
	Addr   string        `mapstructure:"addr"`
	Prefix string        `mapstructure:"prefix"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// loadConfig reads the YAML file into a generic map and decodes it into the
// typed config, so unknown keys fail loudly instead of being ignored.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		ErrorUnused: true,
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(raw); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// setup resolves config and logger from the command's persistent flags.
func setup(cmd *cobra.Command) (Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(path)
	if err != nil {
		return cfg, nil, err
	}

	levelStr, _ := cmd.Flags().GetString("log-level")
	if levelStr == "" {
		levelStr = cfg.LogLevel
	}
	level, err := logging.ParseLevel(levelStr)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logging.New(level), nil
}

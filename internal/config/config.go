// Package config loads settings from an optional YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/julianstephens/askeza/internal/utils"
)

type Config struct {
	// DB is a SQLite file path or a PostgreSQL connection string.
	DB             string        `yaml:"db" env:"ASKEZA_DB" env-default:"~/.config/askeza/askeza.db"`
	Debug          bool          `yaml:"debug" env:"ASKEZA_DEBUG" env-default:"false"`
	Timezone       string        `yaml:"timezone" env:"ASKEZA_TIMEZONE" env-default:"Local"`
	TickInterval   time.Duration `yaml:"tick_interval" env:"ASKEZA_TICK_INTERVAL" env-default:"1m"`
	DebounceWindow time.Duration `yaml:"debounce" env:"ASKEZA_DEBOUNCE" env-default:"5s"`
	SeedOnStart    bool          `yaml:"seed_on_start" env:"ASKEZA_SEED_ON_START" env-default:"true"`
}

// Load reads path when it exists and the environment otherwise. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	var cfg Config

	path = ExpandPath(path)
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config %s: %w", path, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("cannot stat config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DB) == "" {
		return errors.New("config: db must not be empty")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("config: invalid timezone %q", c.Timezone)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("config: tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.DebounceWindow < 0 {
		return fmt.Errorf("config: debounce must not be negative, got %s", c.DebounceWindow)
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// DataDir is where logs and backups live. For PostgreSQL it falls back to the
// default config directory.
func (c *Config) DataDir(defaultDir string) string {
	if strings.HasPrefix(c.DB, "postgres://") || strings.HasPrefix(c.DB, "postgresql://") {
		return ExpandPath(defaultDir)
	}
	return filepath.Dir(ExpandPath(c.DB))
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Package config loads process configuration: where the database lives,
// how to log and where the API listens. User settings live in the database.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/keyring"
	"github.com/julianstephens/lifelog/internal/utils"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
}

type DatabaseConfig struct {
	// Path is a SQLite file, a PostgreSQL URI, or "keyring".
	Path string `yaml:"path"`
}

type LogConfig struct {
	Debug bool   `yaml:"debug"`
	Dir   string `yaml:"dir"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file or overrides exist.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: constants.DefaultDBPath},
		Server:   ServerConfig{Addr: constants.DefaultServerAddr},
	}
}

// Load reads the YAML file at path over the defaults and then applies
// LIFELOG_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		expanded, err := utils.ExpandHome(path)
		if err != nil {
			return nil, fmt.Errorf("resolving config path: %w", err)
		}
		data, err := os.ReadFile(expanded)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, c); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", expanded, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("reading %s: %w", expanded, err)
		}
	}

	envOverride(&c.Database.Path, "LIFELOG_DB")
	envOverride(&c.Server.Addr, "LIFELOG_ADDR")
	envOverride(&c.Log.Dir, "LIFELOG_LOG_DIR")
	envOverrideBool(&c.Log.Debug, "LIFELOG_DEBUG")

	return c, nil
}

// ResolveDSN turns the configured database path into something a store can
// open: "~" is expanded for files and "keyring" is replaced by the stored
// PostgreSQL connection string.
func (c *Config) ResolveDSN() (string, error) {
	if c.Database.Path == constants.KeyringDSN {
		dsn, err := keyring.GetConnectionString()
		if err != nil {
			return "", fmt.Errorf("reading connection string from keyring: %w", err)
		}
		return dsn, nil
	}
	if utils.IsPostgresDSN(c.Database.Path) {
		return c.Database.Path, nil
	}
	return utils.ExpandHome(c.Database.Path)
}

// UsesKeyring reports whether the database connection string comes from the OS keyring.
func (c *Config) UsesKeyring() bool {
	return c.Database.Path == constants.KeyringDSN
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

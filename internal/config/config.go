// Package config provides YAML-based configuration loading for the
// poster tracker.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvDBURL names the environment variable that supplies a complete
// database DSN. It overrides whatever the config file says, so
// credentials never have to live in the file.
const EnvDBURL = "POSTER_TRACKER_DB_URL"

// EnvDBPassword supplies the mysql password out-of-band.
const EnvDBPassword = "POSTER_TRACKER_DB_PASSWORD"

// Supported database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config is the top-level tracker configuration, loaded from
// poster-tracker.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
}

// ServerConfig holds settings for the web UI.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds connection settings for the relational store.
// For mysql the DSN is built from host/port/name/user plus the
// password from the environment; for sqlite only Path is used.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"-"`
	Path     string `yaml:"path"`

	// URL, when non-empty, is used verbatim as the DSN. Populated from
	// EnvDBURL, never from the file.
	URL string `yaml:"-"`
}

// Load reads a YAML config file from path and returns a validated Config.
// A missing file yields the defaults, so `pt serve` works out of the box
// against a local SQLite file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		data = nil
	} else if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config, applying
// defaults and environment overrides.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv pulls secrets and overrides from the environment.
func (c *Config) applyEnv() {
	if url := os.Getenv(EnvDBURL); url != "" {
		c.Database.URL = url
		if c.Database.Driver == "" {
			c.Database.Driver = DriverMySQL
		}
	}
	if pw := os.Getenv(EnvDBPassword); pw != "" {
		c.Database.Password = pw
	}
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	switch c.Database.Driver {
	case DriverMySQL:
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			c.Database.Port = 3306
		}
		if c.Database.Name == "" {
			c.Database.Name = "poster_tracker"
		}
		if c.Database.User == "" {
			c.Database.User = "root"
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			c.Database.Path = "poster-tracker.db"
		}
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not one of mysql, sqlite", c.Database.Driver))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// DSN builds the connection string for the configured driver. The
// EnvDBURL override wins when present.
func (c *Config) DSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	if c.Database.Driver == DriverSQLite {
		return c.Database.Path
	}
	cred := c.Database.User
	if c.Database.Password != "" {
		cred += ":" + c.Database.Password
	}
	return fmt.Sprintf("%s@tcp(%s:%d)/%s?parseTime=true",
		cred, c.Database.Host, c.Database.Port, c.Database.Name)
}

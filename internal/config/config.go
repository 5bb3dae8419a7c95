package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  Server  `yaml:"server" json:"server"`
	Storage Storage `yaml:"storage" json:"storage"`
	Auth    Auth    `yaml:"auth" json:"auth"`
	Focus   Focus   `yaml:"focus" json:"focus"`
}

type Server struct {
	Addr         string   `yaml:"addr" json:"addr"`
	DataDir      string   `yaml:"data_dir" json:"data_dir"`
	CORSOrigins  []string `yaml:"cors_origins" json:"cors_origins"`
	MaxBodyBytes int64    `yaml:"max_body_bytes" json:"max_body_bytes"`
}

// Storage selects the task store backend. Projects, labels, auth and
// analytics always live in JSON files under data_dir.
type Storage struct {
	// Backend: "file", "sqlite" or "postgres".
	Backend string `yaml:"backend" json:"backend"`
	// DSN is the sqlite path or postgres connection string.
	DSN string `yaml:"dsn" json:"dsn"`
}

type Auth struct {
	// Enabled turns the whole OTP/session layer on. When off the API
	// serves the "default" user without a cookie.
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	JWTSecret string `yaml:"jwt_secret" json:"-"`
}

type Focus struct {
	DefaultMinutes int `yaml:"default_minutes" json:"default_minutes"`
}

func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = ":8080"
	}
	if strings.TrimSpace(c.Server.DataDir) == "" {
		c.Server.DataDir = "data"
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
	if strings.TrimSpace(c.Storage.Backend) == "" {
		c.Storage.Backend = "file"
	}
	if c.Focus.DefaultMinutes <= 0 {
		c.Focus.DefaultMinutes = 25
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file":
	case "sqlite", "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("storage backend %q requires a dsn", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Auth.Enabled && strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret is required when auth is enabled")
	}
	return nil
}

// Default returns the zero-config setup: file storage, no auth.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// Load reads a YAML config file. A missing file yields the defaults so
// the server runs without any setup.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

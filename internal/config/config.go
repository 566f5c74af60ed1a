package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

type Config struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Store struct {
		Driver string `yaml:"driver"`
		SQLite struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			TTL      string `yaml:"ttl"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"store"`
	Categories struct {
		TTL string `yaml:"ttl"`
	} `yaml:"categories"`
	Quiz struct {
		BankPath string `yaml:"bank_path"`
		Tick     string `yaml:"tick"`
	} `yaml:"quiz"`
}

// Default is the configuration used when no file exists.
func Default() Config {
	cfg := Config{}
	cfg.API.Timeout = "10s"
	cfg.Server.Port = "8080"
	cfg.Store.Driver = DriverSQLite
	cfg.Store.SQLite.Path = "data/quizdom.db"
	cfg.Store.Redis.Addr = "localhost:6379"
	cfg.Store.Redis.TTL = "10m"
	cfg.Store.Redis.Prefix = "quizdom:"
	cfg.Categories.TTL = "10m"
	cfg.Quiz.Tick = "1s"
	return cfg
}

// Load reads YAML config from path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects unknown store drivers.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite, DriverRedis:
		return nil
	}
	return fmt.Errorf("unknown store driver %q", c.Store.Driver)
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

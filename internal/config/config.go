// Package config assembles runtime settings from defaults, an optional YAML
// file and KINOBI_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	Port        string `yaml:"port"`
	LogLevel    string `yaml:"log_level"`
	Store       string `yaml:"store"`
	DBPath      string `yaml:"db_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
	RateLimit   int    `yaml:"rate_limit"`
	AppVersion  string `yaml:"app_version"`
	S3          S3     `yaml:"s3"`
}

// S3 is the snapshot bucket. Backups are disabled unless bucket and both
// keys are set.
type S3 struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

func Default() Config {
	return Config{
		Port:       "8080",
		LogLevel:   "info",
		Store:      StoreSQLite,
		DBPath:     "kinobi.db",
		RateLimit:  120,
		AppVersion: "v1.0.9-simple",
		S3:         S3{Region: "auto"},
	}
}

// Load reads path (or $KINOBI_CONFIG when path is empty) if set, then
// applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("KINOBI_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"KINOBI_PORT", &cfg.Port},
		{"KINOBI_LOG_LEVEL", &cfg.LogLevel},
		{"KINOBI_STORE", &cfg.Store},
		{"KINOBI_DB_PATH", &cfg.DBPath},
		{"KINOBI_POSTGRES_DSN", &cfg.PostgresDSN},
		{"KINOBI_APP_VERSION", &cfg.AppVersion},
		{"KINOBI_S3_ENDPOINT", &cfg.S3.Endpoint},
		{"KINOBI_S3_BUCKET", &cfg.S3.Bucket},
		{"KINOBI_S3_REGION", &cfg.S3.Region},
		{"KINOBI_S3_ACCESS_KEY", &cfg.S3.AccessKey},
		{"KINOBI_S3_SECRET_KEY", &cfg.S3.SecretKey},
	}
	for _, s := range strs {
		if v, ok := os.LookupEnv(s.key); ok && v != "" {
			*s.dst = v
		}
	}

	if v := os.Getenv("KINOBI_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("KINOBI_RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = n
	}
	return nil
}

func (c Config) validate() error {
	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			return errors.New("sqlite store needs a db path")
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			return errors.New("postgres store needs KINOBI_POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreSQLite, StorePostgres)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %d", c.RateLimit)
	}
	if c.Port == "" {
		return errors.New("port is required")
	}
	return nil
}

// Package config resolves where the catalog and audit log live.
//
// Sources, lowest to highest precedence: built-in defaults, an optional
// YAML file, the environment (after loading .env and .env.local), and
// finally command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/roach88/shelf/internal/audit"
)

// Defaults, relative to the working directory.
const (
	DefaultCatalogPath = "data/catalog.json"
	DefaultLogPath     = "logs/app.log"
	DefaultLogLevel    = "info"
	DefaultConfigFile  = "shelf.yaml"
)

// Environment variable names.
const (
	EnvCatalog  = "SHELF_CATALOG"
	EnvLog      = "SHELF_LOG"
	EnvLogLevel = "SHELF_LOG_LEVEL"
)

// Config holds resolved settings.
type Config struct {
	CatalogPath string `yaml:"catalog_path"`
	LogPath     string `yaml:"log_path"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		CatalogPath: DefaultCatalogPath,
		LogPath:     DefaultLogPath,
		LogLevel:    DefaultLogLevel,
	}
}

// LoadEnvFiles loads .env and .env.local if present.
// Variables already set in the process environment win.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load resolves defaults, then path (if it exists), then the environment.
//
// A missing file at path is not an error unless required is true.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist) && !required:
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			var fileCfg Config
			if err := yaml.Unmarshal(data, &fileCfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
			cfg.merge(fileCfg)
		}
	}

	cfg.merge(Config{
		CatalogPath: os.Getenv(EnvCatalog),
		LogPath:     os.Getenv(EnvLog),
		LogLevel:    os.Getenv(EnvLogLevel),
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// merge copies every non-empty field of o into c.
func (c *Config) merge(o Config) {
	if v := strings.TrimSpace(o.CatalogPath); v != "" {
		c.CatalogPath = v
	}
	if v := strings.TrimSpace(o.LogPath); v != "" {
		c.LogPath = v
	}
	if v := strings.TrimSpace(o.LogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate rejects empty paths and unknown log levels.
func (c Config) Validate() error {
	if strings.TrimSpace(c.CatalogPath) == "" {
		return errors.New("catalog path is empty")
	}
	if strings.TrimSpace(c.LogPath) == "" {
		return errors.New("log path is empty")
	}
	if _, err := audit.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "saldoboek.yaml"

// Config represents the top-level saldoboek.yaml configuration.
type Config struct {
	Database  DatabaseConfig `yaml:"database"`
	Seeds     SeedsConfig    `yaml:"seeds"`
	Import    ImportConfig   `yaml:"import"`
	Log       LogConfig      `yaml:"log"`
	ImportLog string         `yaml:"import_log" env:"SALDOBOEK_IMPORT_LOG"`
}

// DatabaseConfig locates the sqlite database.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"SALDOBOEK_DB_PATH"`
}

// SeedsConfig points at the category and rule seed files applied at startup.
type SeedsConfig struct {
	Categories string `yaml:"categories" env:"SALDOBOEK_CATEGORIES"`
	Rules      string `yaml:"rules" env:"SALDOBOEK_RULES"`
}

// ImportConfig controls statement parsing defaults.
type ImportConfig struct {
	DefaultCurrency string `yaml:"default_currency"`
}

// LogConfig controls structured logging. Format is console or json.
type LogConfig struct {
	Level  string `yaml:"level" env:"SALDOBOEK_LOG_LEVEL"`
	Format string `yaml:"format" env:"SALDOBOEK_LOG_FORMAT"`
}

// Load reads a saldoboek.yaml file, fills unset fields from Default and
// applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := finish(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when path does
// not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := finish(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

func finish(cfg *Config) error {
	if err := mergo.Merge(cfg, *Default()); err != nil {
		return fmt.Errorf("merging config defaults: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("reading config environment: %w", err)
	}
	return nil
}

// ResolvePaths makes the relative file locations in cfg relative to base,
// normally the directory holding the config file.
func (c *Config) ResolvePaths(base string) {
	for _, p := range []*string{&c.Database.Path, &c.Seeds.Categories, &c.Seeds.Rules, &c.ImportLog} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "data/saldoboek.db",
		},
		Seeds: SeedsConfig{
			Categories: "config/categories.yaml",
			Rules:      "config/categorization_rules.yaml",
		},
		Import: ImportConfig{
			DefaultCurrency: "EUR",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		ImportLog: "logs/import-log.csv",
	}
}

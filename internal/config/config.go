package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath     = "chatline.yaml"
	DefaultStoreDSN = "file://./data/messages.json"
	DefaultLogLevel = "info"
)

var storeSchemes = []string{"file://", "sqlite://", "postgres://", "postgresql://"}

type ProjectConfig struct {
	Project  string        `yaml:"project"`
	Version  int           `yaml:"version"`
	Store    StoreConfig   `yaml:"store"`
	Scripts  ScriptsConfig `yaml:"scripts"`
	Tables   Tables        `yaml:"tables"`
	LogLevel string        `yaml:"log_level"`
}

type StoreConfig struct {
	DSN string `yaml:"dsn"`
}

type ScriptsConfig struct {
	Paths   []string `yaml:"paths"`
	Exclude []string `yaml:"exclude"`
}

// envOverrides lets deployments point at another store or log level without
// editing the project file.
type envOverrides struct {
	StoreDSN string `env:"CHATLINE_STORE_DSN"`
	LogLevel string `env:"CHATLINE_LOG_LEVEL"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	applyDefaults(&cfg)

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func applyEnv(cfg *ProjectConfig) error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if overrides.StoreDSN != "" {
		cfg.Store.DSN = overrides.StoreDSN
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	return nil
}

func applyDefaults(cfg *ProjectConfig) {
	if strings.TrimSpace(cfg.Store.DSN) == "" {
		cfg.Store.DSN = DefaultStoreDSN
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if !hasKnownScheme(cfg.Store.DSN) {
		return fmt.Errorf("unsupported store dsn %q, expected one of %s", cfg.Store.DSN, strings.Join(storeSchemes, ", "))
	}
	if len(cfg.Scripts.Paths) == 0 {
		return fmt.Errorf("at least one script path is required")
	}
	for i, path := range cfg.Scripts.Paths {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("script path %d is empty", i)
		}
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	if err := validateTables(&cfg.Tables); err != nil {
		return err
	}
	return nil
}

func hasKnownScheme(dsn string) bool {
	for _, scheme := range storeSchemes {
		if strings.HasPrefix(dsn, scheme) {
			return true
		}
	}
	return false
}

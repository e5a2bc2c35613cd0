package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const (
	// EnvPrefix marks environment overrides: SUMMARIZER_DATABASE__DSN -> database.dsn
	EnvPrefix = "SUMMARIZER_"

	configFileEnv     = "SUMMARIZER_CONFIG"
	defaultConfigFile = "config.yaml"
)

var validate = validator.New()

// Load builds a Config from three layers, highest precedence last:
//
//  1. optional .env file
//  2. optional YAML file (SUMMARIZER_CONFIG, default config.yaml)
//  3. SUMMARIZER_-prefixed environment variables, "__" nesting
//
// Values not present in any layer keep their Default().
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv(configFileEnv)
	if path == "" {
		path = defaultConfigFile
	}
	return LoadFrom(path)
}

// LoadFrom is Load without the .env step, reading YAML from path if it exists
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		zap.S().Debugw("config yaml loaded", "file", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	zap.S().Infow("config loaded",
		"environment", cfg.Environment,
		"listen_addr", cfg.HTTP.ListenAddr,
		"database_driver", cfg.Database.Driver,
		"summarizer", cfg.Summarizer.Provider,
	)
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

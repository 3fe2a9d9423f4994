package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string // explicit config file, bypasses .caret discovery
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewFileLoader creates a loader that reads an explicit config file instead
// of discovering .caret/config.yml under a root directory. A missing file is
// an error here, unlike the discovery path.
func NewFileLoader(configFile string) Loader {
	return &loader{
		configFile: configFile,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (CARET_*)
// 2. Config file (.caret/config.yml or .caret/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		configDir := filepath.Join(l.rootDir, ".caret")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("CARET")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., CARET_PROVIDER_NAME)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Provider configuration
	v.BindEnv("provider.name")
	v.BindEnv("provider.api_key")
	v.BindEnv("provider.model")
	v.BindEnv("provider.base_url")
	v.BindEnv("provider.temperature")
	v.BindEnv("provider.timeout_seconds")

	// Suggestion configuration
	v.BindEnv("suggest.context_window")
	v.BindEnv("suggest.max_tokens")

	// Storage configuration
	v.BindEnv("storage.db_path")
	v.BindEnv("storage.cache_size")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	// Provider defaults
	v.SetDefault("provider.name", defaults.Provider.Name)
	v.SetDefault("provider.api_key", defaults.Provider.APIKey)
	v.SetDefault("provider.model", defaults.Provider.Model)
	v.SetDefault("provider.base_url", defaults.Provider.BaseURL)
	v.SetDefault("provider.temperature", defaults.Provider.Temperature)
	v.SetDefault("provider.timeout_seconds", defaults.Provider.TimeoutSeconds)

	// Suggestion defaults
	v.SetDefault("suggest.context_window", defaults.Suggest.ContextWindow)
	v.SetDefault("suggest.max_tokens", defaults.Suggest.MaxTokens)

	// Paths defaults
	v.SetDefault("paths.code", defaults.Paths.Code)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	// Storage defaults
	v.SetDefault("storage.db_path", defaults.Storage.DBPath)
	v.SetDefault("storage.cache_size", defaults.Storage.CacheSize)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}

// LoadConfigFromFile loads configuration from an explicit config file.
func LoadConfigFromFile(configFile string) (*Config, error) {
	return NewFileLoader(configFile).Load()
}

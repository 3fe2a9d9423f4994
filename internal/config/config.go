package config

// Config represents the complete caret configuration.
// It can be loaded from .caret/config.yml with environment variable overrides.
type Config struct {
	Provider ProviderConfig `yaml:"provider" mapstructure:"provider"`
	Suggest  SuggestConfig  `yaml:"suggest" mapstructure:"suggest"`
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Storage  StorageConfig  `yaml:"storage" mapstructure:"storage"`
}

// ProviderConfig selects and parameterizes the completion provider.
type ProviderConfig struct {
	Name           string  `yaml:"name" mapstructure:"name"`                       // "mock", "openai", "anthropic" or "deepseek"
	APIKey         string  `yaml:"api_key" mapstructure:"api_key"`                 // per-provider env vars also work
	Model          string  `yaml:"model" mapstructure:"model"`                     // empty means the provider's default
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`               // override the provider endpoint
	Temperature    float64 `yaml:"temperature" mapstructure:"temperature"`         // sampling temperature
	TimeoutSeconds int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds"` // per-request timeout
}

// SuggestConfig bounds one suggestion request.
type SuggestConfig struct {
	ContextWindow int `yaml:"context_window" mapstructure:"context_window"` // prompt character budget
	MaxTokens     int `yaml:"max_tokens" mapstructure:"max_tokens"`         // completion token ceiling
}

// PathsConfig defines which files to scan and which to ignore.
type PathsConfig struct {
	Code   []string `yaml:"code" mapstructure:"code"`     // glob patterns for source files
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to ignore
}

// StorageConfig defines where scan results are kept.
type StorageConfig struct {
	DBPath    string `yaml:"db_path" mapstructure:"db_path"`       // SQLite inventory path
	CacheSize int    `yaml:"cache_size" mapstructure:"cache_size"` // in-memory analysis cache entries
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:           "mock",
			Temperature:    0.3,
			TimeoutSeconds: 10,
		},
		Suggest: SuggestConfig{
			ContextWindow: 8096,
			MaxTokens:     150,
		},
		Paths: PathsConfig{
			Code: []string{
				"**/*.py",
			},
			Ignore: []string{
				".git/**",
				"__pycache__/**",
				".venv/**",
				"venv/**",
				"node_modules/**",
				"dist/**",
				"build/**",
				"*.pyc",
			},
		},
		Storage: StorageConfig{
			DBPath:    ".caret/index.db",
			CacheSize: 1024,
		},
	}
}

package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidProvider indicates an unsupported completion provider
	ErrInvalidProvider = errors.New("invalid completion provider")

	// ErrInvalidTemperature indicates an out-of-range sampling temperature
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidTimeout indicates an invalid provider timeout
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidContextWindow indicates an invalid prompt character budget
	ErrInvalidContextWindow = errors.New("invalid context window")

	// ErrInvalidMaxTokens indicates an invalid completion token ceiling
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrEmptyDBPath indicates a missing inventory database path
	ErrEmptyDBPath = errors.New("empty db path")

	// ErrInvalidCacheSize indicates an invalid analysis cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateProvider(&cfg.Provider); err != nil {
		errs = append(errs, err)
	}

	if err := validateSuggest(&cfg.Suggest); err != nil {
		errs = append(errs, err)
	}

	if err := validateStorage(&cfg.Storage); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateProvider(cfg *ProviderConfig) error {
	var errs []error

	validNames := map[string]bool{
		"mock":      true,
		"openai":    true,
		"anthropic": true,
		"deepseek":  true,
	}

	name := strings.ToLower(cfg.Name)
	if !validNames[name] {
		errs = append(errs, fmt.Errorf("%w: must be one of mock, openai, anthropic, deepseek, got '%s'", ErrInvalidProvider, cfg.Name))
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		errs = append(errs, fmt.Errorf("%w: temperature must be in [0, 2], got %g", ErrInvalidTemperature, cfg.Temperature))
	}

	if cfg.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("%w: timeout_seconds cannot be negative, got %d", ErrInvalidTimeout, cfg.TimeoutSeconds))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateSuggest(cfg *SuggestConfig) error {
	var errs []error

	if cfg.ContextWindow <= 0 {
		errs = append(errs, fmt.Errorf("%w: context_window must be positive, got %d", ErrInvalidContextWindow, cfg.ContextWindow))
	}

	if cfg.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_tokens must be positive, got %d", ErrInvalidMaxTokens, cfg.MaxTokens))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateStorage(cfg *StorageConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.DBPath) == "" {
		errs = append(errs, fmt.Errorf("%w: db_path is required", ErrEmptyDBPath))
	}

	if cfg.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache_size must be positive, got %d", ErrInvalidCacheSize, cfg.CacheSize))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

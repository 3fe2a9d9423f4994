package provider

import "time"

// Default models and endpoints for the remote adapters.
const (
	DefaultOpenAIModel     = "gpt-3.5-turbo"
	DefaultAnthropicModel  = "claude-3-haiku-20240307"
	DefaultDeepSeekModel   = "deepseek-coder"
	DefaultDeepSeekBaseURL = "https://api.deepseek.com"
)

const (
	// DefaultTemperature keeps completions close to deterministic.
	DefaultTemperature = 0.3
	// DefaultTimeout bounds a single remote completion request.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxTokens caps the model output for one completion.
	DefaultMaxTokens = 150
)

// Config selects and parameterizes a provider adapter. Zero values fall
// back to the defaults above; Model and BaseURL default per provider.
type Config struct {
	Name        string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
}

func (c Config) temperature() float64 {
	if c.Temperature > 0 {
		return c.Temperature
	}
	return DefaultTemperature
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

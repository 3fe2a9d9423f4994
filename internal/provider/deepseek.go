package provider

import "fmt"

// NewDeepSeek creates an adapter for the DeepSeek API, which speaks the
// OpenAI chat-completion protocol on its own endpoint.
func NewDeepSeek(cfg Config) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("deepseek: API key is required (set --api-key or DEEPSEEK_API_KEY)")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultDeepSeekModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultDeepSeekBaseURL
	}
	return newOpenAICompatible(NameDeepSeek, cfg), nil
}

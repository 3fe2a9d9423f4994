// Package provider defines the completion-provider boundary and its
// adapters. Each adapter maps an assembled prompt to suggested continuation
// text; failures surface as classified *Error values so callers can react
// by kind rather than by string matching.
package provider

import (
	"context"
	"fmt"
	"strings"
)

// Provider generates completion text for an assembled prompt. maxTokens
// caps the model output, not the prompt. Implementations enforce their own
// request timeout and return *Error on failure.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Provider names accepted by New.
const (
	NameMock      = "mock"
	NameOpenAI    = "openai"
	NameAnthropic = "anthropic"
	NameDeepSeek  = "deepseek"
)

// New selects an adapter by cfg.Name. An empty name means mock.
func New(cfg Config) (Provider, error) {
	switch cfg.Name {
	case "", NameMock:
		return NewMock(), nil
	case NameOpenAI:
		return NewOpenAI(cfg)
	case NameAnthropic:
		return NewAnthropic(cfg)
	case NameDeepSeek:
		return NewDeepSeek(cfg)
	default:
		return nil, fmt.Errorf("unsupported completion provider: %q (supported: mock, openai, anthropic, deepseek)", cfg.Name)
	}
}

// completionPreamble wraps the assembled prompt before it is sent to a
// remote model, asking for a minimal continuation instead of a rewrite.
const completionPreamble = "You are a Python code completion assistant. Based on the code context below, provide ONLY the code that should complete the current line or add the next logical code.\n\nDo not include explanations, comments, or full rewrites. Just provide the minimal completion.\n\nCode context:\n%s\n\nCompletion:"

// fallbackCompletion stands in when a model returns empty text.
const fallbackCompletion = "\n    # TODO: Implement this"

// cleanCompletion strips markdown code fences and surrounding whitespace
// from model output, substituting fallbackCompletion for empty results.
func cleanCompletion(text string) string {
	text = strings.ReplaceAll(text, "```python", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)
	if text == "" {
		return fallbackCompletion
	}
	return text
}

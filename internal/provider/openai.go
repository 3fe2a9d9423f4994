package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// stopSequences ends OpenAI-compatible completions at blank lines or code
// fences.
var stopSequences = []string{"\n\n", "```"}

// OpenAI adapts OpenAI-compatible chat-completion APIs. DeepSeek reuses it
// with a different base URL and model.
type OpenAI struct {
	client      *openai.Client
	name        string
	model       string
	temperature float64
	timeout     time.Duration
}

// NewOpenAI creates an adapter for the OpenAI API.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required (set --api-key or OPENAI_API_KEY)")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	return newOpenAICompatible(NameOpenAI, cfg), nil
}

func newOpenAICompatible(name string, cfg Config) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)

	return &OpenAI{
		client:      &client,
		name:        name,
		model:       cfg.Model,
		temperature: cfg.temperature(),
		timeout:     cfg.timeout(),
	}
}

func (p *OpenAI) Name() string {
	return p.name
}

// Generate performs a single chat-completion request.
func (p *OpenAI) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(fmt.Sprintf(completionPreamble, prompt)),
		},
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(p.temperature),
		Stop: openai.ChatCompletionNewParamsStopUnion{
			OfStringArray: stopSequences,
		},
	})
	if err != nil {
		return "", p.wrapErr(err)
	}

	if len(completion.Choices) == 0 {
		return fallbackCompletion, nil
	}
	return cleanCompletion(completion.Choices[0].Message.Content), nil
}

func (p *OpenAI) wrapErr(err error) *Error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		if kind, ok := classifyStatus(apierr.StatusCode); ok {
			return &Error{Provider: p.name, Kind: kind, Err: err}
		}
	}
	return &Error{Provider: p.name, Kind: classifyTransport(err), Err: err}
}

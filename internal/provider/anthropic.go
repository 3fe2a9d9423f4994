package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic adapts the Anthropic Messages API.
type Anthropic struct {
	client      *anthropic.Client
	model       string
	temperature float64
	timeout     time.Duration
}

// NewAnthropic creates an adapter for the Anthropic API.
func NewAnthropic(cfg Config) (*Anthropic, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required (set --api-key or ANTHROPIC_API_KEY)")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultAnthropicModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := anthropic.NewClient(opts...)

	return &Anthropic{
		client:      &client,
		model:       cfg.Model,
		temperature: cfg.temperature(),
		timeout:     cfg.timeout(),
	}, nil
}

func (p *Anthropic) Name() string {
	return NameAnthropic
}

// Generate performs a single messages request and concatenates the text
// blocks of the response.
func (p *Anthropic) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(p.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(completionPreamble, prompt))),
		},
	})
	if err != nil {
		return "", p.wrapErr(err)
	}

	var text string
	for _, block := range msg.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			text += b.Text
		}
	}
	return cleanCompletion(text), nil
}

func (p *Anthropic) wrapErr(err error) *Error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		if kind, ok := classifyStatus(apierr.StatusCode); ok {
			return &Error{Provider: NameAnthropic, Kind: kind, Err: err}
		}
	}
	return &Error{Provider: NameAnthropic, Kind: classifyTransport(err), Err: err}
}

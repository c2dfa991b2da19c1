package ai

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/newsroom-agent/pkg/logger"
	"github.com/newsroom-agent/pkg/ratelimit"
)

// AnthropicConfig holds settings for the Anthropic gateway
type AnthropicConfig struct {
	APIKey string
	Routes Routes
}

// AnthropicClient applies the same fallback-ladder contract as the Gemini
// gateway over Claude model identifiers via the official SDK.
type AnthropicClient struct {
	client      anthropic.Client
	routes      Routes
	rateLimiter *ratelimit.MultiLimiter
	log         *logger.Logger
}

// NewAnthropicClient creates a new Anthropic gateway client
func NewAnthropicClient(cfg AnthropicConfig, limiter *ratelimit.MultiLimiter, log *logger.Logger) *AnthropicClient {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
	)

	routes := cfg.Routes
	if routes == nil {
		routes = DefaultAnthropicRoutes()
	}

	return &AnthropicClient{
		client:      client,
		routes:      routes,
		rateLimiter: limiter,
		log:         log.WithComponent("anthropic"),
	}
}

// Generate iterates the purpose's model ladder and returns the text of the
// first successful response
func (c *AnthropicClient) Generate(ctx context.Context, purpose Purpose, prompt string) (string, error) {
	route, ok := c.routes[purpose]
	if !ok {
		return "", fmt.Errorf("no route configured for purpose %q", purpose)
	}

	for _, model := range route.Models {
		if err := c.rateLimiter.Wait(ctx, ratelimit.LimiterAnthropic); err != nil {
			return "", fmt.Errorf("rate limit error: %w", err)
		}

		message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(model),
			MaxTokens:   int64(route.Profile.MaxTokens),
			Temperature: anthropic.Float(route.Profile.Temperature),
			Messages: []anthropic.MessageParam{
				{
					Role: anthropic.MessageParamRoleUser,
					Content: []anthropic.ContentBlockParamUnion{
						anthropic.NewTextBlock(prompt),
					},
				},
			},
		})
		if err != nil {
			c.log.Warn().
				Err(err).
				Str("model", model).
				Str("purpose", string(purpose)).
				Msg("Model attempt failed, trying next")
			continue
		}

		var text string
		for _, block := range message.Content {
			textBlock := block.AsText()
			if textBlock.Text != "" {
				text += textBlock.Text
			}
		}
		if text == "" {
			c.log.Warn().
				Str("model", model).
				Msg("Model returned an empty message, trying next")
			continue
		}

		c.log.Debug().
			Str("model", model).
			Str("purpose", string(purpose)).
			Int("input_tokens", int(message.Usage.InputTokens)).
			Int("output_tokens", int(message.Usage.OutputTokens)).
			Msg("Generation succeeded")
		return text, nil
	}

	return "", fmt.Errorf("purpose %s: %w", purpose, ErrModelsExhausted)
}

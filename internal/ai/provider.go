package ai

import (
	"github.com/newsroom-agent/internal/config"
	"github.com/newsroom-agent/pkg/logger"
	"github.com/newsroom-agent/pkg/ratelimit"
)

// NewFromConfig builds the configured gateway provider, or nil when no
// credential is present (generation disabled, storage reads unaffected).
func NewFromConfig(cfg config.AIConfig, limiter *ratelimit.MultiLimiter, log *logger.Logger) TextGenerator {
	if !cfg.Enabled() {
		return nil
	}

	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicClient(AnthropicConfig{
			APIKey: cfg.AnthropicAPIKey,
			Routes: DefaultAnthropicRoutes().WithModels(cfg.Models),
		}, limiter, log)
	default:
		return NewGeminiClient(GeminiConfig{
			APIKey:   cfg.GoogleAPIKey,
			Endpoint: cfg.Endpoint,
			Routes:   DefaultGeminiRoutes().WithModels(cfg.Models),
		}, limiter, log)
	}
}

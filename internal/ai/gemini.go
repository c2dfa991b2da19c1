package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/newsroom-agent/pkg/logger"
	"github.com/newsroom-agent/pkg/ratelimit"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1"

// GeminiConfig holds settings for the Gemini gateway
type GeminiConfig struct {
	APIKey   string
	Endpoint string // overridable for tests
	Routes   Routes
}

// GeminiClient invokes the Gemini REST API with a per-purpose model
// fallback ladder. Each model gets one attempt; a non-2xx response advances
// the ladder rather than retrying.
type GeminiClient struct {
	apiKey      string
	endpoint    string
	routes      Routes
	httpClient  *http.Client
	rateLimiter *ratelimit.MultiLimiter
	log         *logger.Logger
}

// NewGeminiClient creates a new Gemini gateway client
func NewGeminiClient(cfg GeminiConfig, limiter *ratelimit.MultiLimiter, log *logger.Logger) *GeminiClient {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultGeminiEndpoint
	}
	routes := cfg.Routes
	if routes == nil {
		routes = DefaultGeminiRoutes()
	}

	return &GeminiClient{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		routes:   routes,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		rateLimiter: limiter,
		log:         log.WithComponent("gemini"),
	}
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate iterates the purpose's model ladder and returns the raw text of
// the first successful response. Every model failing yields
// ErrModelsExhausted.
func (c *GeminiClient) Generate(ctx context.Context, purpose Purpose, prompt string) (string, error) {
	route, ok := c.routes[purpose]
	if !ok {
		return "", fmt.Errorf("no route configured for purpose %q", purpose)
	}

	for _, model := range route.Models {
		if err := c.rateLimiter.Wait(ctx, ratelimit.LimiterGemini); err != nil {
			return "", fmt.Errorf("rate limit error: %w", err)
		}

		text, err := c.attempt(ctx, model, route.Profile, prompt)
		if err != nil {
			// Quota and rate errors are model-specific, so advance the
			// ladder instead of retrying the same identifier.
			c.log.Warn().
				Err(err).
				Str("model", model).
				Str("purpose", string(purpose)).
				Msg("Model attempt failed, trying next")
			continue
		}

		c.log.Debug().
			Str("model", model).
			Str("purpose", string(purpose)).
			Int("response_length", len(text)).
			Msg("Generation succeeded")
		return text, nil
	}

	return "", fmt.Errorf("purpose %s: %w", purpose, ErrModelsExhausted)
}

// attempt issues a single generateContent request against one model
func (c *GeminiClient) attempt(ctx context.Context, model string, profile Profile, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     profile.Temperature,
			MaxOutputTokens: profile.MaxTokens,
		},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.endpoint, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("model %s returned %s: %s", model, resp.Status, string(body))
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var text string
	if len(parsed.Candidates) > 0 {
		for _, part := range parsed.Candidates[0].Content.Parts {
			text += part.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("model %s returned an empty candidate", model)
	}
	return text, nil
}

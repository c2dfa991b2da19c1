package ai

import (
	"context"
	"errors"
	"fmt"
)

// ErrModelsExhausted is returned when every model in a fallback ladder
// failed. Callers surface this as a retry-later condition, not a defect.
var ErrModelsExhausted = errors.New("all generation models exhausted")

// ParseError indicates the gateway returned text at the transport level
// but its content could not be used. Stage attributes the failure to
// extraction or strict parsing for diagnostics.
type ParseError struct {
	Stage string // "extract" or "unmarshal"
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failure at %s stage: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Purpose identifies the call site requesting generation. Each purpose maps
// to its own model ladder and generation profile.
type Purpose string

const (
	PurposeSearch    Purpose = "search"
	PurposeFrontPage Purpose = "frontpage"
	PurposeTrending  Purpose = "trending"
	PurposeFactCheck Purpose = "factcheck"
)

// Profile holds the generation parameters for one purpose
type Profile struct {
	Temperature float64
	MaxTokens   int
}

// Route is an ordered model ladder plus the profile applied to each attempt
type Route struct {
	Models  []string
	Profile Profile
}

// Routes maps call purposes to their ladders
type Routes map[Purpose]Route

// TextGenerator produces raw model output for a prompt. Implementations
// iterate their ladder and return the first success.
type TextGenerator interface {
	Generate(ctx context.Context, purpose Purpose, prompt string) (string, error)
}

// DefaultGeminiRoutes returns the standard ladders for the Gemini provider.
// Quality-sensitive purposes try the most capable model first; fact-check
// is latency-sensitive and starts from the cheapest.
func DefaultGeminiRoutes() Routes {
	generation := []string{
		"gemini-2.5-flash",
		"gemini-2.0-flash",
		"gemini-2.5-flash-lite",
		"gemini-2.0-flash-lite",
	}
	verification := []string{
		"gemini-2.0-flash-lite",
		"gemini-2.5-flash-lite",
		"gemini-2.0-flash",
		"gemini-2.5-flash",
	}
	return Routes{
		PurposeSearch:    {Models: generation, Profile: Profile{Temperature: 0.7, MaxTokens: 4096}},
		PurposeFrontPage: {Models: generation, Profile: Profile{Temperature: 0.7, MaxTokens: 16384}},
		PurposeTrending:  {Models: generation, Profile: Profile{Temperature: 0.7, MaxTokens: 16384}},
		PurposeFactCheck: {Models: verification, Profile: Profile{Temperature: 0.3, MaxTokens: 8192}},
	}
}

// DefaultAnthropicRoutes returns the standard ladders for the Anthropic provider
func DefaultAnthropicRoutes() Routes {
	generation := []string{
		"claude-sonnet-4-20250514",
		"claude-3-7-sonnet-20250219",
		"claude-3-5-haiku-20241022",
	}
	verification := []string{
		"claude-3-5-haiku-20241022",
		"claude-3-7-sonnet-20250219",
		"claude-sonnet-4-20250514",
	}
	return Routes{
		PurposeSearch:    {Models: generation, Profile: Profile{Temperature: 0.7, MaxTokens: 4096}},
		PurposeFrontPage: {Models: generation, Profile: Profile{Temperature: 0.7, MaxTokens: 16384}},
		PurposeTrending:  {Models: generation, Profile: Profile{Temperature: 0.7, MaxTokens: 16384}},
		PurposeFactCheck: {Models: verification, Profile: Profile{Temperature: 0.3, MaxTokens: 8192}},
	}
}

// WithModels replaces every ladder in the routes with the given ordered
// list, reversing it for latency-sensitive purposes. Used when the
// operator pins a custom ladder in configuration.
func (r Routes) WithModels(models []string) Routes {
	if len(models) == 0 {
		return r
	}
	reversed := make([]string, len(models))
	for i, m := range models {
		reversed[len(models)-1-i] = m
	}
	out := make(Routes, len(r))
	for purpose, route := range r {
		ladder := models
		if purpose == PurposeFactCheck {
			ladder = reversed
		}
		out[purpose] = Route{Models: ladder, Profile: route.Profile}
	}
	return out
}

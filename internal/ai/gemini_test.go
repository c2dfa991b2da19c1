package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsroom-agent/pkg/logger"
	"github.com/newsroom-agent/pkg/ratelimit"
)

func testLimiter() *ratelimit.MultiLimiter {
	m := ratelimit.NewMultiLimiter()
	m.AddLimiter(ratelimit.LimiterGemini, 1000, 100)
	return m
}

func testLog() *logger.Logger {
	return logger.New(logger.Config{Level: "disabled"})
}

// modelFromPath pulls the model identifier out of
// /models/<model>:generateContent
func modelFromPath(path string) string {
	trimmed := strings.TrimPrefix(path, "/models/")
	return strings.TrimSuffix(trimmed, ":generateContent")
}

func geminiSuccessBody(text string) string {
	body := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
	data, _ := json.Marshal(body)
	return string(data)
}

func TestGeminiGenerate_FallsThroughLadder(t *testing.T) {
	var attempts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		model := modelFromPath(r.URL.Path)
		attempts = append(attempts, model)

		// First two models are over quota; the third succeeds.
		if len(attempts) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error": {"message": "quota exceeded"}}`)
			return
		}
		fmt.Fprint(w, geminiSuccessBody("generated text"))
	}))
	defer srv.Close()

	client := NewGeminiClient(GeminiConfig{
		APIKey:   "test-key",
		Endpoint: srv.URL,
	}, testLimiter(), testLog())

	text, err := client.Generate(context.Background(), PurposeSearch, "prompt")

	require.NoError(t, err)
	assert.Equal(t, "generated text", text)
	require.Len(t, attempts, 3)
	assert.Equal(t, "gemini-2.5-flash", attempts[0])
	assert.Equal(t, "gemini-2.0-flash", attempts[1])
	assert.Equal(t, "gemini-2.5-flash-lite", attempts[2])
}

func TestGeminiGenerate_AllModelsFail(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewGeminiClient(GeminiConfig{
		APIKey:   "test-key",
		Endpoint: srv.URL,
	}, testLimiter(), testLog())

	_, err := client.Generate(context.Background(), PurposeFrontPage, "prompt")

	require.ErrorIs(t, err, ErrModelsExhausted)
	assert.Equal(t, 4, attempts)
}

func TestGeminiGenerate_FactCheckLadderStartsCheap(t *testing.T) {
	var first string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if first == "" {
			first = modelFromPath(r.URL.Path)
		}
		fmt.Fprint(w, geminiSuccessBody("ok"))
	}))
	defer srv.Close()

	client := NewGeminiClient(GeminiConfig{
		APIKey:   "test-key",
		Endpoint: srv.URL,
	}, testLimiter(), testLog())

	_, err := client.Generate(context.Background(), PurposeFactCheck, "prompt")

	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash-lite", first)
}

func TestGeminiGenerate_AppliesProfile(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, geminiSuccessBody("ok"))
	}))
	defer srv.Close()

	client := NewGeminiClient(GeminiConfig{
		APIKey:   "test-key",
		Endpoint: srv.URL,
	}, testLimiter(), testLog())

	_, err := client.Generate(context.Background(), PurposeFactCheck, "check this")

	require.NoError(t, err)
	assert.Equal(t, 0.3, got.GenerationConfig.Temperature)
	assert.Equal(t, 8192, got.GenerationConfig.MaxOutputTokens)
	require.Len(t, got.Contents, 1)
	require.Len(t, got.Contents[0].Parts, 1)
	assert.Equal(t, "check this", got.Contents[0].Parts[0].Text)
}

func TestGeminiGenerate_EmptyCandidateAdvancesLadder(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			fmt.Fprint(w, `{"candidates": []}`)
			return
		}
		fmt.Fprint(w, geminiSuccessBody("second try"))
	}))
	defer srv.Close()

	client := NewGeminiClient(GeminiConfig{
		APIKey:   "test-key",
		Endpoint: srv.URL,
	}, testLimiter(), testLog())

	text, err := client.Generate(context.Background(), PurposeTrending, "prompt")

	require.NoError(t, err)
	assert.Equal(t, "second try", text)
	assert.Equal(t, 2, attempts)
}

func TestRoutesWithModels_OverridesAndReverses(t *testing.T) {
	override := []string{"model-a", "model-b", "model-c"}

	routes := DefaultGeminiRoutes().WithModels(override)

	assert.Equal(t, override, routes[PurposeSearch].Models)
	assert.Equal(t, []string{"model-c", "model-b", "model-a"}, routes[PurposeFactCheck].Models)
	// Profiles are untouched by a ladder override.
	assert.Equal(t, 0.7, routes[PurposeSearch].Profile.Temperature)
	assert.Equal(t, 0.3, routes[PurposeFactCheck].Profile.Temperature)
}

func TestRoutesWithModels_EmptyKeepsDefaults(t *testing.T) {
	routes := DefaultGeminiRoutes().WithModels(nil)

	assert.Equal(t, "gemini-2.5-flash", routes[PurposeSearch].Models[0])
}

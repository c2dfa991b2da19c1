package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_FencedBlock(t *testing.T) {
	raw := "Here are the results:\n```json\n{\"title\": \"Test\"}\n```\nLet me know if you need more."

	payload, err := ExtractJSON(raw)

	require.NoError(t, err)
	assert.Equal(t, `{"title": "Test"}`, payload)
}

func TestExtractJSON_FencedBlockWithoutLanguageTag(t *testing.T) {
	raw := "```\n[{\"title\": \"A\"}]\n```"

	payload, err := ExtractJSON(raw)

	require.NoError(t, err)
	assert.Equal(t, `[{"title": "A"}]`, payload)
}

func TestExtractJSON_ProseWrappedObject(t *testing.T) {
	raw := `Sure! {"verdict": "TRUE", "score": 90} Hope that helps.`

	payload, err := ExtractJSON(raw)

	require.NoError(t, err)
	assert.Equal(t, `{"verdict": "TRUE", "score": 90}`, payload)
}

func TestExtractJSON_BareArray(t *testing.T) {
	raw := `[{"title": "One"}, {"title": "Two"}]`

	payload, err := ExtractJSON(raw)

	require.NoError(t, err)
	assert.Equal(t, raw, payload)
}

func TestExtractJSON_ArrayBeforeObject(t *testing.T) {
	// When the array opens first the array span wins, keeping nested
	// objects inside it intact.
	raw := `noise [{"a": 1}, {"b": 2}] trailing`

	payload, err := ExtractJSON(raw)

	require.NoError(t, err)
	assert.Equal(t, `[{"a": 1}, {"b": 2}]`, payload)
}

func TestExtractJSON_EmptyResponse(t *testing.T) {
	_, err := ExtractJSON("   \n  ")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "extract", parseErr.Stage)
}

func TestExtractJSON_NoJSONPresent(t *testing.T) {
	_, err := ExtractJSON("I could not produce any structured output, sorry.")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "extract", parseErr.Stage)
	assert.Contains(t, parseErr.Raw, "could not produce")
}

func TestDecodeJSON_Success(t *testing.T) {
	raw := "```json\n[{\"title\": \"Budget session\", \"trendScore\": 80}]\n```"

	var out []struct {
		Title      string `json:"title"`
		TrendScore int    `json:"trendScore"`
	}
	err := DecodeJSON(raw, &out)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Budget session", out[0].Title)
	assert.Equal(t, 80, out[0].TrendScore)
}

func TestDecodeJSON_MalformedPayload(t *testing.T) {
	raw := "```json\n{\"title\": \"unterminated\n```"

	var out map[string]string
	err := DecodeJSON(raw, &out)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "unmarshal", parseErr.Stage)
	assert.Equal(t, raw, parseErr.Raw)
}

func TestParseError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &ParseError{Stage: "extract", Raw: "x", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "extract")
}

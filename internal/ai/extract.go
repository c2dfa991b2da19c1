package ai

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON locates the JSON payload inside raw model output. Models wrap
// payloads in fenced code blocks or surround them with prose; this handles
// both, preferring a fenced block, then the widest bracket-delimited span.
func ExtractJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", &ParseError{Stage: "extract", Raw: raw, Err: errors.New("empty response")}
	}

	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	} else if span := bracketSpan(text); span != "" {
		text = span
	}

	if !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "[") {
		return "", &ParseError{Stage: "extract", Raw: raw, Err: errors.New("no JSON object or array found")}
	}
	return text, nil
}

// bracketSpan returns the widest substring delimited by matching [ ] or { },
// whichever opens first.
func bracketSpan(text string) string {
	objStart := strings.Index(text, "{")
	arrStart := strings.Index(text, "[")

	start, closer := objStart, "}"
	if objStart == -1 || (arrStart != -1 && arrStart < objStart) {
		start, closer = arrStart, "]"
	}
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(text, closer)
	if end <= start {
		return ""
	}
	return text[start : end+1]
}

// DecodeJSON extracts and strictly unmarshals the JSON payload from raw
// model output into v. Failures at either stage are *ParseError values
// carrying the offending text for operator diagnosis.
func DecodeJSON(raw string, v interface{}) error {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return &ParseError{Stage: "unmarshal", Raw: raw, Err: err}
	}
	return nil
}

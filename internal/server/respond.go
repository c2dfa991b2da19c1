package server

import (
	"encoding/json"
	"net/http"

	"github.com/newsroom-agent/pkg/logger"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, log *logger.Logger, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing to do but log
		log.Error().Err(err).Int("status", code).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error body with the given status code
func writeError(w http.ResponseWriter, log *logger.Logger, code int, message string) {
	writeJSON(w, log, code, map[string]string{"error": message})
}

package server

import (
	"errors"
	"net/http"

	"github.com/newsroom-agent/internal/agent/trending"
)

func (s *Server) handleListTrending(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// refresh=true forces a fetch first; a refresh failure still serves
	// whatever is stored.
	if q.Get("refresh") == "true" {
		if _, err := s.trending.Refresh(r.Context()); err != nil && !errors.Is(err, trending.ErrNotConfigured) {
			s.log.Warn().Err(err).Msg("Trending refresh failed, serving stored topics")
		}
	}

	listing, err := s.trending.List(r.Context(), q.Get("category"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, s.log, http.StatusOK, listing)
}

func (s *Server) handleRefreshTrending(w http.ResponseWriter, r *http.Request) {
	result, err := s.trending.Refresh(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	listing, err := s.trending.List(r.Context(), "")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, s.log, http.StatusOK, map[string]any{
		"success": true,
		"message": "Trending topics refreshed",
		"added":   result.Added,
		"purged":  result.Purged,
		"topics":  listing.Topics,
	})
}

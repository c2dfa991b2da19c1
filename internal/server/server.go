// Package server exposes the content API over HTTP: article CRUD, search,
// front-page generation, trending topics, and fact-checks. Handlers stay
// thin; orchestration lives in the agents.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/newsroom-agent/internal/agent/factcheck"
	"github.com/newsroom-agent/internal/agent/generator"
	"github.com/newsroom-agent/internal/agent/trending"
	"github.com/newsroom-agent/internal/ai"
	"github.com/newsroom-agent/internal/storage"
	"github.com/newsroom-agent/pkg/logger"
)

// Server routes API requests to the agents
type Server struct {
	repo      storage.Repository
	generator *generator.Agent
	trending  *trending.Agent
	factcheck *factcheck.Agent
	log       *logger.Logger
	mux       *http.ServeMux
}

// New creates a new API server
func New(
	repo storage.Repository,
	generatorAgent *generator.Agent,
	trendingAgent *trending.Agent,
	factcheckAgent *factcheck.Agent,
	log *logger.Logger,
) *Server {
	s := &Server{
		repo:      repo,
		generator: generatorAgent,
		trending:  trendingAgent,
		factcheck: factcheckAgent,
		log:       log.WithComponent("server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /articles", s.handleListArticles)
	mux.HandleFunc("POST /articles", s.handleCreateArticle)
	mux.HandleFunc("DELETE /articles", s.handleDeleteArticle)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /auto-generate", s.handleGenerateStatus)
	mux.HandleFunc("POST /auto-generate", s.handleAutoGenerate)
	mux.HandleFunc("GET /trending", s.handleListTrending)
	mux.HandleFunc("POST /trending", s.handleRefreshTrending)
	mux.HandleFunc("POST /fact-check", s.handleFactCheck)
	s.mux = mux

	return s
}

// ServeHTTP implements http.Handler with request logging
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.mux.ServeHTTP(w, r)
	s.log.Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Dur("duration", time.Since(start)).
		Msg("Request handled")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.log, http.StatusOK, map[string]string{"status": "ok"})
}

// respondError maps agent errors onto the HTTP error taxonomy
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var parseErr *ai.ParseError

	switch {
	case errors.Is(err, generator.ErrQueryTooShort):
		writeError(w, s.log, http.StatusBadRequest, "Search query must be at least 2 characters")
	case errors.Is(err, factcheck.ErrArticleNotFound), errors.Is(err, storage.ErrNotFound):
		writeError(w, s.log, http.StatusNotFound, "Article not found")
	case errors.Is(err, ai.ErrModelsExhausted):
		// Transient capacity condition, not a defect: tell the caller to
		// wait and retry.
		writeError(w, s.log, http.StatusTooManyRequests, "AI quota exceeded. Please wait a minute and try again.")
	case errors.Is(err, generator.ErrNotConfigured),
		errors.Is(err, trending.ErrNotConfigured),
		errors.Is(err, factcheck.ErrNotConfigured):
		writeError(w, s.log, http.StatusInternalServerError, "Generation API key not configured")
	case errors.As(err, &parseErr):
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("Unusable model output")
		writeError(w, s.log, http.StatusInternalServerError, "Failed to generate content")
	default:
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		writeError(w, s.log, http.StatusInternalServerError, "Internal server error")
	}
}

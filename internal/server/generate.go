package server

import "net/http"

func (s *Server) handleAutoGenerate(w http.ResponseWriter, r *http.Request) {
	result, err := s.generator.RefillFrontPage(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, s.log, http.StatusOK, map[string]any{
		"success":   true,
		"message":   result.Message,
		"generated": result.Generated,
		"articles":  result.Articles,
	})
}

func (s *Server) handleGenerateStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.generator.CheckStatus(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, s.log, http.StatusOK, status)
}

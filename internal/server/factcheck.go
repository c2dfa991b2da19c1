package server

import (
	"encoding/json"
	"net/http"
)

type factCheckRequest struct {
	ArticleID uint `json:"articleId"`
}

func (s *Server) handleFactCheck(w http.ResponseWriter, r *http.Request) {
	var req factCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.ArticleID == 0 {
		writeError(w, s.log, http.StatusBadRequest, "Article ID is required")
		return
	}

	result, err := s.factcheck.Check(r.Context(), req.ArticleID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, s.log, http.StatusOK, map[string]any{
		"success":      true,
		"articleId":    result.ArticleID,
		"articleTitle": result.ArticleTitle,
		"factCheck":    result.FactCheck,
		"cached":       result.Cached,
	})
}

package server

import "net/http"

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	result, err := s.generator.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, s.log, http.StatusOK, result)
}

package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/newsroom-agent/internal/models"
	"github.com/newsroom-agent/internal/storage"
)

// articleListResponse is the paginated listing envelope
type articleListResponse struct {
	Articles   []*models.Article `json:"articles"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	filter := storage.DefaultArticleFilter()
	q := r.URL.Query()

	filter.Category = q.Get("category")
	filter.Query = strings.TrimSpace(q.Get("q"))
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		filter.Page = page
	}

	articles, total, err := s.repo.ListArticles(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if articles == nil {
		articles = []*models.Article{}
	}

	writeJSON(w, s.log, http.StatusOK, articleListResponse{
		Articles:   articles,
		Total:      total,
		Page:       filter.Page,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	})
}

// createArticleRequest is the manual submission body
type createArticleRequest struct {
	Title         string   `json:"title"`
	SummaryPoints []string `json:"summaryPoints"`
	FullContent   string   `json:"fullContent"`
	YoutubeURL    string   `json:"youtubeUrl"`
	ImageURL      string   `json:"imageUrl"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	AuthorID      *uint    `json:"authorId"`
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var req createArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Title) == "" || len(req.SummaryPoints) == 0 {
		writeError(w, s.log, http.StatusBadRequest, "Title and summary points are required")
		return
	}

	category := req.Category
	if category == "" {
		category = "Politics"
	}
	provenance := models.ProvenanceManual
	if req.YoutubeURL != "" {
		provenance = models.ProvenanceYouTube
	}

	article := &models.Article{
		Title:         req.Title,
		SummaryPoints: req.SummaryPoints,
		FullContent:   req.FullContent,
		YoutubeURL:    req.YoutubeURL,
		ImageURL:      req.ImageURL,
		Category:      category,
		Tags:          req.Tags,
		Source:        provenance,
		Published:     true,
		AuthorID:      req.AuthorID,
	}
	if err := s.repo.CreateArticle(r.Context(), article); err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, s.log, http.StatusOK, map[string]any{
		"success": true,
		"article": article,
	})
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("id")
	if rawID == "" {
		writeError(w, s.log, http.StatusBadRequest, "Article ID is required")
		return
	}
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		writeError(w, s.log, http.StatusBadRequest, "Article ID must be a number")
		return
	}

	if err := s.repo.DeleteArticle(r.Context(), uint(id)); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, s.log, http.StatusOK, map[string]bool{"success": true})
}

package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"muselift/internal/aggregator"
	"muselift/internal/eartraining"
	"muselift/internal/musicapi"
	"muselift/internal/recommend"
)

// handleRecommend ranks a caller-provided track list against a free-text
// prompt or a recognized mood.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Songs  []musicapi.Track `json:"songs"`
		Prompt string           `json:"prompt"`
		Mood   string           `json:"mood"`
		TopK   int              `json:"top_k"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" && strings.TrimSpace(req.Mood) != "" {
		prompt = recommend.PromptForMood(req.Mood)
	}
	if req.Songs == nil || prompt == "" {
		writeError(w, http.StatusBadRequest, "Songs and prompt are required")
		return
	}

	topK := req.TopK
	if topK <= 0 {
		topK = recommend.DefaultTopK
	}

	ranked := s.ranker.Rank(r.Context(), req.Songs, prompt, topK)
	writeJSON(w, http.StatusOK, newSongsResponse(ranked))
}

type categoriesResponse struct {
	Success      bool     `json:"success"`
	Genres       []string `json:"genres"`
	Languages    []string `json:"languages"`
	Moods        []string `json:"moods"`
	Difficulties []string `json:"difficulties"`
}

// handleCategories publishes the recognized identifier lists clients
// validate against.
func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, categoriesResponse{
		Success:   true,
		Genres:    aggregator.Genres,
		Languages: aggregator.Languages,
		Moods:     recommend.Moods(),
		Difficulties: []string{
			string(eartraining.Beginner),
			string(eartraining.Intermediate),
			string(eartraining.Advanced),
		},
	})
}

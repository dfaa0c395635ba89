package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"muselift/internal/recommend"
)

// defaultCategoryLimit bounds category feeds when the caller does not pass
// a limit.
const defaultCategoryLimit = 30

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// handleDiscover serves the mixed discovery feed.
func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r, "count", 0) // the aggregator applies its default

	songs := s.songs.Discover(r.Context(), count)
	writeJSON(w, http.StatusOK, newSongsResponse(songs))
}

// handleCategory serves a genre or language feed, optionally post-filtered
// by mood.
func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		writeError(w, http.StatusBadRequest, "Category is required")
		return
	}

	limit := queryInt(r, "limit", defaultCategoryLimit)
	songs := s.songs.Category(r.Context(), strings.ToLower(category), limit)

	mood := strings.TrimSpace(r.URL.Query().Get("mood"))
	if mood != "" {
		// Keep the whole feed; the mood ranker reorders rather than
		// cutting a caller-chosen limit down to ten.
		songs = s.ranker.Rank(r.Context(), songs, recommend.PromptForMood(mood), 0)
	}

	resp := newSongsResponse(songs)
	resp.Category = category
	resp.Mood = mood
	writeJSON(w, http.StatusOK, resp)
}

// handleSongs is the combined entry point: a genre feed, a language feed,
// or the discovery fallback when neither parameter is present.
func (s *Server) handleSongs(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r, "count", 0)

	genre := strings.TrimSpace(r.URL.Query().Get("genre"))
	language := strings.TrimSpace(r.URL.Query().Get("language"))

	switch {
	case genre != "":
		songs := s.songs.Category(r.Context(), strings.ToLower(genre), count)
		writeJSON(w, http.StatusOK, newSongsResponse(songs))
	case language != "":
		songs := s.songs.Category(r.Context(), strings.ToLower(language), count)
		writeJSON(w, http.StatusOK, newSongsResponse(songs))
	default:
		songs := s.songs.Discover(r.Context(), count)
		writeJSON(w, http.StatusOK, newSongsResponse(songs))
	}
}

// handleSearch serves the free-text catalog search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	limit := queryInt(r, "limit", 0)
	songs := s.songs.Search(r.Context(), query, limit)
	writeJSON(w, http.StatusOK, newSongsResponse(songs))
}

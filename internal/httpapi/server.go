// Package httpapi wires the JSON API handlers to the underlying services.
// Handlers validate request shape and translate service results into the
// uniform success/failure payloads; catalog failures never surface here
// because the adapter layer already absorbed them into empty feeds.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"muselift/internal/artists"
	"muselift/internal/musicapi"
	"muselift/internal/recommend"
)

// SongService captures the feed operations needed by the HTTP handlers.
type SongService interface {
	Discover(ctx context.Context, n int) []musicapi.Track
	Category(ctx context.Context, category string, limit int) []musicapi.Track
	Search(ctx context.Context, query string, limit int) []musicapi.Track
}

// ArtistService describes the legendary-artist catalog workflows.
type ArtistService interface {
	List(filter artists.Filter) []musicapi.Artist
	GetWithTracks(ctx context.Context, name string, limit int) (musicapi.Artist, []musicapi.Track, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	songs    SongService
	artists  ArtistService
	ranker   recommend.Strategy
	sessions *sessionStore
	log      zerolog.Logger
}

// New configures a Server with the given service implementations.
func New(songs SongService, artistSvc ArtistService, ranker recommend.Strategy, log zerolog.Logger) *Server {
	return &Server{
		songs:    songs,
		artists:  artistSvc,
		ranker:   ranker,
		sessions: newSessionStore(),
		log:      log.With().Str("component", "httpapi").Logger(),
	}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Song feeds
	api.HandleFunc("/songs", s.handleSongs).Methods("GET")
	api.HandleFunc("/songs/discover", s.handleDiscover).Methods("GET")
	api.HandleFunc("/songs/category", s.handleCategory).Methods("GET")
	api.HandleFunc("/songs/search", s.handleSearch).Methods("GET")

	// Artists
	api.HandleFunc("/artists", s.handleArtists).Methods("GET")

	// Recommendations
	api.HandleFunc("/recommend", s.handleRecommend).Methods("POST")

	// Published identifiers
	api.HandleFunc("/categories", s.handleCategories).Methods("GET")

	// Ear-training sessions
	api.HandleFunc("/ear-training/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/ear-training/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/ear-training/sessions/{id}", s.handleDeleteSession).Methods("DELETE")
	api.HandleFunc("/ear-training/sessions/{id}/guess", s.handleGuess).Methods("POST")
	api.HandleFunc("/ear-training/sessions/{id}/skip", s.handleSkip).Methods("POST")

	return r
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type songsResponse struct {
	Success   bool             `json:"success"`
	Category  string           `json:"category,omitempty"`
	Mood      string           `json:"mood,omitempty"`
	Count     int              `json:"count"`
	Songs     []musicapi.Track `json:"songs"`
	Timestamp string           `json:"timestamp"`
}

func newSongsResponse(songs []musicapi.Track) songsResponse {
	if songs == nil {
		// An empty feed is a valid, displayable result; emit [] not null.
		songs = []musicapi.Track{}
	}
	return songsResponse{
		Success:   true,
		Count:     len(songs),
		Songs:     songs,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"muselift/internal/artists"
	"muselift/internal/musicapi"
)

// topTracksPerArtist bounds the track list attached to a single-artist
// lookup.
const topTracksPerArtist = 10

type artistsResponse struct {
	Success   bool              `json:"success"`
	Category  string            `json:"category,omitempty"`
	Count     int               `json:"count"`
	Artists   []musicapi.Artist `json:"artists"`
	Timestamp string            `json:"timestamp"`
}

type artistDetailResponse struct {
	Success bool             `json:"success"`
	Artist  musicapi.Artist  `json:"artist"`
	Songs   []musicapi.Track `json:"songs"`
	Count   int              `json:"count"`
}

// handleArtists serves the legendary-artist catalog: the filtered list by
// default, or one artist joined with live top tracks when name is given.
func (s *Server) handleArtists(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name != "" {
		artist, songs, err := s.artists.GetWithTracks(r.Context(), name, topTracksPerArtist)
		if err != nil {
			if errors.Is(err, artists.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Artist not found")
				return
			}
			s.log.Error().Err(err).Str("name", name).Msg("artist lookup failed")
			writeError(w, http.StatusInternalServerError, "Failed to fetch artist")
			return
		}
		if songs == nil {
			songs = []musicapi.Track{}
		}
		writeJSON(w, http.StatusOK, artistDetailResponse{
			Success: true,
			Artist:  artist,
			Songs:   songs,
			Count:   len(songs),
		})
		return
	}

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	list := s.artists.List(artists.Filter{Category: category})
	if list == nil {
		list = []musicapi.Artist{}
	}
	writeJSON(w, http.StatusOK, artistsResponse{
		Success:   true,
		Category:  category,
		Count:     len(list),
		Artists:   list,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

package musicapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
)

const (
	musicbrainzBaseURL = "https://musicbrainz.org/ws/2/recording"

	// MusicBrainz etiquette requires an identifying User-Agent with
	// contact information.
	musicbrainzUserAgent = "MuseLift/1.0.0 (contact@muselift.app)"
)

// MusicBrainzClient adapts the MusicBrainz recording search. No credential
// is required.
type MusicBrainzClient struct {
	baseURL    string
	httpClient *http.Client
	tracks     *TrackCache
	log        zerolog.Logger
}

// NewMusicBrainzClient creates a MusicBrainz adapter sharing the given track
// cache.
func NewMusicBrainzClient(cfg Config, tracks *TrackCache, log zerolog.Logger) *MusicBrainzClient {
	return &MusicBrainzClient{
		baseURL:    musicbrainzBaseURL,
		httpClient: &http.Client{Timeout: cfg.timeout()},
		tracks:     tracks,
		log:        log.With().Str("adapter", "musicbrainz").Logger(),
	}
}

type mbResponse struct {
	Recordings []mbRecording `json:"recordings"`
}

type mbRecording struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ArtistCredit []struct {
		Name string `json:"name"`
	} `json:"artist-credit"`
	Tags []struct {
		Name string `json:"name"`
	} `json:"tags"`
}

// SearchRecordings returns up to limit recordings matching the free-text
// query.
func (c *MusicBrainzClient) SearchRecordings(ctx context.Context, query string, limit int) []Track {
	key := cacheKey("musicbrainz", query, limit)
	if cached, ok := c.tracks.Get(key); ok {
		return cached
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fmt", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("create recording request failed")
		return []Track{}
	}
	req.Header.Set("User-Agent", musicbrainzUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("recording request failed")
		return []Track{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.log.Warn().Str("query", query).
			Str("status", resp.Status).
			Str("body", truncate(string(body), 200)).
			Msg("recording search returned non-OK status")
		return []Track{}
	}

	var payload mbResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("decode recording response failed")
		return []Track{}
	}

	tracks := make([]Track, 0, len(payload.Recordings))
	for _, rec := range payload.Recordings {
		tracks = append(tracks, mapMusicBrainzRecording(rec))
	}
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}

	c.tracks.Set(key, tracks)
	return tracks
}

// mapMusicBrainzRecording converts one wire record, defaulting every
// optional field.
func mapMusicBrainzRecording(rec mbRecording) Track {
	artist := "Unknown Artist"
	if len(rec.ArtistCredit) > 0 && rec.ArtistCredit[0].Name != "" {
		artist = rec.ArtistCredit[0].Name
	}
	genre := "Various"
	if len(rec.Tags) > 0 && rec.Tags[0].Name != "" {
		genre = rec.Tags[0].Name
	}

	return Track{
		Title:  rec.Title,
		Artist: artist,
		Genre:  genre,
		MBID:   rec.ID,
		Source: SourceMusicBrainz,
	}
}

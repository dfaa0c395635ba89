package musicapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"muselift/internal/random"
)

const lastfmBaseURL = "https://ws.audioscrobbler.com/2.0/"

// LastFMClient adapts the Last.fm web API. Without an API key every call
// returns empty results, keeping the aggregate feed available.
type LastFMClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	tracks     *TrackCache
	log        zerolog.Logger
}

// NewLastFMClient creates a Last.fm adapter sharing the given track cache.
func NewLastFMClient(cfg Config, tracks *TrackCache, log zerolog.Logger) *LastFMClient {
	return &LastFMClient{
		apiKey:     cfg.LastFMAPIKey,
		baseURL:    lastfmBaseURL,
		httpClient: &http.Client{Timeout: cfg.timeout()},
		tracks:     tracks,
		log:        log.With().Str("adapter", "lastfm").Logger(),
	}
}

// Last.fm wire structures. Every field the mapper touches is optional
// upstream, so the zero value must produce a sane record.
type lfmEnvelope struct {
	Tracks        *lfmTrackPage `json:"tracks"`
	TopTracks     *lfmTrackPage `json:"toptracks"`
	SimilarTracks *lfmTrackPage `json:"similartracks"`
	Error         int           `json:"error"`
	Message       string        `json:"message"`
}

type lfmTrackPage struct {
	Track []lfmTrack `json:"track"`
}

type lfmTrack struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
	Image []lfmImage `json:"image"`
}

type lfmImage struct {
	Text string `json:"#text"`
	Size string `json:"size"`
}

// TopTracksByTag returns up to limit tracks for a genre tag. The upstream is
// asked for twice the bound and the surplus is shuffled away so repeated
// requests for a popular tag do not always surface the same head of the
// chart.
func (c *LastFMClient) TopTracksByTag(ctx context.Context, tag string, limit int) []Track {
	key := cacheKey("lastfm_tag", tag, limit)
	if cached, ok := c.tracks.Get(key); ok {
		return cached
	}

	params := url.Values{}
	params.Set("method", "tag.gettoptracks")
	params.Set("tag", tag)
	params.Set("limit", strconv.Itoa(limit*2))

	env, err := c.call(ctx, params)
	if err != nil {
		c.log.Warn().Err(err).Str("tag", tag).Msg("tag top tracks lookup failed")
		return []Track{}
	}

	var raw []lfmTrack
	if env.Tracks != nil {
		raw = env.Tracks.Track
	}
	tracks := make([]Track, 0, len(raw))
	for _, t := range raw {
		tracks = append(tracks, mapLastFMTrack(t, tag, "English"))
	}

	tracks = random.Sample(tracks, limit)
	c.tracks.Set(key, tracks)
	return tracks
}

// TopTracksByArtist returns up to limit of an artist's most played tracks.
func (c *LastFMClient) TopTracksByArtist(ctx context.Context, artist string, limit int) []Track {
	key := cacheKey("lastfm_artist", artist, limit)
	if cached, ok := c.tracks.Get(key); ok {
		return cached
	}

	params := url.Values{}
	params.Set("method", "artist.gettoptracks")
	params.Set("artist", artist)
	params.Set("limit", strconv.Itoa(limit))

	env, err := c.call(ctx, params)
	if err != nil {
		c.log.Warn().Err(err).Str("artist", artist).Msg("artist top tracks lookup failed")
		return []Track{}
	}

	var raw []lfmTrack
	if env.TopTracks != nil {
		raw = env.TopTracks.Track
	}
	tracks := make([]Track, 0, len(raw))
	for _, t := range raw {
		mapped := mapLastFMTrack(t, "Various", "")
		if mapped.Artist == "Unknown Artist" {
			// artist.gettoptracks omits the artist block on some
			// records; the query term is authoritative here.
			mapped.Artist = artist
		}
		tracks = append(tracks, mapped)
	}
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}

	c.tracks.Set(key, tracks)
	return tracks
}

// SimilarTracks returns tracks Last.fm considers similar to the given one.
// Similarity lookups are not cached: the (artist, track) key space is too
// wide to get useful hit rates.
func (c *LastFMClient) SimilarTracks(ctx context.Context, artist, track string, limit int) []Track {
	params := url.Values{}
	params.Set("method", "track.getsimilar")
	params.Set("artist", artist)
	params.Set("track", track)
	params.Set("limit", strconv.Itoa(limit))

	env, err := c.call(ctx, params)
	if err != nil {
		c.log.Warn().Err(err).Str("artist", artist).Str("track", track).Msg("similar tracks lookup failed")
		return []Track{}
	}

	var raw []lfmTrack
	if env.SimilarTracks != nil {
		raw = env.SimilarTracks.Track
	}
	tracks := make([]Track, 0, len(raw))
	for _, t := range raw {
		tracks = append(tracks, mapLastFMTrack(t, "Various", ""))
	}
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks
}

// call performs one Last.fm API request and decodes the shared envelope.
func (c *LastFMClient) call(ctx context.Context, params url.Values) (*lfmEnvelope, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("lastfm api key not configured")
	}

	params.Set("api_key", c.apiKey)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("lastfm api error: %s - %s", resp.Status, string(body))
	}

	var env lfmEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if env.Error != 0 {
		return nil, fmt.Errorf("lastfm api error %d: %s", env.Error, env.Message)
	}
	return &env, nil
}

// mapLastFMTrack converts one wire record, defaulting every optional field.
func mapLastFMTrack(t lfmTrack, genre, language string) Track {
	artist := t.Artist.Name
	if artist == "" {
		artist = "Unknown Artist"
	}

	// The image list is ordered small to large; the third entry is the
	// "large" rendition the original UI displayed.
	image := ""
	if len(t.Image) > 2 {
		image = t.Image[2].Text
	} else if len(t.Image) > 0 {
		image = t.Image[len(t.Image)-1].Text
	}

	return Track{
		Title:    t.Name,
		Artist:   artist,
		Genre:    genre,
		Language: language,
		URL:      t.URL,
		Image:    image,
		Source:   SourceLastFM,
	}
}

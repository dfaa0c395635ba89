package musicapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"muselift/internal/random"
)

const itunesBaseURL = "https://itunes.apple.com/search"

// indianSearchTerms maps a recognized language identifier to the curated
// iTunes search terms that actually surface that catalog. A language with
// several terms gets one search per term; the results are concatenated
// before trimming.
var indianSearchTerms = map[string][]string{
	"hindi":         {"bollywood hindi"},
	"malayalam":     {"malayalam music"},
	"tamil":         {"tamil music"},
	"telugu":        {"telugu music"},
	"carnatic":      {"carnatic classical"},
	"indian-fusion": {"indian fusion agam", "thaikkudam bridge"},
}

// ITunesClient adapts the iTunes Search API. No credential is required.
type ITunesClient struct {
	baseURL    string
	httpClient *http.Client
	tracks     *TrackCache
	log        zerolog.Logger
}

// NewITunesClient creates an iTunes adapter sharing the given track cache.
func NewITunesClient(cfg Config, tracks *TrackCache, log zerolog.Logger) *ITunesClient {
	return &ITunesClient{
		baseURL:    itunesBaseURL,
		httpClient: &http.Client{Timeout: cfg.timeout()},
		tracks:     tracks,
		log:        log.With().Str("adapter", "itunes").Logger(),
	}
}

type itunesResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []itunesResult `json:"results"`
}

type itunesResult struct {
	TrackName        string `json:"trackName"`
	ArtistName       string `json:"artistName"`
	CollectionName   string `json:"collectionName"`
	PrimaryGenreName string `json:"primaryGenreName"`
	TrackViewURL     string `json:"trackViewUrl"`
	PreviewURL       string `json:"previewUrl"`
	ArtworkURL100    string `json:"artworkUrl100"`
}

// SearchTracks returns up to limit songs matching the free-text term. The
// upstream is over-fetched and sampled, as with the Last.fm tag search.
func (c *ITunesClient) SearchTracks(ctx context.Context, term string, limit int) []Track {
	return c.search(ctx, term, limit, "English")
}

// SearchIndian returns songs for a recognized Indian-language identifier.
// An unrecognized identifier is searched verbatim as a free-text term.
func (c *ITunesClient) SearchIndian(ctx context.Context, language string, limit int) []Track {
	terms, ok := indianSearchTerms[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		terms = []string{language}
	}

	var combined []Track
	for _, term := range terms {
		combined = append(combined, c.search(ctx, term, limit, language)...)
	}
	if len(combined) > limit {
		combined = combined[:limit]
	}
	return combined
}

func (c *ITunesClient) search(ctx context.Context, term string, limit int, language string) []Track {
	key := cacheKey("itunes", term, limit)
	if cached, ok := c.tracks.Get(key); ok {
		return cached
	}

	params := url.Values{}
	params.Set("term", term)
	params.Set("media", "music")
	params.Set("entity", "song")
	params.Set("limit", strconv.Itoa(limit*2))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		c.log.Warn().Err(err).Str("term", term).Msg("create search request failed")
		return []Track{}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("term", term).Msg("search request failed")
		return []Track{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.log.Warn().Str("term", term).
			Str("status", resp.Status).
			Str("body", truncate(string(body), 200)).
			Msg("search returned non-OK status")
		return []Track{}
	}

	var payload itunesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Warn().Err(err).Str("term", term).Msg("decode search response failed")
		return []Track{}
	}

	tracks := make([]Track, 0, len(payload.Results))
	for _, r := range payload.Results {
		tracks = append(tracks, mapITunesTrack(r, language))
	}

	tracks = random.Sample(tracks, limit)
	c.tracks.Set(key, tracks)
	return tracks
}

// mapITunesTrack converts one wire record, defaulting every optional field.
func mapITunesTrack(r itunesResult, language string) Track {
	title := r.TrackName
	if title == "" {
		title = "Untitled"
	}
	artist := r.ArtistName
	if artist == "" {
		artist = "Unknown Artist"
	}
	genre := r.PrimaryGenreName
	if genre == "" {
		genre = "Various"
	}
	if language == "" {
		language = "English"
	}

	return Track{
		Title:      title,
		Artist:     artist,
		Genre:      genre,
		Language:   language,
		Album:      r.CollectionName,
		URL:        r.TrackViewURL,
		PreviewURL: r.PreviewURL,
		Image:      r.ArtworkURL100,
		Source:     SourceITunes,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// IndianLanguages lists the recognized language identifiers in no particular
// order.
func IndianLanguages() []string {
	langs := make([]string, 0, len(indianSearchTerms))
	for l := range indianSearchTerms {
		langs = append(langs, l)
	}
	return langs
}

// Package musicapi wraps the upstream music catalogs (Last.fm, iTunes,
// MusicBrainz) behind adapters that normalize their heterogeneous responses
// into a shared Track/Artist shape.
//
// Every adapter call follows the same contract: consult the shared TTL cache
// first, absorb any upstream failure (network error, non-2xx status,
// malformed payload) into an empty result with a logged warning, and populate
// the cache on success only. Callers therefore never see an upstream error;
// a degraded catalog just contributes fewer tracks.
package musicapi

import (
	"fmt"
	"strings"
	"time"

	"muselift/internal/cache"
)

// Source identifies the upstream catalog an adapter normalized a record from.
// It is carried for traceability, not uniqueness.
type Source string

const (
	SourceLastFM      Source = "Last.fm"
	SourceITunes      Source = "iTunes"
	SourceMusicBrainz Source = "MusicBrainz"
)

// Track is the normalized track record shared by all adapters. Records are
// immutable once constructed; the recommendation layer attaches scores to
// copies rather than mutating in place.
type Track struct {
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Genre      string  `json:"genre"`
	Language   string  `json:"language,omitempty"`
	Album      string  `json:"album,omitempty"`
	URL        string  `json:"url,omitempty"`
	PreviewURL string  `json:"preview_url,omitempty"`
	Image      string  `json:"image,omitempty"`
	MBID       string  `json:"mbid,omitempty"`
	Source     Source  `json:"source"`
	Score      float64 `json:"score,omitempty"`
}

// Artist is the normalized artist record. Static catalog entries leave Source
// and URL empty; fetched records carry both.
type Artist struct {
	Name           string   `json:"name"`
	Category       string   `json:"category,omitempty"`
	Country        string   `json:"country,omitempty"`
	Genre          string   `json:"genre"`
	Bio            string   `json:"bio,omitempty"`
	SignatureWorks []string `json:"signature_works,omitempty"`
	Image          string   `json:"image,omitempty"`
	Source         Source   `json:"source,omitempty"`
	URL            string   `json:"url,omitempty"`
}

// TrackCache is the cache shape shared by all adapters. One instance is
// constructed at startup and injected into each client so tests get isolated
// cache lifetimes.
type TrackCache = cache.Cache[[]Track]

// Config holds the upstream credentials and knobs shared by the adapter
// constructors. An absent credential degrades the affected adapter to empty
// results instead of failing the process.
type Config struct {
	LastFMAPIKey string

	// RequestTimeout bounds each upstream HTTP call. Zero means
	// DefaultRequestTimeout.
	RequestTimeout time.Duration
}

// DefaultRequestTimeout bounds a single upstream catalog call.
const DefaultRequestTimeout = 15 * time.Second

func (c Config) timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return c.RequestTimeout
}

// cacheKey builds the deterministic cache key for one adapter call: adapter
// name plus normalized search key plus result bound.
func cacheKey(adapter, searchKey string, limit int) string {
	return fmt.Sprintf("%s_%s_%d", adapter, strings.ToLower(strings.TrimSpace(searchKey)), limit)
}

// Package aggregator merges the upstream catalog adapters into the
// discovery and category feeds. Adapter calls within one aggregation are
// fanned out concurrently and joined; a failed adapter simply contributes
// nothing, so a feed is never an error, only possibly smaller.
package aggregator

import (
	"context"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	"muselift/internal/musicapi"
	"muselift/internal/random"
)

// DefaultFeedSize is the discovery feed size when the caller does not ask
// for one.
const DefaultFeedSize = 15

// perSourceLimit bounds each adapter call inside the discovery fan-out.
const perSourceLimit = 5

// discoveryGenres is the tag pool one genre is drawn from per discovery
// request.
var discoveryGenres = []string{"jazz", "classical", "rock", "blues", "folk", "electronic"}

// discoveryIndianTerms is the free-text pool that keeps Indian music in
// every discovery feed.
var discoveryIndianTerms = []string{"carnatic", "hindi", "rahman", "fusion india", "bollywood"}

// Genres lists the recognized genre category identifiers.
var Genres = []string{
	"jazz", "classical", "rock", "pop", "lofi", "blues", "funk",
	"metal", "folk", "fusion", "alternative", "atmospheric", "cozy",
}

// Languages lists the recognized language category identifiers.
var Languages = []string{"hindi", "malayalam", "tamil", "telugu", "carnatic", "indian-fusion"}

// GenreSearcher is the Last.fm surface the aggregator depends on.
type GenreSearcher interface {
	TopTracksByTag(ctx context.Context, tag string, limit int) []musicapi.Track
}

// TermSearcher is the iTunes surface the aggregator depends on.
type TermSearcher interface {
	SearchTracks(ctx context.Context, term string, limit int) []musicapi.Track
	SearchIndian(ctx context.Context, language string, limit int) []musicapi.Track
}

// RecordingSearcher is the MusicBrainz surface the aggregator depends on.
type RecordingSearcher interface {
	SearchRecordings(ctx context.Context, query string, limit int) []musicapi.Track
}

// Service aggregates the catalog adapters into user-facing feeds.
type Service struct {
	lastfm GenreSearcher
	itunes TermSearcher
	brainz RecordingSearcher

	// rng may be nil, in which case the locked package-level source is
	// used and the service is safe for concurrent requests.
	rng *rand.Rand
	log zerolog.Logger
}

// New constructs the aggregation service.
func New(lastfm GenreSearcher, itunes TermSearcher, brainz RecordingSearcher, log zerolog.Logger) *Service {
	return &Service{
		lastfm: lastfm,
		itunes: itunes,
		brainz: brainz,
		log:    log.With().Str("component", "aggregator").Logger(),
	}
}

// fanOut runs every fetch concurrently and concatenates their results in
// call order.
func fanOut(fetches ...func() []musicapi.Track) []musicapi.Track {
	results := make([][]musicapi.Track, len(fetches))
	var wg sync.WaitGroup
	for i, fetch := range fetches {
		wg.Add(1)
		go func(i int, fetch func() []musicapi.Track) {
			defer wg.Done()
			results[i] = fetch()
		}(i, fetch)
	}
	wg.Wait()

	var combined []musicapi.Track
	for _, r := range results {
		combined = append(combined, r...)
	}
	return combined
}

// Discover assembles a mixed feed of n tracks: one random genre searched on
// both Last.fm and iTunes plus one random Indian term, fetched in parallel,
// shuffled together and trimmed. Partial or total adapter failure degrades
// the feed size, never the call.
func (s *Service) Discover(ctx context.Context, n int) []musicapi.Track {
	if n <= 0 {
		n = DefaultFeedSize
	}

	genre, _ := random.PickOne(s.rng, discoveryGenres)
	indianTerm, _ := random.PickOne(s.rng, discoveryIndianTerms)

	combined := fanOut(
		func() []musicapi.Track { return s.lastfm.TopTracksByTag(ctx, genre, perSourceLimit) },
		func() []musicapi.Track { return s.itunes.SearchTracks(ctx, genre, perSourceLimit) },
		func() []musicapi.Track { return s.itunes.SearchIndian(ctx, indianTerm, perSourceLimit) },
	)

	s.log.Debug().Str("genre", genre).Str("indian_term", indianTerm).
		Int("combined", len(combined)).Msg("discovery feed assembled")

	return random.SampleWith(s.rng, combined, n)
}

// Category returns up to limit tracks for a recognized genre or language
// identifier. Genre ids search Last.fm with an iTunes fallback; language ids
// search the curated iTunes terms. An unrecognized id yields an empty feed,
// not an error; callers validate against Genres and Languages.
func (s *Service) Category(ctx context.Context, category string, limit int) []musicapi.Track {
	if limit <= 0 {
		limit = DefaultFeedSize
	}

	switch {
	case contains(Genres, category):
		tracks := s.lastfm.TopTracksByTag(ctx, category, limit)
		if len(tracks) == 0 {
			// Keyless or degraded Last.fm still leaves iTunes.
			tracks = s.itunes.SearchTracks(ctx, category, limit)
		}
		return random.SampleWith(s.rng, tracks, limit)
	case contains(Languages, category):
		return random.SampleWith(s.rng, s.itunes.SearchIndian(ctx, category, limit), limit)
	default:
		s.log.Debug().Str("category", category).Msg("unrecognized category requested")
		return []musicapi.Track{}
	}
}

// Search fans a free-text query out to iTunes and MusicBrainz and merges the
// results, shuffled and trimmed to limit.
func (s *Service) Search(ctx context.Context, query string, limit int) []musicapi.Track {
	if limit <= 0 {
		limit = DefaultFeedSize
	}

	combined := fanOut(
		func() []musicapi.Track { return s.itunes.SearchTracks(ctx, query, limit) },
		func() []musicapi.Track { return s.brainz.SearchRecordings(ctx, query, limit) },
	)
	return random.SampleWith(s.rng, combined, limit)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

package musicapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muselift/internal/cache"
)

func newITunesForTest(t *testing.T, handler http.HandlerFunc) *ITunesClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewITunesClient(Config{}, cache.New[[]Track](time.Minute), zerolog.Nop())
	c.baseURL = srv.URL
	return c
}

func TestSearchTracksNormalizesPayload(t *testing.T) {
	c := newITunesForTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "music", r.URL.Query().Get("media"))
		assert.Equal(t, "song", r.URL.Query().Get("entity"))
		assert.Equal(t, "jazz", r.URL.Query().Get("term"))

		w.Write([]byte(`{"resultCount": 2, "results": [
			{"trackName": "Take Five", "artistName": "Dave Brubeck",
			 "collectionName": "Time Out", "primaryGenreName": "Jazz",
			 "trackViewUrl": "https://itunes/take-five",
			 "previewUrl": "https://itunes/take-five.m4a",
			 "artworkUrl100": "https://itunes/art.jpg"},
			{}
		]}`))
	})

	tracks := c.SearchTracks(context.Background(), "jazz", 5)

	require.Len(t, tracks, 2)
	byTitle := map[string]Track{}
	for _, tr := range tracks {
		byTitle[tr.Title] = tr
	}

	takeFive := byTitle["Take Five"]
	assert.Equal(t, "Dave Brubeck", takeFive.Artist)
	assert.Equal(t, "Jazz", takeFive.Genre)
	assert.Equal(t, "Time Out", takeFive.Album)
	assert.Equal(t, "https://itunes/take-five.m4a", takeFive.PreviewURL)
	assert.Equal(t, SourceITunes, takeFive.Source)

	// An entirely empty result record still maps to a usable track.
	empty := byTitle["Untitled"]
	assert.Equal(t, "Unknown Artist", empty.Artist)
	assert.Equal(t, "Various", empty.Genre)
	assert.Equal(t, "English", empty.Language)
}

func TestSearchTracksAbsorbsFailures(t *testing.T) {
	c := newITunesForTest(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusForbidden)
	})

	assert.Empty(t, c.SearchTracks(context.Background(), "rock", 5))
	assert.Equal(t, 0, c.tracks.Len())
}

func TestSearchTracksCachesSuccess(t *testing.T) {
	calls := 0
	c := newITunesForTest(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"resultCount": 1, "results": [{"trackName": "A", "artistName": "B"}]}`))
	})

	_ = c.SearchTracks(context.Background(), "lofi", 3)
	_ = c.SearchTracks(context.Background(), "lofi", 3)

	assert.Equal(t, 1, calls)

	// A different limit is a different cache key.
	_ = c.SearchTracks(context.Background(), "lofi", 4)
	assert.Equal(t, 2, calls)
}

func TestSearchIndianMapsLanguageToCuratedTerms(t *testing.T) {
	var terms []string
	c := newITunesForTest(t, func(w http.ResponseWriter, r *http.Request) {
		terms = append(terms, r.URL.Query().Get("term"))
		w.Write([]byte(`{"resultCount": 1, "results": [{"trackName": "T", "artistName": "A"}]}`))
	})

	tracks := c.SearchIndian(context.Background(), "Malayalam", 15)

	assert.Equal(t, []string{"malayalam music"}, terms)
	require.NotEmpty(t, tracks)
	assert.Equal(t, "Malayalam", tracks[0].Language)
}

func TestSearchIndianConcatenatesMultiTermResults(t *testing.T) {
	var terms []string
	c := newITunesForTest(t, func(w http.ResponseWriter, r *http.Request) {
		terms = append(terms, r.URL.Query().Get("term"))
		w.Write([]byte(`{"resultCount": 1, "results": [{"trackName": "T", "artistName": "A"}]}`))
	})

	tracks := c.SearchIndian(context.Background(), "indian-fusion", 15)

	assert.Equal(t, []string{"indian fusion agam", "thaikkudam bridge"}, terms)
	assert.Len(t, tracks, 2)
}

func TestSearchIndianTrimsToLimit(t *testing.T) {
	c := newITunesForTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resultCount": 3, "results": [
			{"trackName": "1"}, {"trackName": "2"}, {"trackName": "3"}
		]}`))
	})

	tracks := c.SearchIndian(context.Background(), "indian-fusion", 3)

	// Two curated terms times up to three results each, trimmed to the
	// requested bound.
	assert.Len(t, tracks, 3)
}

func TestSearchIndianFallsBackToVerbatimTerm(t *testing.T) {
	var term string
	c := newITunesForTest(t, func(w http.ResponseWriter, r *http.Request) {
		term = r.URL.Query().Get("term")
		w.Write([]byte(`{"resultCount": 0, "results": []}`))
	})

	_ = c.SearchIndian(context.Background(), "punjabi", 5)

	assert.Equal(t, "punjabi", term)
}

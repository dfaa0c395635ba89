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

func newLastFMForTest(t *testing.T, handler http.HandlerFunc) (*LastFMClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewLastFMClient(Config{LastFMAPIKey: "test-key"}, cache.New[[]Track](time.Minute), zerolog.Nop())
	c.baseURL = srv.URL
	return c, srv
}

func TestTopTracksByTagNormalizesPayload(t *testing.T) {
	c, _ := newLastFMForTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tag.gettoptracks", r.URL.Query().Get("method"))
		assert.Equal(t, "jazz", r.URL.Query().Get("tag"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"tracks": {"track": [
				{"name": "So What", "url": "https://last.fm/so-what",
				 "artist": {"name": "Miles Davis"},
				 "image": [{"#text": "s"}, {"#text": "m"}, {"#text": "l"}]},
				{"name": "Naima"}
			]}
		}`))
	})

	tracks := c.TopTracksByTag(context.Background(), "jazz", 5)

	require.Len(t, tracks, 2)
	byTitle := map[string]Track{}
	for _, tr := range tracks {
		byTitle[tr.Title] = tr
	}

	soWhat := byTitle["So What"]
	assert.Equal(t, "Miles Davis", soWhat.Artist)
	assert.Equal(t, "jazz", soWhat.Genre)
	assert.Equal(t, "English", soWhat.Language)
	assert.Equal(t, "https://last.fm/so-what", soWhat.URL)
	assert.Equal(t, "l", soWhat.Image)
	assert.Equal(t, SourceLastFM, soWhat.Source)

	// Missing artist and image blocks must fall back to defaults.
	naima := byTitle["Naima"]
	assert.Equal(t, "Unknown Artist", naima.Artist)
	assert.Empty(t, naima.Image)
}

func TestTopTracksByTagServesSecondCallFromCache(t *testing.T) {
	calls := 0
	c, _ := newLastFMForTest(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"tracks": {"track": [{"name": "A", "artist": {"name": "B"}}]}}`))
	})

	first := c.TopTracksByTag(context.Background(), "rock", 5)
	second := c.TopTracksByTag(context.Background(), "rock", 5)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestTopTracksByTagAbsorbsUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"tracks": [not json`))
			},
		},
		{
			name: "api-level error envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"error": 6, "message": "Invalid parameters"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newLastFMForTest(t, tt.handler)

			tracks := c.TopTracksByTag(context.Background(), "jazz", 5)

			assert.Empty(t, tracks)
			// Failures are never cached.
			assert.Equal(t, 0, c.tracks.Len())
		})
	}
}

func TestLastFMWithoutAPIKeyReturnsEmpty(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewLastFMClient(Config{}, cache.New[[]Track](time.Minute), zerolog.Nop())
	c.baseURL = srv.URL

	assert.Empty(t, c.TopTracksByTag(context.Background(), "jazz", 5))
	assert.Empty(t, c.TopTracksByArtist(context.Background(), "Agam", 5))
	assert.False(t, called, "keyless client must not call upstream")
}

func TestTopTracksByArtistFillsArtistFromQuery(t *testing.T) {
	c, _ := newLastFMForTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "artist.gettoptracks", r.URL.Query().Get("method"))
		w.Write([]byte(`{"toptracks": {"track": [{"name": "Karna"}, {"name": "Boat Song"}]}}`))
	})

	tracks := c.TopTracksByArtist(context.Background(), "Agam", 10)

	require.Len(t, tracks, 2)
	for _, tr := range tracks {
		assert.Equal(t, "Agam", tr.Artist)
		assert.Equal(t, "Various", tr.Genre)
	}
}

func TestTopTracksByArtistHonorsLimit(t *testing.T) {
	c, _ := newLastFMForTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"toptracks": {"track": [
			{"name": "1"}, {"name": "2"}, {"name": "3"}, {"name": "4"}
		]}}`))
	})

	tracks := c.TopTracksByArtist(context.Background(), "Someone", 2)

	assert.Len(t, tracks, 2)
}

func TestSimilarTracksMapsRecords(t *testing.T) {
	c, _ := newLastFMForTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "track.getsimilar", r.URL.Query().Get("method"))
		w.Write([]byte(`{"similartracks": {"track": [
			{"name": "Blue in Green", "artist": {"name": "Miles Davis"}}
		]}}`))
	})

	tracks := c.SimilarTracks(context.Background(), "Miles Davis", "So What", 5)

	require.Len(t, tracks, 1)
	assert.Equal(t, "Blue in Green", tracks[0].Title)
	assert.Equal(t, SourceLastFM, tracks[0].Source)
}

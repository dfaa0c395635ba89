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

func newMusicBrainzForTest(t *testing.T, handler http.HandlerFunc) *MusicBrainzClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewMusicBrainzClient(Config{}, cache.New[[]Track](time.Minute), zerolog.Nop())
	c.baseURL = srv.URL
	return c
}

func TestSearchRecordingsNormalizesPayload(t *testing.T) {
	c := newMusicBrainzForTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("fmt"))
		assert.Equal(t, "raga", r.URL.Query().Get("query"))
		assert.Contains(t, r.Header.Get("User-Agent"), "MuseLift")

		w.Write([]byte(`{"recordings": [
			{"id": "mbid-1", "title": "Raga Hamsadhwani",
			 "artist-credit": [{"name": "Zakir Hussain"}],
			 "tags": [{"name": "classical"}]},
			{"id": "mbid-2", "title": "Untagged"}
		]}`))
	})

	tracks := c.SearchRecordings(context.Background(), "raga", 10)

	require.Len(t, tracks, 2)
	assert.Equal(t, "Raga Hamsadhwani", tracks[0].Title)
	assert.Equal(t, "Zakir Hussain", tracks[0].Artist)
	assert.Equal(t, "classical", tracks[0].Genre)
	assert.Equal(t, "mbid-1", tracks[0].MBID)
	assert.Equal(t, SourceMusicBrainz, tracks[0].Source)

	assert.Equal(t, "Unknown Artist", tracks[1].Artist)
	assert.Equal(t, "Various", tracks[1].Genre)
}

func TestSearchRecordingsAbsorbsFailure(t *testing.T) {
	c := newMusicBrainzForTest(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusServiceUnavailable)
	})

	assert.Empty(t, c.SearchRecordings(context.Background(), "raga", 10))
}

func TestSearchRecordingsCachesSuccess(t *testing.T) {
	calls := 0
	c := newMusicBrainzForTest(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"recordings": [{"id": "x", "title": "T"}]}`))
	})

	_ = c.SearchRecordings(context.Background(), "fusion", 5)
	_ = c.SearchRecordings(context.Background(), "fusion", 5)

	assert.Equal(t, 1, calls)
}

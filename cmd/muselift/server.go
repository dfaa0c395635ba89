package main

import (
	"net/http"

	"github.com/rs/zerolog"

	"muselift/internal/aggregator"
	"muselift/internal/artists"
	"muselift/internal/cache"
	"muselift/internal/httpapi"
	"muselift/internal/middleware"
	"muselift/internal/musicapi"
	"muselift/internal/recommend"
)

func newHTTPHandler(cfg Config, log zerolog.Logger) http.Handler {
	apiCfg := musicapi.Config{
		LastFMAPIKey:   cfg.LastFMAPIKey,
		RequestTimeout: cfg.UpstreamTimeout,
	}

	// One shared track cache across all adapters; keys are prefixed per
	// adapter so entries never collide.
	tracks := cache.New[[]musicapi.Track](cfg.CacheTTL)

	lastfm := musicapi.NewLastFMClient(apiCfg, tracks, log)
	itunes := musicapi.NewITunesClient(apiCfg, tracks, log)
	brainz := musicapi.NewMusicBrainzClient(apiCfg, tracks, log)

	songSvc := aggregator.New(lastfm, itunes, brainz, log)
	artistSvc := artists.New(lastfm)
	ranker := recommend.NewStrategy(cfg.HuggingFaceAPIKey, log)

	handler := httpapi.New(songSvc, artistSvc, ranker, log).Routes()
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.Recovery()(handler)
	handler = middleware.RequestLogging()(handler)
	return handler
}

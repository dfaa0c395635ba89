package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"muselift/internal/musicapi"
)

const (
	huggingFaceBaseURL = "https://api-inference.huggingface.co/models/sentence-transformers/all-MiniLM-L6-v2"

	embeddingTimeout = 20 * time.Second
)

// EmbeddingRanker scores tracks by cosine similarity between sentence
// embeddings of the prompt and each track descriptor, fetched from the
// HuggingFace inference API. Any upstream failure falls back to the local
// strategy so a ranked feed is always produced.
type EmbeddingRanker struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	fallback   Strategy
	log        zerolog.Logger
}

// NewEmbeddingRanker creates an embedding-backed ranker. fallback must not
// be nil; it handles every degraded path.
func NewEmbeddingRanker(apiKey string, fallback Strategy, log zerolog.Logger) *EmbeddingRanker {
	return &EmbeddingRanker{
		apiKey:     apiKey,
		baseURL:    huggingFaceBaseURL,
		httpClient: &http.Client{Timeout: embeddingTimeout},
		fallback:   fallback,
		log:        log.With().Str("ranker", "embedding").Logger(),
	}
}

// Rank embeds the prompt and every descriptor, scores by cosine similarity,
// and sorts descending. Tracks whose embedding call failed score zero; if
// the prompt embedding itself fails the fallback strategy takes over.
func (r *EmbeddingRanker) Rank(ctx context.Context, tracks []musicapi.Track, prompt string, k int) []musicapi.Track {
	if len(tracks) == 0 {
		return tracks
	}

	promptVec, err := r.embed(ctx, prompt)
	if err != nil {
		r.log.Warn().Err(err).Msg("prompt embedding failed, using fallback strategy")
		return r.fallback.Rank(ctx, tracks, prompt, k)
	}

	ranked := make([]musicapi.Track, len(tracks))
	for i, t := range tracks {
		scored := t
		vec, err := r.embed(ctx, descriptor(t))
		if err != nil {
			r.log.Warn().Err(err).Str("title", t.Title).Msg("track embedding failed")
		} else {
			scored.Score = cosineSimilarity(promptVec, vec)
		}
		ranked[i] = scored
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return trim(ranked, k)
}

// embed fetches the sentence embedding for text. The inference API answers
// either a flat vector or a batch of one; both shapes are accepted.
func (r *EmbeddingRanker) embed(ctx context.Context, text string) ([]float64, error) {
	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, fmt.Errorf("encode inputs: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("inference api error: %s - %s", resp.Status, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var flat []float64
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}
	var batch [][]float64
	if err := json.Unmarshal(body, &batch); err == nil && len(batch) > 0 && len(batch[0]) > 0 {
		return batch[0], nil
	}
	return nil, fmt.Errorf("unexpected embedding payload shape")
}

// cosineSimilarity returns the cosine of the angle between a and b, or zero
// when the vectors are unusable.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// NewStrategy selects the ranking strategy from available configuration:
// embeddings when a HuggingFace key is present, lexical overlap otherwise.
// The selection happens once here, never per call.
func NewStrategy(huggingFaceAPIKey string, log zerolog.Logger) Strategy {
	if huggingFaceAPIKey != "" {
		return NewEmbeddingRanker(huggingFaceAPIKey, LexicalRanker{}, log)
	}
	return LexicalRanker{}
}

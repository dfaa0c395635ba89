// Package recommend ranks track lists against a free-text prompt or a
// recognized mood. The ranking strategy is chosen once at construction time:
// lexical token overlap by default, HuggingFace sentence embeddings when an
// API key is configured, and a curated keyword filter as an explicit
// alternative for mood browsing.
package recommend

import (
	"context"
	"sort"
	"strings"

	"muselift/internal/musicapi"
)

// DefaultTopK is the trim applied when a caller does not bound the result.
const DefaultTopK = 10

// Strategy ranks tracks against a prompt and returns at most k of them.
// k <= 0 keeps the full list. Implementations never error: with no usable
// scoring signal the input is returned unchanged (trimmed), so a degraded
// ranker still yields a displayable feed.
type Strategy interface {
	Rank(ctx context.Context, tracks []musicapi.Track, prompt string, k int) []musicapi.Track
}

// moodPrompts expands a recognized mood identifier into the descriptive
// prompt the ranking strategies score against.
var moodPrompts = map[string]string{
	"chill":       "relaxing calm peaceful ambient lo-fi music for studying and relaxation",
	"energetic":   "upbeat fast-paced powerful exciting rock and electronic music",
	"emotional":   "deep touching soulful heartfelt ballads and acoustic songs",
	"devotional":  "spiritual meditative classical Indian devotional music and mantras",
	"fusion":      "innovative Indian fusion blending traditional and modern elements like Agam and Thaikkudam Bridge",
	"atmospheric": "cinematic ethereal ambient soundscapes and post-rock",
	"happy":       "joyful uplifting cheerful pop and feel-good music",
	"melancholic": "sad introspective melancholic indie and alternative music",
}

// PromptForMood expands a recognized mood into its descriptive prompt. An
// unrecognized mood is used verbatim as the prompt.
func PromptForMood(mood string) string {
	if prompt, ok := moodPrompts[strings.ToLower(strings.TrimSpace(mood))]; ok {
		return prompt
	}
	return mood
}

// Moods lists the recognized mood identifiers in no particular order.
func Moods() []string {
	moods := make([]string, 0, len(moodPrompts))
	for m := range moodPrompts {
		moods = append(moods, m)
	}
	return moods
}

// descriptor builds the text a track is scored by.
func descriptor(t musicapi.Track) string {
	parts := []string{t.Title, t.Artist, t.Genre}
	if t.Language != "" {
		parts = append(parts, t.Language)
	}
	return strings.Join(parts, " ")
}

// tokenSet splits s on whitespace, lower-cased.
func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = struct{}{}
	}
	return set
}

// jaccard computes |a ∩ b| / |a ∪ b|.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func trim(tracks []musicapi.Track, k int) []musicapi.Track {
	if k > 0 && len(tracks) > k {
		return tracks[:k]
	}
	return tracks
}

// LexicalRanker scores tracks by Jaccard token overlap between the prompt
// and each track's descriptor. It is the default strategy and needs no
// external service.
type LexicalRanker struct{}

// Rank attaches an overlap score to a copy of every track and sorts
// descending. Ties keep their input order.
func (LexicalRanker) Rank(_ context.Context, tracks []musicapi.Track, prompt string, k int) []musicapi.Track {
	if len(tracks) == 0 {
		return tracks
	}

	promptTokens := tokenSet(prompt)
	ranked := make([]musicapi.Track, len(tracks))
	for i, t := range tracks {
		scored := t
		scored.Score = jaccard(promptTokens, tokenSet(descriptor(t)))
		ranked[i] = scored
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return trim(ranked, k)
}

// moodKeywords backs the keyword filter with curated per-mood term lists.
var moodKeywords = map[string][]string{
	"chill":       {"chill", "relax", "calm", "ambient", "lo-fi", "lofi", "peaceful"},
	"energetic":   {"energy", "upbeat", "dance", "rock", "metal", "pump"},
	"emotional":   {"emotion", "soul", "ballad", "sad", "moving", "touching"},
	"devotional":  {"devotional", "spiritual", "bhajan", "hymn", "prayer"},
	"fusion":      {"fusion", "carnatic", "agam", "thaikkudam"},
	"atmospheric": {"atmospheric", "cinematic", "ethereal", "ambient", "post-rock"},
	"happy":       {"happy", "joy", "uplifting", "positive", "bright"},
	"melancholic": {"melancholy", "melancholic", "sad", "blues", "somber", "moody"},
}

// KeywordFilter keeps tracks whose descriptor contains any curated keyword
// for the requested mood, preserving input order. It is the membership-based
// alternate strategy for installations without any scoring backend.
type KeywordFilter struct{}

// Rank filters by keyword substring match. An unrecognized mood carries no
// keyword list, so the input is returned unchanged apart from the trim.
func (KeywordFilter) Rank(_ context.Context, tracks []musicapi.Track, prompt string, k int) []musicapi.Track {
	keywords, ok := moodKeywords[strings.ToLower(strings.TrimSpace(prompt))]
	if !ok || len(tracks) == 0 {
		return trim(tracks, k)
	}

	var kept []musicapi.Track
	for _, t := range tracks {
		text := strings.ToLower(descriptor(t))
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				kept = append(kept, t)
				break
			}
		}
	}
	return trim(kept, k)
}

// Package artists serves the static catalog of legendary artists and joins
// it with live top-track data from the Last.fm adapter.
package artists

import (
	"context"
	"errors"
	"sort"
	"strings"

	"muselift/internal/musicapi"
)

// ErrNotFound is returned when no catalog entry matches the requested name.
var ErrNotFound = errors.New("artist not found")

// Filter narrows the list of returned artists.
type Filter struct {
	// Category keeps only artists in the named category; empty or "all"
	// keeps everyone.
	Category string
}

// TopTrackLister exposes the single upstream query this service needs.
type TopTrackLister interface {
	TopTracksByArtist(ctx context.Context, artist string, limit int) []musicapi.Track
}

// Service provides artist-centric operations.
type Service struct {
	catalog   []musicapi.Artist
	topTracks TopTrackLister
}

// New constructs an artist Service over the built-in legendary catalog.
func New(topTracks TopTrackLister) *Service {
	return &Service{catalog: legendaryArtists, topTracks: topTracks}
}

// List returns the catalog, optionally filtered by category, sorted by name.
func (s *Service) List(filter Filter) []musicapi.Artist {
	target := strings.ToLower(strings.TrimSpace(filter.Category))

	var out []musicapi.Artist
	for _, a := range s.catalog {
		if target != "" && target != "all" && !strings.EqualFold(a.Category, target) {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Categories returns the distinct catalog categories, sorted.
func (s *Service) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range s.catalog {
		if _, ok := seen[a.Category]; ok {
			continue
		}
		seen[a.Category] = struct{}{}
		out = append(out, a.Category)
	}
	sort.Strings(out)
	return out
}

// GetWithTracks looks an artist up by case-insensitive name and fetches that
// artist's top tracks. A degraded upstream yields the artist with an empty
// track list, never an error.
func (s *Service) GetWithTracks(ctx context.Context, name string, limit int) (musicapi.Artist, []musicapi.Track, error) {
	for _, a := range s.catalog {
		if strings.EqualFold(a.Name, strings.TrimSpace(name)) {
			tracks := s.topTracks.TopTracksByArtist(ctx, a.Name, limit)
			return a, tracks, nil
		}
	}
	return musicapi.Artist{}, nil, ErrNotFound
}

// legendaryArtists is the fixed reference catalog. Records are static
// editorial content, not fetched data, so Source and URL stay empty.
var legendaryArtists = []musicapi.Artist{
	{
		Name:     "A.R. Rahman",
		Category: "Composers",
		Country:  "India",
		Genre:    "Film Music, Fusion",
		Bio:      "Oscar-winning composer who revolutionized Indian film music with his fusion of classical, electronic, and world music.",
		SignatureWorks: []string{
			"Jai Ho (Slumdog Millionaire)",
			"Vande Mataram",
			"Roja",
		},
		Image: "https://upload.wikimedia.org/wikipedia/commons/thumb/d/d5/A._R._Rahman_2012.jpg/440px-A._R._Rahman_2012.jpg",
	},
	{
		Name:     "Ilaiyaraaja",
		Category: "Composers",
		Country:  "India",
		Genre:    "Classical, Film Music",
		Bio:      "Maestro known for integrating Indian classical music with Western classical and folk traditions.",
		SignatureWorks: []string{
			"How to Name It",
			"Thalapathi",
			"Mouna Ragam",
		},
		Image: "https://upload.wikimedia.org/wikipedia/commons/thumb/f/f8/Ilaiyaraaja_2020.jpg/440px-Ilaiyaraaja_2020.jpg",
	},
	{
		Name:     "Agam",
		Category: "Bands",
		Country:  "India",
		Genre:    "Carnatic Progressive Rock",
		Bio:      "Pioneering Indian band fusing Carnatic music with progressive rock.",
		SignatureWorks: []string{
			"Karna",
			"Dhanashree Thillana",
			"Mahaganapathim",
		},
	},
	{
		Name:     "Thaikkudam Bridge",
		Category: "Bands",
		Country:  "India",
		Genre:    "Fusion, Rock",
		Bio:      "Multi-genre band known for powerful fusion of Indian classical and Western rock.",
		SignatureWorks: []string{
			"Fish Rock",
			"Nostalgia",
			"Petta Rap",
		},
	},
	{
		Name:     "Miles Davis",
		Category: "Trumpeters",
		Country:  "USA",
		Genre:    "Jazz",
		Bio:      "Jazz icon who pioneered multiple styles including bebop, cool jazz, and jazz fusion.",
		SignatureWorks: []string{
			"Kind of Blue",
			"So What",
			"All Blues",
		},
	},
	{
		Name:     "John Coltrane",
		Category: "Saxophonists",
		Country:  "USA",
		Genre:    "Jazz",
		Bio:      "Revolutionary saxophonist known for spiritual jazz and modal improvisation.",
		SignatureWorks: []string{
			"A Love Supreme",
			"Giant Steps",
			"My Favorite Things",
		},
	},
	{
		Name:     "Jimi Hendrix",
		Category: "Guitarists",
		Country:  "USA",
		Genre:    "Rock, Blues",
		Bio:      "Legendary guitarist who revolutionized electric guitar playing with innovative techniques.",
		SignatureWorks: []string{
			"Purple Haze",
			"Voodoo Child",
			"All Along the Watchtower",
		},
	},
	{
		Name:     "Zakir Hussain",
		Category: "Percussionists",
		Country:  "India",
		Genre:    "Classical, Fusion",
		Bio:      "Tabla virtuoso who brought Indian classical percussion to global prominence.",
		SignatureWorks: []string{
			"Making Music",
			"Zakir (album)",
			"Planet Drum",
		},
	},
	{
		Name:     "Pink Floyd",
		Category: "Bands",
		Country:  "UK",
		Genre:    "Progressive Rock",
		Bio:      "Pioneers of progressive and psychedelic rock known for philosophical lyrics and elaborate live shows.",
		SignatureWorks: []string{
			"The Dark Side of the Moon",
			"Wish You Were Here",
			"Comfortably Numb",
		},
	},
	{
		Name:     "Ludwig van Beethoven",
		Category: "Composers",
		Country:  "Germany",
		Genre:    "Classical",
		Bio:      "Transitional figure between Classical and Romantic eras, composed despite hearing loss.",
		SignatureWorks: []string{
			"Symphony No. 9",
			"Moonlight Sonata",
			"Für Elise",
		},
	},
}

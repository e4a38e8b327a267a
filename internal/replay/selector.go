// Package replay picks the calming songs replayed once sequential playback
// runs out.
package replay

import (
	"sort"
	"strings"

	"github.com/playwise/playwise/internal/domain"
)

const DefaultLimit = 3

// DefaultCalmingGenres is the built-in calming set. Matching ignores case.
var DefaultCalmingGenres = []string{"Lo-Fi", "Jazz", "Classical", "Ambient", "Chill", "Lofi"}

// PlayCounter reports how often a song has been played.
type PlayCounter interface {
	PlayCount(title string) int
}

// SkipChecker reports whether a song was skipped recently.
type SkipChecker interface {
	Contains(song *domain.Song) bool
}

// Candidate is a selected song together with the play count it was ranked by.
type Candidate struct {
	Song      *domain.Song `json:"song"`
	PlayCount int          `json:"play_count"`
}

// Selector ranks calming songs by play count. It only reads its inputs.
type Selector struct {
	calming map[string]struct{}
	limit   int
}

// NewSelector builds a selector. An empty genre list falls back to
// DefaultCalmingGenres and a non-positive limit to DefaultLimit.
func NewSelector(genres []string, limit int) *Selector {
	if len(genres) == 0 {
		genres = DefaultCalmingGenres
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	calming := make(map[string]struct{}, len(genres))
	for _, genre := range genres {
		calming[strings.ToLower(strings.TrimSpace(genre))] = struct{}{}
	}

	return &Selector{
		calming: calming,
		limit:   limit,
	}
}

func (s *Selector) IsCalming(genre string) bool {
	_, ok := s.calming[strings.ToLower(strings.TrimSpace(genre))]
	return ok
}

// Select keeps the calming songs from songs that are not recently skipped,
// orders them by descending play count with ties left in input order, and
// returns at most the configured limit.
func (s *Selector) Select(songs []*domain.Song, counts PlayCounter, skipped SkipChecker) []Candidate {
	candidates := make([]Candidate, 0)
	for _, song := range songs {
		if song == nil || !s.IsCalming(song.Genre) {
			continue
		}
		if skipped != nil && skipped.Contains(song) {
			continue
		}
		candidates = append(candidates, Candidate{Song: song, PlayCount: counts.PlayCount(song.Title)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PlayCount > candidates[j].PlayCount
	})

	if len(candidates) > s.limit {
		candidates = candidates[:s.limit]
	}
	return candidates
}

func (s *Selector) Limit() int {
	return s.limit
}

// Songs strips the ranking counts from candidates.
func Songs(candidates []Candidate) []*domain.Song {
	songs := make([]*domain.Song, len(candidates))
	for i, c := range candidates {
		songs[i] = c.Song
	}
	return songs
}

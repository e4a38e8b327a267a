package recency

import (
	"github.com/playwise/playwise/internal/domain"
)

// SkipWindow tracks the songs skipped most recently.
type SkipWindow struct {
	*Window[*domain.Song]
}

func NewSkipWindow(capacity int) *SkipWindow {
	if capacity <= 0 {
		capacity = SkipWindowSize
	}
	return &SkipWindow{Window: NewWindow[*domain.Song](capacity)}
}

// RecentlyAddedWindow tracks the songs added most recently.
type RecentlyAddedWindow struct {
	*Window[*domain.Song]
}

func NewRecentlyAddedWindow(capacity int) *RecentlyAddedWindow {
	if capacity <= 0 {
		capacity = RecentlyAddedWindowSize
	}
	return &RecentlyAddedWindow{Window: NewWindow[*domain.Song](capacity)}
}

// FilterByGenre returns up to limit recently added songs whose genre equals
// genre exactly, most recent first.
func (w *RecentlyAddedWindow) FilterByGenre(genre string, limit int) []*domain.Song {
	return w.Filter(func(s *domain.Song) bool {
		return s.Genre == genre
	}, limit)
}

// GenreBreakdown counts the genres of the songs currently in the window.
func (w *RecentlyAddedWindow) GenreBreakdown() map[string]int {
	counts := make(map[string]int)
	for _, song := range w.Snapshot(-1) {
		counts[song.Genre]++
	}
	return counts
}

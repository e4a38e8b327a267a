package recency

import (
	"github.com/playwise/playwise/internal/domain"
)

const DefaultRecentPlays = 5

// History is the unbounded play stack. The most recent play is on top.
type History struct {
	plays []*domain.Song
}

func NewHistory() *History {
	return &History{
		plays: make([]*domain.Song, 0, 64),
	}
}

func (h *History) Record(song *domain.Song) {
	if song == nil {
		return
	}
	h.plays = append(h.plays, song)
}

// UndoLast pops the most recent play.
func (h *History) UndoLast() (*domain.Song, bool) {
	if len(h.plays) == 0 {
		return nil, false
	}
	last := len(h.plays) - 1
	song := h.plays[last]
	h.plays[last] = nil
	h.plays = h.plays[:last]
	return song, true
}

// Recent returns up to n plays, most recent first, without popping them.
// A non-positive n falls back to DefaultRecentPlays.
func (h *History) Recent(n int) []*domain.Song {
	if n <= 0 {
		n = DefaultRecentPlays
	}
	if n > len(h.plays) {
		n = len(h.plays)
	}
	out := make([]*domain.Song, n)
	for i := 0; i < n; i++ {
		out[i] = h.plays[len(h.plays)-1-i]
	}
	return out
}

// All returns every play, most recent first.
func (h *History) All() []*domain.Song {
	return h.Recent(len(h.plays))
}

// Purge drops every play of song and returns how many were removed.
func (h *History) Purge(song *domain.Song) int {
	kept := h.plays[:0]
	for _, s := range h.plays {
		if s != song {
			kept = append(kept, s)
		}
	}
	removed := len(h.plays) - len(kept)
	for i := len(kept); i < len(h.plays); i++ {
		h.plays[i] = nil
	}
	h.plays = kept
	return removed
}

func (h *History) Len() int {
	return len(h.plays)
}

func (h *History) Clear() {
	h.plays = make([]*domain.Song, 0, 64)
}

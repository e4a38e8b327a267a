// Package index holds the lookup structures that sit beside the playlist:
// the title index and the rating buckets. Both store song identities and
// are not safe for concurrent use.
package index

import (
	"github.com/playwise/playwise/internal/domain"
)

// TitleIndex maps a title to the most recently added song with that title.
type TitleIndex struct {
	songs map[string]*domain.Song
}

func NewTitleIndex() *TitleIndex {
	return &TitleIndex{
		songs: make(map[string]*domain.Song),
	}
}

// Put indexes song under its title, replacing any earlier identity.
func (t *TitleIndex) Put(song *domain.Song) {
	if song == nil {
		return
	}
	t.songs[song.Title] = song
}

func (t *TitleIndex) Get(title string) (*domain.Song, bool) {
	song, ok := t.songs[title]
	return song, ok
}

// Forget drops the entry for song's title, but only while it still points
// at that exact identity.
func (t *TitleIndex) Forget(song *domain.Song) bool {
	if song == nil {
		return false
	}
	if current, ok := t.songs[song.Title]; ok && current == song {
		delete(t.songs, song.Title)
		return true
	}
	return false
}

func (t *TitleIndex) Len() int {
	return len(t.songs)
}

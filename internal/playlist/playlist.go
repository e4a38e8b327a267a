package playlist

import (
	"github.com/playwise/playwise/internal/domain"
)

// Playlist is the ordered song sequence. It is a plain owned slice of song
// identities; positional operations cost O(k) and the ends are O(1)
// amortised. Invalid positions never fail: they degrade to no-ops.
//
// Playlist is not safe for concurrent use.
type Playlist struct {
	songs []*domain.Song
}

// New creates an empty playlist
func New() *Playlist {
	return &Playlist{
		songs: make([]*domain.Song, 0),
	}
}

// Append adds a song at the tail and returns its position.
func (p *Playlist) Append(song *domain.Song) int {
	p.songs = append(p.songs, song)
	return len(p.songs) - 1
}

// InsertAt inserts song so that it ends up at position. Positions past the
// tail append; negative positions are ignored.
func (p *Playlist) InsertAt(position int, song *domain.Song) bool {
	if position < 0 || song == nil {
		return false
	}
	if position >= len(p.songs) {
		p.Append(song)
		return true
	}

	p.songs = append(p.songs, nil)
	copy(p.songs[position+1:], p.songs[position:])
	p.songs[position] = song
	return true
}

// RemoveAt removes and returns the song at position. The second result is
// false, and the playlist unchanged, when position is out of range.
func (p *Playlist) RemoveAt(position int) (*domain.Song, bool) {
	if position < 0 || position >= len(p.songs) {
		return nil, false
	}

	song := p.songs[position]
	copy(p.songs[position:], p.songs[position+1:])
	p.songs[len(p.songs)-1] = nil
	p.songs = p.songs[:len(p.songs)-1]
	return song, true
}

// MoveTo moves the song at from so that it sits at index to of the sequence
// left after its removal. A destination past the end appends.
//
//	[A B C D E].MoveTo(1, 4) => [A C D E B]
func (p *Playlist) MoveTo(from, to int) bool {
	if from == to || len(p.songs) == 0 || to < 0 {
		return false
	}

	song, ok := p.RemoveAt(from)
	if !ok {
		return false
	}
	return p.InsertAt(to, song)
}

// Reverse reverses the order in place.
func (p *Playlist) Reverse() {
	for i, j := 0, len(p.songs)-1; i < j; i, j = i+1, j-1 {
		p.songs[i], p.songs[j] = p.songs[j], p.songs[i]
	}
}

// At returns the song at position.
func (p *Playlist) At(position int) (*domain.Song, bool) {
	if position < 0 || position >= len(p.songs) {
		return nil, false
	}
	return p.songs[position], true
}

func (p *Playlist) Head() (*domain.Song, bool) {
	return p.At(0)
}

func (p *Playlist) Tail() (*domain.Song, bool) {
	return p.At(len(p.songs) - 1)
}

// IndexOf returns the first position holding song, or -1.
func (p *Playlist) IndexOf(song *domain.Song) int {
	for i, s := range p.songs {
		if s == song {
			return i
		}
	}
	return -1
}

func (p *Playlist) Contains(song *domain.Song) bool {
	return p.IndexOf(song) >= 0
}

// Songs returns a snapshot of the current order.
func (p *Playlist) Songs() []*domain.Song {
	songs := make([]*domain.Song, len(p.songs))
	copy(songs, p.songs)
	return songs
}

func (p *Playlist) Len() int {
	return len(p.songs)
}

func (p *Playlist) IsEmpty() bool {
	return len(p.songs) == 0
}

// TotalDuration returns the summed duration in seconds.
func (p *Playlist) TotalDuration() int {
	total := 0
	for _, song := range p.songs {
		total += song.Duration
	}
	return total
}

func (p *Playlist) Clear() {
	p.songs = make([]*domain.Song, 0)
}

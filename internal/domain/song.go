package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidSong     = errors.New("invalid song")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidRating   = errors.New("invalid rating")
)

const (
	UnknownGenre = "Unknown"

	MinRating = 1
	MaxRating = 5
)

// Song is a catalogue entry. Every index in the library holds the same
// *Song, so a song must never be copied once it has been added.
type Song struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Genre    string `json:"genre"`
	Duration int    `json:"duration"` // seconds
}

func NewSong(title, artist, genre string, duration int) (*Song, error) {
	song := &Song{
		Title:    title,
		Artist:   artist,
		Genre:    genre,
		Duration: duration,
	}
	if err := song.Validate(); err != nil {
		return nil, err
	}
	return song, nil
}

func (s *Song) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidSong)
	}

	if strings.Contains(s.Title, "\n") {
		return fmt.Errorf("%w: title must be a single line", ErrInvalidSong)
	}

	if s.Duration < 0 {
		return fmt.Errorf("%w: duration cannot be negative", ErrInvalidDuration)
	}

	if s.Genre == "" {
		s.Genre = UnknownGenre
	}

	return nil
}

func (s *Song) Length() time.Duration {
	return time.Duration(s.Duration) * time.Second
}

func (s *Song) GetDisplayArtist() string {
	if s.Artist != "" {
		return s.Artist
	}
	return "Unknown Artist"
}

func (s *Song) String() string {
	return fmt.Sprintf("%s by %s (%s, %ds)", s.Title, s.GetDisplayArtist(), s.Genre, s.Duration)
}

// ValidRating reports whether rating is within the accepted star range.
func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

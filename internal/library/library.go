// Package library is the catalogue-and-playback core. A Library owns the
// playlist and every structure derived from it and keeps them consistent
// across mutations.
package library

import (
	"fmt"
	"sync"

	"github.com/playwise/playwise/internal/config"
	"github.com/playwise/playwise/internal/domain"
	"github.com/playwise/playwise/internal/index"
	"github.com/playwise/playwise/internal/logger"
	"github.com/playwise/playwise/internal/playlist"
	"github.com/playwise/playwise/internal/recency"
	"github.com/playwise/playwise/internal/replay"
)

type Options struct {
	SkipWindow          int
	RecentlyAddedWindow int
	RecentPlays         int
	// CascadeDelete purges a deleted song from every index. When false a
	// deleted song stays reachable by title, rating and recency queries.
	CascadeDelete bool
	// InvalidateCursor resets the player whenever a positional mutation
	// shifts the playlist under it.
	InvalidateCursor bool
	AutoReplay       bool
	CalmingGenres    []string
	ReplayLimit      int
}

func DefaultOptions() Options {
	return Options{
		SkipWindow:          recency.SkipWindowSize,
		RecentlyAddedWindow: recency.RecentlyAddedWindowSize,
		RecentPlays:         recency.DefaultRecentPlays,
		CascadeDelete:       false,
		InvalidateCursor:    true,
		AutoReplay:          true,
		CalmingGenres:       replay.DefaultCalmingGenres,
		ReplayLimit:         replay.DefaultLimit,
	}
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SkipWindow:          cfg.Library.SkipWindow,
		RecentlyAddedWindow: cfg.Library.RecentlyAddedWindow,
		RecentPlays:         cfg.Library.RecentPlays,
		CascadeDelete:       cfg.Library.CascadeDelete,
		InvalidateCursor:    cfg.Library.InvalidateCursor,
		AutoReplay:          cfg.Replay.Enabled,
		CalmingGenres:       cfg.Replay.CalmingGenres,
		ReplayLimit:         cfg.Replay.Limit,
	}
}

// Library is the single owner of all catalogue state. Its methods are safe
// to call from several goroutines; the structures it owns are not, so they
// are only ever touched under mu.
type Library struct {
	opts Options

	playlist      *playlist.Playlist
	player        *playlist.Player
	titles        *index.TitleIndex
	ratings       *index.RatingIndex
	skipped       *recency.SkipWindow
	recentlyAdded *recency.RecentlyAddedWindow
	history       *recency.History
	playCounts    playCounts
	selector      *replay.Selector

	mu sync.Mutex
}

type playCounts map[string]int

func (p playCounts) PlayCount(title string) int {
	return p[title]
}

// recorder feeds player events back into the library while mu is held.
type recorder struct {
	l *Library
}

func (r recorder) RecordPlay(song *domain.Song) {
	r.l.recordPlay(song)
}

func New(opts Options) *Library {
	if opts.RecentPlays <= 0 {
		opts.RecentPlays = recency.DefaultRecentPlays
	}

	l := &Library{
		opts:          opts,
		playlist:      playlist.New(),
		titles:        index.NewTitleIndex(),
		ratings:       index.NewRatingIndex(),
		skipped:       recency.NewSkipWindow(opts.SkipWindow),
		recentlyAdded: recency.NewRecentlyAddedWindow(opts.RecentlyAddedWindow),
		history:       recency.NewHistory(),
		playCounts:    make(playCounts),
		selector:      replay.NewSelector(opts.CalmingGenres, opts.ReplayLimit),
	}
	l.player = playlist.NewPlayer(l.playlist, recorder{l: l})
	return l
}

// AddSong creates a song, appends it to the playlist, indexes it by title
// and marks it recently added.
func (l *Library) AddSong(title, artist, genre string, duration int) (*domain.Song, int, error) {
	song, err := domain.NewSong(title, artist, genre, duration)
	if err != nil {
		return nil, -1, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	position := l.playlist.Append(song)
	l.titles.Put(song)
	l.recentlyAdded.Touch(song)

	logger.Debug("Song added",
		logger.String("title", song.Title),
		logger.String("genre", song.Genre),
		logger.Int("position", position),
	)
	return song, position, nil
}

// InsertSong is AddSong at an explicit position. Positions past the tail
// append.
func (l *Library) InsertSong(position int, title, artist, genre string, duration int) (*domain.Song, error) {
	if position < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidPosition, position)
	}
	song, err := domain.NewSong(title, artist, genre, duration)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.playlist.InsertAt(position, song)
	l.titles.Put(song)
	l.recentlyAdded.Touch(song)
	l.playlistShifted()
	return song, nil
}

// DeleteSong removes the song at position. Out-of-range positions leave
// everything unchanged and report false.
func (l *Library) DeleteSong(position int) (*domain.Song, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	song, ok := l.playlist.RemoveAt(position)
	if !ok {
		return nil, false
	}

	if l.opts.CascadeDelete && !l.playlist.Contains(song) {
		l.titles.Forget(song)
		l.ratings.Purge(song)
		l.skipped.Remove(song)
		l.recentlyAdded.Remove(song)
		l.history.Purge(song)
	}
	l.playlistShifted()

	logger.Debug("Song deleted",
		logger.String("title", song.Title),
		logger.Int("position", position),
		logger.Bool("cascade", l.opts.CascadeDelete),
	)
	return song, true
}

func (l *Library) MoveSong(from, to int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	moved := l.playlist.MoveTo(from, to)
	if moved {
		l.playlistShifted()
		logger.Debug("Song moved", logger.Int("from", from), logger.Int("to", to))
	}
	return moved
}

func (l *Library) ReversePlaylist() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.playlist.Reverse()
	if l.playlist.Len() > 1 {
		l.playlistShifted()
	}
}

func (l *Library) playlistShifted() {
	if l.opts.InvalidateCursor {
		l.player.Invalidate()
	}
}

func (l *Library) FindByTitle(title string) (*domain.Song, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.titles.Get(title)
}

func (l *Library) AllSongsOrdered() []*domain.Song {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.playlist.Songs()
}

func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.playlist.Len()
}

// TotalDuration returns the playlist length in seconds.
func (l *Library) TotalDuration() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.playlist.TotalDuration()
}

// RateSong validates rating and files the song titled title under it.
func (l *Library) RateSong(title string, rating int) (*domain.Song, error) {
	if !domain.ValidRating(rating) {
		return nil, fmt.Errorf("%w: %d is outside %d..%d", domain.ErrInvalidRating, rating, domain.MinRating, domain.MaxRating)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	song, ok := l.titles.Get(title)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrSongNotFound, title)
	}
	l.ratings.Rate(song, rating)
	return song, nil
}

// UnrateSong removes one rating entry for the song titled title.
func (l *Library) UnrateSong(title string, rating int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	song, ok := l.titles.Get(title)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrSongNotFound, title)
	}
	if !l.ratings.Unrate(song, rating) {
		return fmt.Errorf("%w: %q has no %d-star rating", domain.ErrNotFound, title, rating)
	}
	return nil
}

func (l *Library) SongsByRating(rating int) []*domain.Song {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ratings.SongsWithRating(rating)
}

func (l *Library) CountsByRating() []index.RatingCount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ratings.CountsByRating()
}

func (l *Library) RecordSkip(song *domain.Song) {
	if song == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.skipped.Touch(song)
}

func (l *Library) SkipByTitle(title string) (*domain.Song, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	song, ok := l.titles.Get(title)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrSongNotFound, title)
	}
	l.skipped.Touch(song)
	return song, nil
}

func (l *Library) IsSkippedRecently(song *domain.Song) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.skipped.Contains(song)
}

func (l *Library) SkippedSnapshot() []*domain.Song {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.skipped.Snapshot(-1)
}

func (l *Library) SkippedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.skipped.Len()
}

func (l *Library) SkipCapacity() int {
	return l.skipped.Cap()
}

func (l *Library) ClearSkipHistory() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.skipped.Clear()
	logger.Debug("Skip history cleared")
}

// RecordAdded marks song as recently added. AddSong does this itself.
func (l *Library) RecordAdded(song *domain.Song) {
	if song == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recentlyAdded.Touch(song)
}

// RecentlyAddedSnapshot returns up to limit songs, newest first. A negative
// limit returns the whole window.
func (l *Library) RecentlyAddedSnapshot(limit int) []*domain.Song {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recentlyAdded.Snapshot(limit)
}

func (l *Library) RecentlyAddedByGenre(genre string, limit int) []*domain.Song {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recentlyAdded.FilterByGenre(genre, limit)
}

func (l *Library) RecentlyAddedGenres() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recentlyAdded.GenreBreakdown()
}

func (l *Library) LastAdded() (*domain.Song, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recentlyAdded.Front()
}

func (l *Library) RecentlyAddedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recentlyAdded.Len()
}

func (l *Library) RecentlyAddedCapacity() int {
	return l.recentlyAdded.Cap()
}

func (l *Library) ClearRecentlyAdded() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recentlyAdded.Clear()
	logger.Debug("Recently added history cleared")
}

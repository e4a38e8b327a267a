package library

import (
	"fmt"

	"github.com/playwise/playwise/internal/domain"
	"github.com/playwise/playwise/internal/logger"
	"github.com/playwise/playwise/internal/playlist"
	"github.com/playwise/playwise/internal/replay"
)

// PlaybackResult describes a full pass over the playlist and the replay it
// triggered, if any.
type PlaybackResult struct {
	Played []*domain.Song     `json:"played"`
	Replay []replay.Candidate `json:"replay,omitempty"`
}

// StepResult is a single navigation step. Replay is only populated when a
// forward step exhausted the playlist.
type StepResult struct {
	playlist.Step
	Replay []replay.Candidate `json:"replay,omitempty"`
}

// RecordPlay counts a play of song and pushes it onto the history.
func (l *Library) RecordPlay(song *domain.Song) {
	if song == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recordPlay(song)
}

func (l *Library) recordPlay(song *domain.Song) {
	l.playCounts[song.Title]++
	l.history.Record(song)
}

// PlayByTitle records a play of the song titled title and returns its new
// play count.
func (l *Library) PlayByTitle(title string) (*domain.Song, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	song, ok := l.titles.Get(title)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", domain.ErrSongNotFound, title)
	}
	l.recordPlay(song)
	return song, l.playCounts[song.Title], nil
}

// UndoLastPlay pops the most recent play. Play counts are left as they are.
func (l *Library) UndoLastPlay() (*domain.Song, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.history.UndoLast()
}

// RecentlyPlayed returns up to n plays, most recent first. n <= 0 uses the
// configured default.
func (l *Library) RecentlyPlayed(n int) []*domain.Song {
	if n <= 0 {
		n = l.opts.RecentPlays
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.history.Recent(n)
}

func (l *Library) HistoryLen() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.history.Len()
}

func (l *Library) PlayCount(title string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.playCounts[title]
}

// PlayCounts returns a copy of the play count table.
func (l *Library) PlayCounts() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := make(map[string]int, len(l.playCounts))
	for title, n := range l.playCounts {
		counts[title] = n
	}
	return counts
}

// PlayAll plays the whole playlist from the head. When auto replay is
// enabled the exhausted playlist immediately starts a calming replay.
func (l *Library) PlayAll() PlaybackResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := PlaybackResult{Played: l.player.PlayAll()}
	logger.Debug("Played full playlist", logger.Int("songs", len(result.Played)))

	if l.opts.AutoReplay {
		result.Replay = l.autoReplay()
	}
	return result
}

func (l *Library) Next() StepResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := StepResult{Step: l.player.Next()}
	if result.Exhausted && l.opts.AutoReplay {
		result.Replay = l.autoReplay()
	}
	return result
}

func (l *Library) Previous() playlist.Step {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.player.Previous()
}

// CurrentSong returns the song under the player cursor.
func (l *Library) CurrentSong() (*domain.Song, int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.player.Current()
}

func (l *Library) PlayerState() playlist.PlayerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.player.State()
}

// SelectAutoReplayCandidates ranks the calming songs in the playlist
// without side effects.
func (l *Library) SelectAutoReplayCandidates() []replay.Candidate {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selectCandidates()
}

// StartAutoReplay plays each candidate once, in order.
func (l *Library) StartAutoReplay(songs []*domain.Song) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.startReplay(songs)
}

func (l *Library) selectCandidates() []replay.Candidate {
	return l.selector.Select(l.playlist.Songs(), l.playCounts, l.skipped)
}

func (l *Library) startReplay(songs []*domain.Song) {
	for _, song := range songs {
		if song != nil {
			l.recordPlay(song)
		}
	}
}

func (l *Library) autoReplay() []replay.Candidate {
	candidates := l.selectCandidates()
	if len(candidates) == 0 {
		logger.Debug("No calming songs available for auto replay")
		return nil
	}

	l.startReplay(replay.Songs(candidates))
	titles := make([]string, len(candidates))
	for i, c := range candidates {
		titles[i] = c.Song.Title
	}
	logger.Info("Auto replay started", logger.Strings("titles", titles))
	return candidates
}

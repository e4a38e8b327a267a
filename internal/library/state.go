package library

import (
	"fmt"

	"github.com/playwise/playwise/internal/domain"
	"github.com/playwise/playwise/internal/logger"
)

// Snapshot captures the full library state. Ordered lists are most recent
// first, the same way the library reports them.
func (l *Library) Snapshot() *domain.State {
	l.mu.Lock()
	defer l.mu.Unlock()

	state := domain.NewState()
	for _, song := range l.playlist.Songs() {
		state.Songs = append(state.Songs, domain.RecordOf(song))
	}
	for title, n := range l.playCounts {
		state.PlayCounts[title] = n
	}
	for _, rc := range l.ratings.CountsByRating() {
		for _, song := range l.ratings.SongsWithRating(rc.Rating) {
			state.Ratings = append(state.Ratings, domain.RatingRecord{Title: song.Title, Rating: rc.Rating})
		}
	}
	state.History = titlesOf(l.history.All())
	state.Skipped = titlesOf(l.skipped.Snapshot(-1))
	state.RecentlyAdded = titlesOf(l.recentlyAdded.Snapshot(-1))
	return state
}

// Restore rehydrates an empty library from state. Songs are added first so
// that every later reference resolves by title; references to unknown
// titles are dropped.
func (l *Library) Restore(state *domain.State) error {
	if state == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.playlist.IsEmpty() || l.history.Len() > 0 {
		return domain.NewDomainError(domain.ErrCodeAlreadyExists, "restore requires an empty library", domain.ErrAlreadyExists)
	}

	for i, rec := range state.Songs {
		song, err := domain.NewSong(rec.Title, rec.Artist, rec.Genre, rec.Duration)
		if err != nil {
			return domain.NewDomainErrorWithDetails(domain.ErrCodeStateCorrupted,
				"invalid song record", fmt.Sprintf("entry %d", i), fmt.Errorf("%w: %v", domain.ErrStateCorrupted, err))
		}
		l.playlist.Append(song)
		l.titles.Put(song)
	}

	dropped := 0
	for title, n := range state.PlayCounts {
		if _, ok := l.titles.Get(title); !ok || n < 0 {
			dropped++
			continue
		}
		l.playCounts[title] = n
	}

	for _, rec := range state.Ratings {
		song, ok := l.titles.Get(rec.Title)
		if !ok || !domain.ValidRating(rec.Rating) {
			dropped++
			continue
		}
		l.ratings.Rate(song, rec.Rating)
	}

	// Lists are stored newest first and replayed oldest first.
	for i := len(state.History) - 1; i >= 0; i-- {
		if song, ok := l.titles.Get(state.History[i]); ok {
			l.history.Record(song)
		} else {
			dropped++
		}
	}
	for i := len(state.Skipped) - 1; i >= 0; i-- {
		if song, ok := l.titles.Get(state.Skipped[i]); ok {
			l.skipped.Touch(song)
		} else {
			dropped++
		}
	}
	for i := len(state.RecentlyAdded) - 1; i >= 0; i-- {
		if song, ok := l.titles.Get(state.RecentlyAdded[i]); ok {
			l.recentlyAdded.Touch(song)
		} else {
			dropped++
		}
	}

	l.player.Invalidate()

	logger.Info("Library restored",
		logger.Int("songs", len(state.Songs)),
		logger.Int("history", l.history.Len()),
		logger.Int("dropped_references", dropped),
	)
	return nil
}

func titlesOf(songs []*domain.Song) []string {
	titles := make([]string, len(songs))
	for i, song := range songs {
		titles[i] = song.Title
	}
	return titles
}

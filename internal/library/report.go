package library

import (
	"fmt"
	"sort"
	"strings"

	"github.com/playwise/playwise/internal/domain"
	"github.com/playwise/playwise/internal/index"
)

type SortKey string

const (
	SortNone     SortKey = ""
	SortTitle    SortKey = "title"
	SortDuration SortKey = "duration"
)

const reportTopN = 5

func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case SortNone, SortTitle, SortDuration:
		return key, nil
	default:
		return SortNone, fmt.Errorf("%w: unknown sort key %q", domain.ErrInvalidInput, s)
	}
}

// TitleCount is one row of the play count table.
type TitleCount struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// Report summarises the library in one pass.
type Report struct {
	TotalSongs     int                 `json:"total_songs"`
	TotalDuration  int                 `json:"total_duration"`
	Longest        []*domain.Song      `json:"longest"`
	RecentlyPlayed []*domain.Song      `json:"recently_played"`
	RatingCounts   []index.RatingCount `json:"rating_counts"`
	PlayCounts     []TitleCount        `json:"play_counts"`
	SkippedCount   int                 `json:"skipped_count"`
	RecentlyAdded  int                 `json:"recently_added"`
	GenreBreakdown map[string]int      `json:"recently_added_genres"`
}

// SortedSongs returns the playlist sorted by key without touching the
// playlist itself. Equal keys keep playlist order.
func (l *Library) SortedSongs(key SortKey) []*domain.Song {
	l.mu.Lock()
	songs := l.playlist.Songs()
	l.mu.Unlock()

	sortSongs(songs, key)
	return songs
}

func sortSongs(songs []*domain.Song, key SortKey) {
	switch key {
	case SortTitle:
		sort.SliceStable(songs, func(i, j int) bool {
			return songs[i].Title < songs[j].Title
		})
	case SortDuration:
		sort.SliceStable(songs, func(i, j int) bool {
			return songs[i].Duration < songs[j].Duration
		})
	}
}

func (l *Library) Report() Report {
	l.mu.Lock()
	defer l.mu.Unlock()

	longest := l.playlist.Songs()
	sort.SliceStable(longest, func(i, j int) bool {
		return longest[i].Duration > longest[j].Duration
	})
	if len(longest) > reportTopN {
		longest = longest[:reportTopN]
	}

	counts := make([]TitleCount, 0, len(l.playCounts))
	for title, n := range l.playCounts {
		counts = append(counts, TitleCount{Title: title, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Title < counts[j].Title
	})

	return Report{
		TotalSongs:     l.playlist.Len(),
		TotalDuration:  l.playlist.TotalDuration(),
		Longest:        longest,
		RecentlyPlayed: l.history.Recent(reportTopN),
		RatingCounts:   l.ratings.CountsByRating(),
		PlayCounts:     counts,
		SkippedCount:   l.skipped.Len(),
		RecentlyAdded:  l.recentlyAdded.Len(),
		GenreBreakdown: l.recentlyAdded.GenreBreakdown(),
	}
}

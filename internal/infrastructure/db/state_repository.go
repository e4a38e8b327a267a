package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/playwise/playwise/internal/domain"
)

const (
	listHistory       = "history"
	listSkipped       = "skipped"
	listRecentlyAdded = "recently_added"
)

type songRow struct {
	ID       uint   `gorm:"primaryKey"`
	Position int    `gorm:"not null"`
	Title    string `gorm:"not null"`
	Artist   string
	Genre    string
	Duration int
}

func (songRow) TableName() string { return "songs" }

type playCountRow struct {
	Title string `gorm:"primaryKey"`
	Count int    `gorm:"not null"`
}

func (playCountRow) TableName() string { return "play_counts" }

type ratingRow struct {
	ID     uint   `gorm:"primaryKey"`
	Seq    int    `gorm:"not null"`
	Title  string `gorm:"not null"`
	Rating int    `gorm:"not null"`
}

func (ratingRow) TableName() string { return "ratings" }

// listEntryRow stores one title of an ordered list. Seq 0 is the most
// recent entry.
type listEntryRow struct {
	ID    uint   `gorm:"primaryKey"`
	List  string `gorm:"not null"`
	Seq   int    `gorm:"not null"`
	Title string `gorm:"not null"`
}

func (listEntryRow) TableName() string { return "list_entries" }

// StateRepository keeps the latest library snapshot in SQLite. Every Save
// replaces the previous snapshot in one transaction.
type StateRepository struct {
	db *gorm.DB
}

func NewStateRepository(database *Database) domain.StateRepository {
	return &StateRepository{
		db: database.DB(),
	}
}

func (r *StateRepository) Save(state *domain.State) error {
	if state == nil {
		state = domain.NewState()
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&songRow{}, &playCountRow{}, &ratingRow{}, &listEntryRow{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}

		songs := make([]songRow, len(state.Songs))
		for i, s := range state.Songs {
			songs[i] = songRow{Position: i, Title: s.Title, Artist: s.Artist, Genre: s.Genre, Duration: s.Duration}
		}
		if len(songs) > 0 {
			if err := tx.CreateInBatches(songs, 100).Error; err != nil {
				return err
			}
		}

		counts := make([]playCountRow, 0, len(state.PlayCounts))
		for title, n := range state.PlayCounts {
			counts = append(counts, playCountRow{Title: title, Count: n})
		}
		if len(counts) > 0 {
			if err := tx.CreateInBatches(counts, 100).Error; err != nil {
				return err
			}
		}

		ratings := make([]ratingRow, len(state.Ratings))
		for i, rr := range state.Ratings {
			ratings[i] = ratingRow{Seq: i, Title: rr.Title, Rating: rr.Rating}
		}
		if len(ratings) > 0 {
			if err := tx.CreateInBatches(ratings, 100).Error; err != nil {
				return err
			}
		}

		var entries []listEntryRow
		entries = appendList(entries, listHistory, state.History)
		entries = appendList(entries, listSkipped, state.Skipped)
		entries = appendList(entries, listRecentlyAdded, state.RecentlyAdded)
		if len(entries) > 0 {
			if err := tx.CreateInBatches(entries, 100).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func appendList(entries []listEntryRow, list string, titles []string) []listEntryRow {
	for i, title := range titles {
		entries = append(entries, listEntryRow{List: list, Seq: i, Title: title})
	}
	return entries
}

func (r *StateRepository) Load() (*domain.State, error) {
	state := domain.NewState()

	var songs []songRow
	if err := r.db.Order("position").Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to load songs: %w", err)
	}
	for _, s := range songs {
		state.Songs = append(state.Songs, domain.SongRecord{Title: s.Title, Artist: s.Artist, Genre: s.Genre, Duration: s.Duration})
	}

	var counts []playCountRow
	if err := r.db.Find(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to load play counts: %w", err)
	}
	for _, c := range counts {
		state.PlayCounts[c.Title] = c.Count
	}

	var ratings []ratingRow
	if err := r.db.Order("seq").Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	for _, rr := range ratings {
		state.Ratings = append(state.Ratings, domain.RatingRecord{Title: rr.Title, Rating: rr.Rating})
	}

	var entries []listEntryRow
	if err := r.db.Order("list, seq").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load lists: %w", err)
	}
	for _, e := range entries {
		switch e.List {
		case listHistory:
			state.History = append(state.History, e.Title)
		case listSkipped:
			state.Skipped = append(state.Skipped, e.Title)
		case listRecentlyAdded:
			state.RecentlyAdded = append(state.RecentlyAdded, e.Title)
		default:
			return nil, fmt.Errorf("%w: list %q", domain.ErrUnknownSection, e.List)
		}
	}

	return state, nil
}

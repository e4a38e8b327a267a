package domain

// State is a full snapshot of the library, suitable for handing to a
// persistence adapter and for rehydrating a fresh library.
//
// Every list that refers to songs does so by title. History, Skipped and
// RecentlyAdded are ordered most-recent-first, exactly as the library
// reports them.
type State struct {
	Songs         []SongRecord   `json:"songs" toml:"songs"`
	PlayCounts    map[string]int `json:"play_counts" toml:"play_counts"`
	Ratings       []RatingRecord `json:"ratings" toml:"ratings"`
	History       []string       `json:"history" toml:"history"`
	Skipped       []string       `json:"skipped" toml:"skipped"`
	RecentlyAdded []string       `json:"recently_added" toml:"recently_added"`
}

type SongRecord struct {
	Title    string `json:"title" toml:"title"`
	Artist   string `json:"artist" toml:"artist"`
	Genre    string `json:"genre" toml:"genre"`
	Duration int    `json:"duration" toml:"duration"`
}

type RatingRecord struct {
	Title  string `json:"title" toml:"title"`
	Rating int    `json:"rating" toml:"rating"`
}

func NewState() *State {
	return &State{
		Songs:         make([]SongRecord, 0),
		PlayCounts:    make(map[string]int),
		Ratings:       make([]RatingRecord, 0),
		History:       make([]string, 0),
		Skipped:       make([]string, 0),
		RecentlyAdded: make([]string, 0),
	}
}

func RecordOf(s *Song) SongRecord {
	return SongRecord{
		Title:    s.Title,
		Artist:   s.Artist,
		Genre:    s.Genre,
		Duration: s.Duration,
	}
}

// IsEmpty reports whether the snapshot carries no songs. A state without
// songs cannot reference anything, so the derived sections are ignored.
func (s *State) IsEmpty() bool {
	return s == nil || len(s.Songs) == 0
}

// StateRepository persists and loads full library snapshots.
type StateRepository interface {
	Save(state *State) error
	Load() (*State, error)
}

package playlist

import (
	"github.com/playwise/playwise/internal/domain"
)

type PlayerState int

const (
	StateStopped PlayerState = iota
	StatePlaying
)

func (s PlayerState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	default:
		return "stopped"
	}
}

// NoPosition is the cursor value when nothing has been played yet or the
// cursor was invalidated.
const NoPosition = -1

// PlayRecorder receives every play event the player produces.
type PlayRecorder interface {
	RecordPlay(song *domain.Song)
}

// Step is the outcome of a single navigation request.
type Step struct {
	Song     *domain.Song `json:"song,omitempty"`
	Position int          `json:"position"`
	Advanced bool         `json:"advanced"`
	// Exhausted is set when a forward step found nothing left to play.
	Exhausted bool `json:"exhausted"`
}

// Player walks a Playlist with a cursor. It never mutates the playlist.
type Player struct {
	playlist *Playlist
	recorder PlayRecorder
	state    PlayerState
	position int
	current  *domain.Song
}

// NewPlayer creates a stopped player positioned before the first song
func NewPlayer(playlist *Playlist, recorder PlayRecorder) *Player {
	return &Player{
		playlist: playlist,
		recorder: recorder,
		state:    StateStopped,
		position: NoPosition,
	}
}

// PlayAll plays every position from head to tail, recording each as a
// play, and finishes stopped. It returns the songs played in order; the
// playlist is always exhausted afterwards.
func (p *Player) PlayAll() []*domain.Song {
	songs := p.playlist.Songs()
	for i, song := range songs {
		p.position = i
		p.current = song
		p.state = StatePlaying
		p.record(song)
	}
	p.state = StateStopped
	return songs
}

// Next advances the cursor by one.
func (p *Player) Next() Step {
	if p.playlist.IsEmpty() || p.position+1 >= p.playlist.Len() {
		return Step{Song: p.current, Position: p.position, Exhausted: true}
	}
	return p.moveTo(p.position + 1)
}

// Previous moves the cursor back by one. Stepping back is a play event.
func (p *Player) Previous() Step {
	if p.playlist.IsEmpty() || p.position <= 0 {
		return Step{Song: p.current, Position: p.position}
	}
	return p.moveTo(p.position - 1)
}

func (p *Player) moveTo(position int) Step {
	song, ok := p.playlist.At(position)
	if !ok {
		return Step{Song: p.current, Position: p.position}
	}

	p.position = position
	p.current = song
	p.state = StatePlaying
	p.record(song)

	return Step{Song: song, Position: position, Advanced: true}
}

// Current returns the song under the cursor while playing.
func (p *Player) Current() (*domain.Song, int, bool) {
	if p.current == nil || p.state != StatePlaying {
		return nil, NoPosition, false
	}
	if p.position < 0 || p.position >= p.playlist.Len() {
		return nil, NoPosition, false
	}
	return p.current, p.position, true
}

// Invalidate drops the cursor so the next step starts from the head.
func (p *Player) Invalidate() {
	p.position = NoPosition
	p.current = nil
	p.state = StateStopped
}

func (p *Player) Stop() {
	p.state = StateStopped
}

func (p *Player) State() PlayerState {
	return p.state
}

func (p *Player) Position() int {
	return p.position
}

func (p *Player) record(song *domain.Song) {
	if p.recorder != nil {
		p.recorder.RecordPlay(song)
	}
}

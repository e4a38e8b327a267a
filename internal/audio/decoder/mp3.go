package decoder

import (
	"fmt"
	"io"

	"github.com/dhowden/tag"
	"github.com/hajimehoshi/go-mp3"
)

type MP3Prober struct{}

func (MP3Prober) Format() string {
	return "mp3"
}

// Probe reads ID3 tags, then walks the MP3 frames to find the length.
func (p MP3Prober) Probe(r io.ReadSeeker) (*Metadata, error) {
	metadata := &Metadata{Format: p.Format()}
	readTags(r, metadata)

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	// go-mp3 always decodes to 16-bit stereo
	metadata.SampleRate = decoder.SampleRate()
	metadata.Channels = 2
	metadata.Duration = sampleDuration(decoder.Length()/4, decoder.SampleRate())
	return metadata, nil
}

// readTags fills the tag fields it can find. Files without tags are not an
// error.
func readTags(r io.ReadSeeker, metadata *Metadata) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return
	}
	m, err := tag.ReadFrom(r)
	if err != nil {
		return
	}

	if metadata.Title == "" {
		metadata.Title = m.Title()
	}
	if metadata.Artist == "" {
		metadata.Artist = m.Artist()
	}
	if metadata.Album == "" {
		metadata.Album = m.Album()
	}
	if metadata.Genre == "" {
		metadata.Genre = m.Genre()
	}
	if metadata.Year == 0 {
		metadata.Year = m.Year()
	}
	if track, _ := m.Track(); track > 0 && metadata.TrackNumber == 0 {
		metadata.TrackNumber = track
	}
}

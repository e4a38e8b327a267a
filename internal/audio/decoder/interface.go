// Package decoder reads just enough of an audio file to catalogue it: its
// tags and its playing time. No samples are decoded.
package decoder

import (
	"errors"
	"io"
	"time"

	"github.com/playwise/playwise/internal/domain"
)

var (
	ErrUnsupportedFormat = domain.ErrUnsupportedFormat
	ErrInvalidData       = errors.New("invalid audio data")
)

// Metadata contains the catalogue fields extracted from an audio file
type Metadata struct {
	Title       string
	Artist      string
	Album       string
	Genre       string
	Year        int
	TrackNumber int
	Duration    time.Duration
	SampleRate  int
	Channels    int
	Format      string
}

// Seconds returns the duration rounded to whole seconds.
func (m *Metadata) Seconds() int {
	if m == nil || m.Duration <= 0 {
		return 0
	}
	return int(m.Duration.Round(time.Second) / time.Second)
}

// Prober extracts Metadata for one container format
type Prober interface {
	// Probe reads tags and stream info from r. r is left at an
	// unspecified offset.
	Probe(r io.ReadSeeker) (*Metadata, error)

	// Format names the container, e.g. "mp3"
	Format() string
}

func sampleDuration(samples int64, sampleRate int) time.Duration {
	if sampleRate <= 0 || samples <= 0 {
		return 0
	}
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}

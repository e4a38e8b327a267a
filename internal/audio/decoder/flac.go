package decoder

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/meta"
)

type FLACProber struct{}

func (FLACProber) Format() string {
	return "flac"
}

// Probe parses the FLAC metadata blocks. Frames are never read.
func (p FLACProber) Probe(r io.ReadSeeker) (*Metadata, error) {
	stream, err := flac.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	info := stream.Info
	metadata := &Metadata{
		Format:     p.Format(),
		SampleRate: int(info.SampleRate),
		Channels:   int(info.NChannels),
		Duration:   sampleDuration(int64(info.NSamples), int(info.SampleRate)),
	}

	for _, block := range stream.Blocks {
		comment, ok := block.Body.(*meta.VorbisComment)
		if !ok {
			continue
		}
		for _, tag := range comment.Tags {
			applyVorbisTag(metadata, tag[0], tag[1])
		}
	}

	if metadata.Title == "" {
		readTags(r, metadata)
	}
	return metadata, nil
}

func applyVorbisTag(metadata *Metadata, key, value string) {
	switch strings.ToUpper(key) {
	case "TITLE":
		metadata.Title = value
	case "ARTIST":
		metadata.Artist = value
	case "ALBUM":
		metadata.Album = value
	case "GENRE":
		metadata.Genre = value
	case "DATE", "YEAR":
		if len(value) >= 4 {
			metadata.Year, _ = strconv.Atoi(value[:4])
		}
	case "TRACKNUMBER":
		// "3/12" style numbers keep only the track
		n, _, _ := strings.Cut(value, "/")
		metadata.TrackNumber, _ = strconv.Atoi(n)
	}
}

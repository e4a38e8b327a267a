// Package textfile reads and writes library snapshots as files: the
// sectioned legacy text format, JSON and TOML.
package textfile

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/playwise/playwise/internal/domain"
)

const (
	sectionSongs         = "[SONGS]"
	sectionPlayCounts    = "[PLAY_COUNTS]"
	sectionRatings       = "[RATINGS]"
	sectionHistory       = "[HISTORY]"
	sectionSkipped       = "[SKIPPED]"
	sectionRecentlyAdded = "[RECENT_ADDED]"
	sectionEnd           = "[END]"
)

// Encode writes state in the legacy sectioned format. Rows are comma
// separated. Fields holding a comma or quote are quoted, and so are fields
// starting with '[' so a title never reads back as a section header.
func Encode(w io.Writer, state *domain.State) error {
	if state == nil {
		state = domain.NewState()
	}

	bw := bufio.NewWriter(w)
	row := func(fields ...string) {
		for i, f := range fields {
			if i > 0 {
				bw.WriteByte(',')
			}
			writeField(bw, f)
		}
		bw.WriteByte('\n')
	}
	section := func(name string) {
		bw.WriteString(name + "\n")
	}

	section(sectionSongs)
	for _, s := range state.Songs {
		row(s.Title, s.Artist, s.Genre, strconv.Itoa(s.Duration))
	}

	section(sectionPlayCounts)
	titles := make([]string, 0, len(state.PlayCounts))
	for title := range state.PlayCounts {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	for _, title := range titles {
		row(title, strconv.Itoa(state.PlayCounts[title]))
	}

	section(sectionRatings)
	for _, r := range state.Ratings {
		row(r.Title, strconv.Itoa(r.Rating))
	}

	for _, list := range []struct {
		name   string
		titles []string
	}{
		{sectionHistory, state.History},
		{sectionSkipped, state.Skipped},
		{sectionRecentlyAdded, state.RecentlyAdded},
	} {
		section(list.name)
		for _, title := range list.titles {
			row(title)
		}
	}

	section(sectionEnd)
	return bw.Flush()
}

func writeField(w *bufio.Writer, field string) {
	if !fieldNeedsQuotes(field) {
		w.WriteString(field)
		return
	}
	w.WriteByte('"')
	w.WriteString(strings.ReplaceAll(field, `"`, `""`))
	w.WriteByte('"')
}

func fieldNeedsQuotes(field string) bool {
	if field == "" {
		return false
	}
	if strings.ContainsAny(field, ",\"\r\n") || strings.HasPrefix(field, "[") {
		return true
	}
	return strings.TrimSpace(field) != field
}

// Decode parses the legacy sectioned format. Blank lines are ignored and
// anything after [END] is not read.
func Decode(r io.Reader) (*domain.State, error) {
	state := domain.NewState()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	section := ""
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if isSectionHeader(line) {
			switch line {
			case sectionEnd:
				return state, nil
			case sectionSongs, sectionPlayCounts, sectionRatings, sectionHistory, sectionSkipped, sectionRecentlyAdded:
				section = line
				continue
			default:
				return nil, fmt.Errorf("%w: %s at line %d", domain.ErrUnknownSection, line, lineNo)
			}
		}

		fields, err := splitRow(line)
		if err != nil {
			return nil, corrupted(lineNo, err.Error())
		}

		switch section {
		case sectionSongs:
			if len(fields) != 4 {
				return nil, corrupted(lineNo, "song rows need title,artist,genre,duration")
			}
			duration, err := strconv.Atoi(strings.TrimSpace(fields[3]))
			if err != nil {
				return nil, corrupted(lineNo, "duration is not a number")
			}
			state.Songs = append(state.Songs, domain.SongRecord{
				Title: fields[0], Artist: fields[1], Genre: fields[2], Duration: duration,
			})
		case sectionPlayCounts:
			title, n, err := titleAndNumber(fields)
			if err != nil {
				return nil, corrupted(lineNo, err.Error())
			}
			state.PlayCounts[title] = n
		case sectionRatings:
			title, n, err := titleAndNumber(fields)
			if err != nil {
				return nil, corrupted(lineNo, err.Error())
			}
			state.Ratings = append(state.Ratings, domain.RatingRecord{Title: title, Rating: n})
		case sectionHistory:
			state.History = append(state.History, strings.Join(fields, ","))
		case sectionSkipped:
			state.Skipped = append(state.Skipped, strings.Join(fields, ","))
		case sectionRecentlyAdded:
			state.RecentlyAdded = append(state.RecentlyAdded, strings.Join(fields, ","))
		default:
			return nil, corrupted(lineNo, "data before the first section")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return state, nil
}

func isSectionHeader(line string) bool {
	return strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]")
}

func splitRow(line string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.Read()
}

func titleAndNumber(fields []string) (string, int, error) {
	if len(fields) < 2 {
		return "", 0, fmt.Errorf("expected title,number")
	}
	last := len(fields) - 1
	n, err := strconv.Atoi(strings.TrimSpace(fields[last]))
	if err != nil {
		return "", 0, fmt.Errorf("%q is not a number", fields[last])
	}
	return strings.Join(fields[:last], ","), n, nil
}

func corrupted(line int, msg string) error {
	return domain.NewDomainErrorWithDetails(domain.ErrCodeStateCorrupted, msg,
		fmt.Sprintf("line %d", line), domain.ErrStateCorrupted)
}

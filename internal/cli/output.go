package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/playwise/playwise/internal/domain"
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// printer writes either human readable text or JSON to one writer.
type printer struct {
	w    io.Writer
	json bool
}

func (p *printer) JSON(v interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) Heading(title string) {
	fmt.Fprintln(p.w, headingStyle.Render(title))
}

func (p *printer) Muted(format string, args ...interface{}) {
	fmt.Fprintln(p.w, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Songs prints a numbered song table. Positions are the playlist indices
// when positional is set, otherwise rows are numbered from 1.
func (p *printer) Songs(songs []*domain.Song, positional bool) {
	t := NewTableWriter(p.w, "#", "TITLE", "ARTIST", "GENRE", "DURATION")
	for i, s := range songs {
		n := i
		if !positional {
			n = i + 1
		}
		t.Row(strconv.Itoa(n), s.Title, s.Artist, s.Genre, FormatDuration(s.Duration))
	}
	t.Flush()
}

// Table provides a simple table formatter.
type Table struct {
	w       *tabwriter.Writer
	headers []string
}

// NewTableWriter creates a table writing to out.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	t := &Table{
		w:       tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		headers: headers,
	}
	if len(headers) > 0 {
		_, _ = t.w.Write([]byte(strings.Join(headers, "\t") + "\n"))
	}
	return t
}

func (t *Table) Row(values ...string) {
	_, _ = t.w.Write([]byte(strings.Join(values, "\t") + "\n"))
}

func (t *Table) Flush() {
	_ = t.w.Flush()
}

// FormatDuration formats a duration in seconds as mm:ss or hh:mm:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ParseDuration accepts plain seconds, mm:ss or hh:mm:ss.
func ParseDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty duration", domain.ErrInvalidDuration)
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidDuration, s)
	}
	total := 0
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", domain.ErrInvalidDuration, s)
		}
		if i > 0 && n > 59 {
			return 0, fmt.Errorf("%w: %q", domain.ErrInvalidDuration, s)
		}
		total = total*60 + n
	}
	return total, nil
}

// Count renders "1,234 songs" style quantities.
func Count(n int, singular string) string {
	return humanize.Comma(int64(n)) + " " + english.PluralWord(n, singular, "")
}

func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("%w: position %q is not a number", domain.ErrInvalidInput, arg)
	}
	return n, nil
}

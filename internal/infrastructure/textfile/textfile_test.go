package textfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playwise/playwise/internal/domain"
)

const legacyFile = `[SONGS]
Weightless,Marconi Union,Ambient,480
So What,Miles Davis,Jazz,545

[PLAY_COUNTS]
So What,4
[RATINGS]
So What,5
Weightless,5
[HISTORY]
So What
Weightless
[SKIPPED]
Weightless
[RECENT_ADDED]
So What
Weightless
[END]
ignored after end
`

func sampleState() *domain.State {
	state := domain.NewState()
	state.Songs = []domain.SongRecord{
		{Title: "Weightless", Artist: "Marconi Union", Genre: "Ambient", Duration: 480},
		{Title: "So What", Artist: "Miles Davis", Genre: "Jazz", Duration: 545},
	}
	state.PlayCounts = map[string]int{"So What": 4}
	state.Ratings = []domain.RatingRecord{{Title: "So What", Rating: 5}, {Title: "Weightless", Rating: 5}}
	state.History = []string{"So What", "Weightless"}
	state.Skipped = []string{"Weightless"}
	state.RecentlyAdded = []string{"So What", "Weightless"}
	return state
}

func TestDecode_LegacyFile(t *testing.T) {
	state, err := Decode(strings.NewReader(legacyFile))
	require.NoError(t, err)
	assert.Equal(t, sampleState(), state)
}

func TestEncode_MatchesLegacyLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleState()))

	want := strings.Replace(legacyFile, "\n\n", "\n", 1)
	want = strings.TrimSuffix(want, "ignored after end\n")
	assert.Equal(t, want, buf.String())
}

func TestEncodeDecode_QuotesCommas(t *testing.T) {
	state := domain.NewState()
	state.Songs = []domain.SongRecord{{Title: "Hello, Goodbye", Artist: `The "Fab" Four`, Genre: "Pop", Duration: 210}}
	state.PlayCounts = map[string]int{"Hello, Goodbye": 2}
	state.Ratings = []domain.RatingRecord{{Title: "Hello, Goodbye", Rating: 4}}
	state.History = []string{"Hello, Goodbye"}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, state))
	assert.Contains(t, buf.String(), `"Hello, Goodbye","The ""Fab"" Four",Pop,210`)

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

func TestEncodeDecode_BracketedTitles(t *testing.T) {
	state := domain.NewState()
	state.Songs = []domain.SongRecord{
		{Title: "[Intro]", Artist: "Various", Genre: "Ambient", Duration: 60},
		{Title: "[END]", Artist: "[Unknown]", Genre: "Rock", Duration: 90},
		{Title: "Outro", Genre: "Rock", Duration: 120},
	}
	state.PlayCounts = map[string]int{"[Intro]": 2, "[END]": 1}
	state.Ratings = []domain.RatingRecord{{Title: "[END]", Rating: 3}}
	state.History = []string{"[END]", "[Intro]", "[END]"}
	state.Skipped = []string{"[Intro]"}
	state.RecentlyAdded = []string{"Outro", "[END]", "[Intro]"}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, state))
	assert.Contains(t, buf.String(), "[HISTORY]\n\"[END]\"\n\"[Intro]\"\n")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n[END]\n"), "only the closing header is unquoted")

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

func TestDecode_UnquotedCommaInListSection(t *testing.T) {
	state, err := Decode(strings.NewReader("[SONGS]\n[HISTORY]\nHello, Goodbye\n[PLAY_COUNTS]\nHello, Goodbye,3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello, Goodbye"}, state.History)
	assert.Equal(t, map[string]int{"Hello, Goodbye": 3}, state.PlayCounts)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "Unknown section", content: "[SONGS]\n[FAVOURITES]\nx\n", wantErr: domain.ErrUnknownSection},
		{name: "Row before any section", content: "So What,Miles,Jazz,1\n", wantErr: domain.ErrStateCorrupted},
		{name: "Short song row", content: "[SONGS]\nSo What,Miles\n", wantErr: domain.ErrStateCorrupted},
		{name: "Bad duration", content: "[SONGS]\nSo What,Miles,Jazz,long\n", wantErr: domain.ErrStateCorrupted},
		{name: "Bad count", content: "[PLAY_COUNTS]\nSo What,many\n", wantErr: domain.ErrStateCorrupted},
		{name: "Rating without value", content: "[RATINGS]\nSo What\n", wantErr: domain.ErrStateCorrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, domain.IsStateError(err))
		})
	}
}

func TestDecode_EmptyInput(t *testing.T) {
	state, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, state.IsEmpty())
}

func TestWriteRead_Formats(t *testing.T) {
	for _, format := range []Format{FormatText, FormatJSON, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, sampleState(), format))

			got, err := Read(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, sampleState(), got)
		})
	}

	_, err := Read(strings.NewReader("{not json"), FormatJSON)
	assert.ErrorIs(t, err, domain.ErrStateCorrupted)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Format
	}{
		{"", "state.json", FormatJSON},
		{"", "state.TOML", FormatTOML},
		{"", "playwise_data.txt", FormatText},
		{"json", "state.txt", FormatJSON},
		{"TXT", "state.json", FormatText},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.name, tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%q/%q", tt.name, tt.path)
	}

	_, err := ParseFormat("yaml", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "playwise_data.txt")
	repo := NewRepository(path)

	state, err := repo.Load()
	require.NoError(t, err, "missing file loads as empty")
	assert.True(t, state.IsEmpty())

	require.NoError(t, repo.Save(sampleState()))
	got, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")

	require.NoError(t, os.WriteFile(path, []byte("[BOGUS]\n"), 0644))
	_, err = repo.Load()
	assert.ErrorIs(t, err, domain.ErrUnknownSection)
}

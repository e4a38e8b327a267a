package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playwise/playwise/internal/config"
	"github.com/playwise/playwise/internal/domain"
	"github.com/playwise/playwise/internal/infrastructure/textfile"
	"github.com/playwise/playwise/internal/logger"
)

func textConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Storage.Driver = config.DriverText
	cfg.Storage.TextPath = filepath.Join(t.TempDir(), "playwise_data.txt")
	return cfg
}

// execute runs one command line as a fresh process would, reloading the
// library from the configured store.
func execute(t *testing.T, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()
	s := &session{cfg: cfg}
	defer s.close()
	return executeIn(s, "", args...)
}

func executeIn(s *session, stdin string, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	err := run(s, args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), errOut.String(), err
}

func mustExecute(t *testing.T, cfg *config.Config, args ...string) string {
	t.Helper()
	out, errOut, err := execute(t, cfg, args...)
	require.NoError(t, err, errOut)
	return out
}

type listOutput struct {
	Songs         []domain.Song `json:"songs"`
	Total         int           `json:"total"`
	TotalDuration int           `json:"total_duration"`
}

func listTitles(t *testing.T, cfg *config.Config, args ...string) []string {
	t.Helper()
	var list listOutput
	out := mustExecute(t, cfg, append([]string{"list", "--json"}, args...)...)
	require.NoError(t, json.Unmarshal([]byte(out), &list))

	titles := make([]string, len(list.Songs))
	for i, s := range list.Songs {
		titles[i] = s.Title
	}
	return titles
}

func seed(t *testing.T, cfg *config.Config) {
	t.Helper()
	mustExecute(t, cfg, "add", "So What", "Miles Davis", "Jazz", "9:05")
	mustExecute(t, cfg, "add", "Weightless", "Marconi Union", "Ambient", "480")
	mustExecute(t, cfg, "add", "Enter Sandman", "Metallica", "Metal", "331")
}

func TestCLI_AddAndListPersist(t *testing.T) {
	cfg := textConfig(t)

	out := mustExecute(t, cfg, "add", "So What", "Miles Davis", "Jazz", "9:05")
	assert.Contains(t, out, `Added "So What" by Miles Davis at position 0`)
	mustExecute(t, cfg, "add", "Weightless", "Marconi Union", "Ambient", "480")

	var list listOutput
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, cfg, "list", "--json")), &list))
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, 545+480, list.TotalDuration)
	assert.Equal(t, "So What", list.Songs[0].Title)
	assert.Equal(t, 545, list.Songs[0].Duration)

	out = mustExecute(t, cfg, "list")
	assert.Contains(t, out, "Weightless")
	assert.Contains(t, out, "2 songs")
}

func TestCLI_ListSortLeavesPlaylistAlone(t *testing.T) {
	cfg := textConfig(t)
	seed(t, cfg)

	assert.Equal(t, []string{"Enter Sandman", "So What", "Weightless"}, listTitles(t, cfg, "--sort", "title"))
	assert.Equal(t, []string{"Enter Sandman", "Weightless", "So What"}, listTitles(t, cfg, "--sort", "duration"))
	assert.Equal(t, []string{"So What", "Weightless", "Enter Sandman"}, listTitles(t, cfg))

	_, _, err := execute(t, cfg, "list", "--sort", "artist")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCLI_EditPlaylist(t *testing.T) {
	cfg := textConfig(t)
	seed(t, cfg)

	mustExecute(t, cfg, "move", "0", "2")
	assert.Equal(t, []string{"Weightless", "Enter Sandman", "So What"}, listTitles(t, cfg))

	mustExecute(t, cfg, "reverse")
	assert.Equal(t, []string{"So What", "Enter Sandman", "Weightless"}, listTitles(t, cfg))

	mustExecute(t, cfg, "insert", "1", "Blue in Green", "Miles Davis", "Jazz", "5:37")
	assert.Equal(t, []string{"So What", "Blue in Green", "Enter Sandman", "Weightless"}, listTitles(t, cfg))

	out := mustExecute(t, cfg, "delete", "2")
	assert.Contains(t, out, `Deleted "Enter Sandman" from position 2`)
	assert.Equal(t, []string{"So What", "Blue in Green", "Weightless"}, listTitles(t, cfg))

	_, errOut, err := execute(t, cfg, "delete", "9")
	assert.ErrorIs(t, err, domain.ErrInvalidPosition)
	assert.Contains(t, errOut, "Positions start at 0")

	_, _, err = execute(t, cfg, "move", "7", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidPosition)

	_, errOut, err = execute(t, cfg, "delete", "first")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, errOut, "playwise help")
}

func TestCLI_AddRejectsBadInput(t *testing.T) {
	cfg := textConfig(t)

	_, _, err := execute(t, cfg, "add", "So What", "Miles Davis", "Jazz", "long")
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	_, _, err = execute(t, cfg, "add", " ", "Nobody", "Jazz", "10")
	assert.ErrorIs(t, err, domain.ErrInvalidSong)

	_, _, err = execute(t, cfg, "add", "Too", "Few")
	assert.Error(t, err)

	assert.Empty(t, listTitles(t, cfg))
}

func TestCLI_FindAndRatings(t *testing.T) {
	cfg := textConfig(t)
	seed(t, cfg)

	out := mustExecute(t, cfg, "find", "Weightless")
	assert.Contains(t, out, "Weightless by Marconi Union")
	assert.Contains(t, out, "8:00")

	_, errOut, err := execute(t, cfg, "find", "Missing")
	assert.ErrorIs(t, err, domain.ErrSongNotFound)
	assert.Contains(t, errOut, "playwise list")

	mustExecute(t, cfg, "rate", "So What", "5")
	mustExecute(t, cfg, "rate", "Weightless", "5")
	mustExecute(t, cfg, "rate", "Enter Sandman", "3")

	out = mustExecute(t, cfg, "ratings", "5")
	assert.Contains(t, out, "So What")
	assert.Contains(t, out, "Weightless")
	assert.NotContains(t, out, "Enter Sandman")

	_, _, err = execute(t, cfg, "rate", "So What", "6")
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	mustExecute(t, cfg, "unrate", "Weightless", "5")
	_, _, err = execute(t, cfg, "unrate", "Weightless", "5")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var counts []struct {
		Rating int `json:"rating"`
		Count  int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, cfg, "ratings", "--json")), &counts))
	assert.Contains(t, counts, struct {
		Rating int `json:"rating"`
		Count  int `json:"count"`
	}{Rating: 5, Count: 1})
}

func TestCLI_PlayHistoryAndUndo(t *testing.T) {
	cfg := textConfig(t)
	seed(t, cfg)

	out := mustExecute(t, cfg, "play", "So What")
	assert.Contains(t, out, "played 1 time")
	mustExecute(t, cfg, "play", "Weightless")
	out = mustExecute(t, cfg, "play", "So What")
	assert.Contains(t, out, "played 2 times")

	var history struct {
		Recent []domain.Song `json:"recent"`
		Total  int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, cfg, "history", "--json", "-n", "2")), &history))
	assert.Equal(t, 3, history.Total)
	require.Len(t, history.Recent, 2)
	assert.Equal(t, "So What", history.Recent[0].Title)
	assert.Equal(t, "Weightless", history.Recent[1].Title)

	out = mustExecute(t, cfg, "undo")
	assert.Contains(t, out, `Undid play of "So What"`)
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, cfg, "history", "--json")), &history))
	assert.Equal(t, 2, history.Total)
	assert.Equal(t, "Weightless", history.Recent[0].Title)

	_, _, err := execute(t, cfg, "play", "Missing")
	assert.ErrorIs(t, err, domain.ErrSongNotFound)
}

func TestCLI_SkipsAndRecent(t *testing.T) {
	cfg := textConfig(t)
	seed(t, cfg)

	mustExecute(t, cfg, "skip", "Weightless")
	out := mustExecute(t, cfg, "skipped")
	assert.Contains(t, out, "Weightless")
	assert.Contains(t, out, "1 of 10 slots used")

	out = mustExecute(t, cfg, "recent", "--genre", "Jazz")
	assert.Contains(t, out, "So What")
	assert.NotContains(t, out, "Weightless")

	var recent struct {
		Recent []domain.Song `json:"recent"`
	}
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, cfg, "recent", "--json", "-n", "1")), &recent))
	require.Len(t, recent.Recent, 1)
	assert.Equal(t, "Enter Sandman", recent.Recent[0].Title)

	var genres map[string]int
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, cfg, "recent", "--genres", "--json")), &genres))
	assert.Equal(t, map[string]int{"Jazz": 1, "Ambient": 1, "Metal": 1}, genres)

	mustExecute(t, cfg, "clear-skips")
	assert.Contains(t, mustExecute(t, cfg, "skipped"), "No recently skipped songs")
	mustExecute(t, cfg, "clear-recent")
	assert.Contains(t, mustExecute(t, cfg, "recent"), "No recently added songs")
}

func TestCLI_Replay(t *testing.T) {
	cfg := textConfig(t)
	seed(t, cfg)
	mustExecute(t, cfg, "play", "Weightless")
	mustExecute(t, cfg, "play", "Weightless")
	mustExecute(t, cfg, "play", "So What")
	mustExecute(t, cfg, "play", "Enter Sandman")

	var dry struct {
		Candidates []struct {
			Song      domain.Song `json:"song"`
			PlayCount int         `json:"play_count"`
		} `json:"candidates"`
		Played bool `json:"played"`
	}
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, cfg, "replay", "--dry-run", "--json")), &dry))
	assert.False(t, dry.Played)
	require.Len(t, dry.Candidates, 2)
	assert.Equal(t, "Weightless", dry.Candidates[0].Song.Title)
	assert.Equal(t, 2, dry.Candidates[0].PlayCount)
	assert.Equal(t, "So What", dry.Candidates[1].Song.Title)

	out := mustExecute(t, cfg, "replay")
	assert.Contains(t, out, "↻ Weightless (Ambient)")
	assert.Contains(t, mustExecute(t, cfg, "find", "Weightless"), "Plays:    3")

	mustExecute(t, cfg, "skip", "Weightless")
	out = mustExecute(t, cfg, "replay", "--dry-run")
	assert.NotContains(t, out, "Weightless")
	assert.Contains(t, out, "So What")
}

func TestCLI_PlayAllTriggersReplay(t *testing.T) {
	cfg := textConfig(t)
	seed(t, cfg)

	out := mustExecute(t, cfg, "play-all")
	assert.Contains(t, out, "▶ 0. So What by Miles Davis")
	assert.Contains(t, out, "▶ 2. Enter Sandman by Metallica")
	assert.Contains(t, out, "Auto replay")
	assert.Contains(t, out, "↻ So What (Jazz)")
	assert.NotContains(t, out, "↻ Enter Sandman")
}

func TestCLI_Report(t *testing.T) {
	cfg := textConfig(t)
	seed(t, cfg)
	mustExecute(t, cfg, "play", "So What")
	mustExecute(t, cfg, "rate", "So What", "4")

	out := mustExecute(t, cfg, "report")
	assert.Contains(t, out, "3 songs")
	assert.Contains(t, out, "Longest songs")
	assert.Contains(t, out, "Play counts")
	assert.Contains(t, out, "★★★★☆")

	var report struct {
		TotalSongs    int `json:"total_songs"`
		TotalDuration int `json:"total_duration"`
		Longest       []domain.Song
	}
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, cfg, "report", "--json")), &report))
	assert.Equal(t, 3, report.TotalSongs)
	assert.Equal(t, 545+480+331, report.TotalDuration)
	require.NotEmpty(t, report.Longest)
	assert.Equal(t, "So What", report.Longest[0].Title)
	assert.NotContains(t, out, "Storage", "the text store has no row counts")
}

func TestCLI_ShellKeepsCursor(t *testing.T) {
	cfg := textConfig(t)
	s := &session{cfg: cfg}
	defer s.close()

	script := strings.Join([]string{
		`add "So What" "Miles Davis" Jazz 9:05`,
		`add Weightless "Marconi Union" Ambient 480`,
		``,
		`# comments are ignored`,
		`next`,
		`next`,
		`current`,
		`previous`,
		`find "So What"`,
		`find Missing`,
		`next`,
		`next`,
		`exit`,
		`add Never Reached Rock 1`,
	}, "\n")

	out, errOut, err := executeIn(s, script, "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "▶ 0. So What by Miles Davis")
	assert.Contains(t, out, "▶ 1. Weightless by Marconi Union (8:00)")
	assert.Contains(t, out, "So What by Miles Davis\n")
	assert.Contains(t, out, "End of playlist")
	assert.Contains(t, out, "↻ So What (Jazz)")
	assert.Contains(t, errOut, "song not found")

	assert.Equal(t, []string{"So What", "Weightless"}, listTitles(t, cfg))
}

func TestCLI_ShellFollowsLogLevelChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeLevel := func(level string) error {
		content := "storage:\n  driver: none\nlog:\n  console: false\n  level: " + level + "\n"
		return os.WriteFile(path, []byte(content), 0644)
	}
	require.NoError(t, writeLevel("error"))

	logger.Initialize(logger.Config{Level: "info"})
	t.Cleanup(func() { logger.Initialize(logger.DefaultConfig()) })

	in, feed := io.Pipe()
	s := &session{}
	defer s.close()

	done := make(chan error, 1)
	go func() {
		done <- run(s, []string{"--config", path, "shell"}, in, io.Discard, io.Discard)
	}()

	require.Eventually(t, func() bool {
		return logger.Get().GetLevel() == "error"
	}, 5*time.Second, 20*time.Millisecond, "shell did not load the config")

	require.Eventually(t, func() bool {
		_ = writeLevel("debug")
		return logger.Get().GetLevel() == "debug"
	}, 5*time.Second, 100*time.Millisecond, "config edit was not applied")

	require.NoError(t, feed.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("shell did not exit")
	}
}

func TestCLI_Export(t *testing.T) {
	cfg := textConfig(t)
	seed(t, cfg)
	mustExecute(t, cfg, "rate", "So What", "5")

	dir := t.TempDir()
	for _, name := range []string{"state.json", "state.toml", "state.txt"} {
		path := filepath.Join(dir, name)
		mustExecute(t, cfg, "export", path)

		state, err := textfile.ReadFile(path, textfile.DetectFormat(path))
		require.NoError(t, err, name)
		assert.Len(t, state.Songs, 3, name)
		assert.Equal(t, []domain.RatingRecord{{Title: "So What", Rating: 5}}, state.Ratings, name)
	}

	out := mustExecute(t, cfg, "export", "-", "--format", "text")
	assert.True(t, strings.HasPrefix(out, "[SONGS]\nSo What,Miles Davis,Jazz,545\n"))

	_, _, err := execute(t, cfg, "export", filepath.Join(dir, "state.yaml"), "--format", "yaml")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCLI_ImportMissingDirectory(t *testing.T) {
	cfg := textConfig(t)
	_, errOut, err := execute(t, cfg, "import", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
	assert.Contains(t, errOut, "[NOT_FOUND] import root does not exist")
	assert.Contains(t, errOut, "Check that the path exists.")
}

func TestCLI_AutoSaveOff(t *testing.T) {
	cfg := textConfig(t)
	cfg.Storage.AutoSave = false

	mustExecute(t, cfg, "add", "So What", "Miles Davis", "Jazz", "545")
	assert.Empty(t, listTitles(t, cfg))

	s := &session{cfg: cfg}
	_, _, err := executeIn(s, "add Weightless Marconi Ambient 480\nsave\n", "shell")
	require.NoError(t, err)
	assert.Equal(t, []string{"Weightless"}, listTitles(t, cfg))
}

func TestCLI_StorageNone(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage.Driver = config.DriverNone

	mustExecute(t, cfg, "add", "So What", "Miles Davis", "Jazz", "545")
	assert.Empty(t, listTitles(t, cfg))

	_, errOut, err := execute(t, cfg, "save")
	assert.ErrorIs(t, err, domain.ErrStorageDisabled)
	assert.Contains(t, errOut, "storage.driver")

	_, _, err = execute(t, cfg, "backup", filepath.Join(t.TempDir(), "copy.db"))
	assert.ErrorIs(t, err, domain.ErrStorageDisabled)
}

func TestCLI_SQLiteDriver(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage.Driver = config.DriverSQLite
	cfg.Storage.DatabasePath = filepath.Join(t.TempDir(), "playwise.db")

	seed(t, cfg)
	mustExecute(t, cfg, "play", "Weightless")
	mustExecute(t, cfg, "move", "2", "0")

	assert.Equal(t, []string{"Enter Sandman", "So What", "Weightless"}, listTitles(t, cfg))
	assert.Contains(t, mustExecute(t, cfg, "find", "Weightless"), "Plays:    1")

	out := mustExecute(t, cfg, "report")
	assert.Contains(t, out, "Storage")
	assert.Regexp(t, `songs\s+3`, out)
	assert.Regexp(t, `play_counts\s+1`, out)

	var report struct {
		TotalSongs int              `json:"total_songs"`
		Storage    map[string]int64 `json:"storage"`
	}
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, cfg, "report", "--json")), &report))
	assert.Equal(t, 3, report.TotalSongs)
	assert.Equal(t, int64(3), report.Storage["songs"])

	backup := filepath.Join(t.TempDir(), "backup.db")
	assert.Contains(t, mustExecute(t, cfg, "backup", backup), "Backed up")

	cfg.Storage.DatabasePath = backup
	assert.Equal(t, []string{"Enter Sandman", "So What", "Weightless"}, listTitles(t, cfg))
}

func TestCLI_Config(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "storage:\n  driver: text\n  text_path: " + filepath.Join(dir, "state.txt") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	executeWithFile := func(args ...string) (string, string, error) {
		s := &session{}
		defer s.close()
		return executeIn(s, "", append([]string{"--config", path}, args...)...)
	}

	out, errOut, err := executeWithFile("config", "get", "storage.driver")
	require.NoError(t, err, errOut)
	assert.Equal(t, "text\n", out)

	out, errOut, err = executeWithFile("config", "set", "library.skip_window", "4")
	require.NoError(t, err, errOut)
	assert.Contains(t, out, "Set library.skip_window = 4 in "+path)

	saved, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, saved.Library.SkipWindow)
	assert.Equal(t, config.DriverText, saved.Storage.Driver)

	out, _, err = executeWithFile("config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	out, _, err = executeWithFile("config", "get", "--json")
	require.NoError(t, err)
	var values map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &values))
	assert.Equal(t, "text", values["storage.driver"])

	_, _, err = executeWithFile("config", "set", "replay.limit", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = executeWithFile("config", "get", "replay.volume")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, statErr := os.Stat(filepath.Join(dir, "state.txt"))
	assert.True(t, os.IsNotExist(statErr), "config commands leave the library alone")
}

func TestCLI_Version(t *testing.T) {
	cfg := textConfig(t)
	out := mustExecute(t, cfg, "version")
	assert.Contains(t, out, "playwise dev")
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{``, nil},
		{`   `, nil},
		{`# note`, nil},
		{`list`, []string{"list"}},
		{`list  --sort   title`, []string{"list", "--sort", "title"}},
		{`add "So What" "Miles Davis" Jazz 9:05`, []string{"add", "So What", "Miles Davis", "Jazz", "9:05"}},
		{`find "Say ""Hi"""`, []string{"find", `Say "Hi"`}},
	}

	for _, tt := range tests {
		got, err := splitLine(tt.line)
		require.NoError(t, err, tt.line)
		if tt.want == nil {
			assert.Empty(t, got, tt.line)
			continue
		}
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"545", 545, false},
		{"9:05", 545, false},
		{"1:00:00", 3600, false},
		{"0", 0, false},
		{"", 0, true},
		{"-3", 0, true},
		{"1:75", 0, true},
		{"1:2:3:4", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, domain.ErrInvalidDuration, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatDurationAndCount(t *testing.T) {
	assert.Equal(t, "9:05", FormatDuration(545))
	assert.Equal(t, "1:00:00", FormatDuration(3600))
	assert.Equal(t, "0:00", FormatDuration(-1))

	assert.Equal(t, "1 song", Count(1, "song"))
	assert.Equal(t, "1,234 songs", Count(1234, "song"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "PlayWise", cfg.App.Name)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.AutoSave)
	assert.Equal(t, 10, cfg.Library.SkipWindow)
	assert.Equal(t, 15, cfg.Library.RecentlyAddedWindow)
	assert.Equal(t, 5, cfg.Library.RecentPlays)
	assert.False(t, cfg.Library.CascadeDelete)
	assert.True(t, cfg.Library.InvalidateCursor)
	assert.Equal(t, 3, cfg.Replay.Limit)
	assert.ElementsMatch(t, []string{"Lo-Fi", "Jazz", "Classical", "Ambient", "Chill", "Lofi"}, cfg.Replay.CalmingGenres)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playwise.yaml")
	content := []byte(`
storage:
  driver: text
  text_path: /tmp/state.txt
library:
  skip_window: 4
  cascade_delete: true
replay:
  calming_genres: [Jazz, Bossa Nova]
  limit: 2
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFileUsed())
	assert.Equal(t, DriverText, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/state.txt", cfg.Storage.TextPath)
	assert.Equal(t, 4, cfg.Library.SkipWindow)
	assert.Equal(t, 15, cfg.Library.RecentlyAddedWindow, "unset keys keep defaults")
	assert.True(t, cfg.Library.CascadeDelete)
	assert.Equal(t, []string{"Jazz", "Bossa Nova"}, cfg.Replay.CalmingGenres)
	assert.Equal(t, 2, cfg.Replay.Limit)
	assert.Equal(t, "debug", cfg.LoggerConfig().Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PLAYWISE_STORAGE_DRIVER", "none")
	t.Setenv("PLAYWISE_REPLAY_LIMIT", "5")

	path := filepath.Join(t.TempDir(), "playwise.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: Test\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverNone, cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.Replay.Limit)
	assert.Equal(t, "Test", cfg.App.Name)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "Unknown driver", content: "storage:\n  driver: mongo\n"},
		{name: "Zero skip window", content: "library:\n  skip_window: 0\n"},
		{name: "Zero replay limit", content: "replay:\n  limit: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "playwise.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSetAndSave(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Set("replay.limit", "7"))
	assert.Equal(t, 7, cfg.Replay.Limit)
	value, ok := cfg.Value("Replay.Limit")
	require.True(t, ok)
	assert.Equal(t, "7", value)

	require.NoError(t, cfg.Set("replay.calming_genres", "Jazz,Bossa Nova"))
	assert.Equal(t, []string{"Jazz", "Bossa Nova"}, cfg.Replay.CalmingGenres)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Replay.Limit)
}

func TestSet_RejectsBadValues(t *testing.T) {
	cfg := Defaults()

	err := cfg.Set("replay.limit", "0")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, 3, cfg.Replay.Limit, "rejected values are rolled back")

	err = cfg.Set("storage.driver", "postgres")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)

	err = cfg.Set("library.skip_window", "many")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, 10, cfg.Library.SkipWindow)

	assert.ErrorIs(t, cfg.Set("replay.volume", 3), ErrInvalidConfig)
	_, ok := cfg.Value("replay.volume")
	assert.False(t, ok)
}

func TestKeys(t *testing.T) {
	keys := Defaults().Keys()
	assert.Contains(t, keys, "storage.driver")
	assert.Contains(t, keys, "replay.calming_genres")
	assert.IsIncreasing(t, keys)
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playwise.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.Log.Level)

	reloaded := make(chan string, 10)
	cfg.Watch(func(c *Config) {
		reloaded <- c.LoggerConfig().Level
	})

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case level := <-reloaded:
			if level == "debug" {
				assert.Equal(t, "debug", cfg.LoggerConfig().Level)
				return
			}
		case <-deadline:
			t.Fatal("configuration change was not observed")
		}
	}
}

func TestWatch_WithoutFileIsNoop(t *testing.T) {
	cfg := Defaults()
	called := false
	cfg.Watch(func(*Config) { called = true })
	assert.False(t, called)
}

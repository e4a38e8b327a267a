package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/playwise/playwise/internal/logger"
)

const (
	DriverSQLite = "sqlite"
	DriverText   = "text"
	DriverNone   = "none"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	Library LibraryConfig `mapstructure:"library"`
	Replay  ReplayConfig  `mapstructure:"replay"`
	Import  ImportConfig  `mapstructure:"import"`
	v       *viper.Viper
	mu      sync.RWMutex
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	DataDir string `mapstructure:"data_dir"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	JSONFormat bool   `mapstructure:"json_format"`
}

type StorageConfig struct {
	Driver       string `mapstructure:"driver"` // sqlite, text, none
	DatabasePath string `mapstructure:"database_path"`
	TextPath     string `mapstructure:"text_path"`
	AutoSave     bool   `mapstructure:"auto_save"`
	LogLevel     string `mapstructure:"log_level"`
}

type LibraryConfig struct {
	SkipWindow          int  `mapstructure:"skip_window"`
	RecentlyAddedWindow int  `mapstructure:"recently_added_window"`
	RecentPlays         int  `mapstructure:"recent_plays"`
	CascadeDelete       bool `mapstructure:"cascade_delete"`
	InvalidateCursor    bool `mapstructure:"invalidate_cursor"`
}

type ReplayConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	CalmingGenres []string `mapstructure:"calming_genres"`
	Limit         int      `mapstructure:"limit"`
}

type ImportConfig struct {
	Workers         int      `mapstructure:"workers"`
	Recursive       bool     `mapstructure:"recursive"`
	FilePatterns    []string `mapstructure:"file_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns"`
	DefaultGenre    string   `mapstructure:"default_genre"`
}

// Defaults returns a configuration built from defaults only.
func Defaults() *Config {
	c := &Config{v: viper.New()}
	c.setDefaults()
	if err := c.v.Unmarshal(c); err != nil {
		panic(fmt.Sprintf("config defaults do not decode: %v", err))
	}
	return c
}

// Load reads the configuration from path, or from the standard search
// locations when path is empty. A missing file is not an error.
func Load(path string) (*Config, error) {
	c := &Config{v: viper.New()}
	if err := c.load(path); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) load(path string) error {
	c.setDefaults()

	c.v.SetEnvPrefix("PLAYWISE")
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.AutomaticEnv()

	if path != "" {
		c.v.SetConfigFile(path)
	} else {
		c.v.SetConfigName("config")
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(getUserConfigDir())
		c.v.AddConfigPath(".")
	}

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := c.v.Unmarshal(c); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return c.Validate()
}

// Watch reloads the configuration whenever the backing file changes.
func (c *Config) Watch(onChange func(*Config)) {
	if c.v.ConfigFileUsed() == "" {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		c.mu.Lock()
		err := c.v.Unmarshal(c)
		c.mu.Unlock()
		if err != nil {
			logger.Warn("Failed to reload config", logger.String("file", e.Name), logger.Error(err))
			return
		}
		logger.Info("Configuration reloaded", logger.String("file", e.Name))
		if onChange != nil {
			onChange(c)
		}
	})
	c.v.WatchConfig()
}

func (c *Config) setDefaults() {
	dataDir := getDataDir()

	c.v.SetDefault("app.name", "PlayWise")
	c.v.SetDefault("app.data_dir", dataDir)

	c.v.SetDefault("log.level", "warn")
	c.v.SetDefault("log.console", true)
	c.v.SetDefault("log.file", false)
	c.v.SetDefault("log.file_path", filepath.Join(dataDir, "logs", "playwise.log"))
	c.v.SetDefault("log.max_size", 10)
	c.v.SetDefault("log.max_backups", 3)
	c.v.SetDefault("log.max_age", 30)
	c.v.SetDefault("log.json_format", false)

	c.v.SetDefault("storage.driver", DriverSQLite)
	c.v.SetDefault("storage.database_path", filepath.Join(dataDir, "playwise.db"))
	c.v.SetDefault("storage.text_path", filepath.Join(dataDir, "playwise_data.txt"))
	c.v.SetDefault("storage.auto_save", true)
	c.v.SetDefault("storage.log_level", "silent")

	c.v.SetDefault("library.skip_window", 10)
	c.v.SetDefault("library.recently_added_window", 15)
	c.v.SetDefault("library.recent_plays", 5)
	c.v.SetDefault("library.cascade_delete", false)
	c.v.SetDefault("library.invalidate_cursor", true)

	c.v.SetDefault("replay.enabled", true)
	c.v.SetDefault("replay.calming_genres", []string{"Lo-Fi", "Jazz", "Classical", "Ambient", "Chill", "Lofi"})
	c.v.SetDefault("replay.limit", 3)

	c.v.SetDefault("import.workers", runtime.NumCPU())
	c.v.SetDefault("import.recursive", true)
	c.v.SetDefault("import.file_patterns", []string{"*.mp3", "*.flac"})
	c.v.SetDefault("import.exclude_patterns", []string{"*.tmp", "*.partial"})
	c.v.SetDefault("import.default_genre", "Unknown")
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverText, DriverNone:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if c.Library.SkipWindow < 1 {
		return fmt.Errorf("%w: library.skip_window must be positive", ErrInvalidConfig)
	}
	if c.Library.RecentlyAddedWindow < 1 {
		return fmt.Errorf("%w: library.recently_added_window must be positive", ErrInvalidConfig)
	}
	if c.Replay.Limit < 1 {
		return fmt.Errorf("%w: replay.limit must be positive", ErrInvalidConfig)
	}
	if c.Import.Workers < 1 {
		c.Import.Workers = 1
	}
	return nil
}

// LoggerConfig maps the log section onto the logger package.
func (c *Config) LoggerConfig() logger.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cfg := logger.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Console = c.Log.Console
	cfg.File = c.Log.File
	cfg.FilePath = c.Log.FilePath
	cfg.MaxSize = c.Log.MaxSize
	cfg.MaxBackups = c.Log.MaxBackups
	cfg.MaxAge = c.Log.MaxAge
	cfg.JSONFormat = c.Log.JSONFormat
	return cfg
}

func (c *Config) ConfigFileUsed() string {
	return c.v.ConfigFileUsed()
}

func (c *Config) Save(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return c.v.WriteConfigAs(path)
}

// Keys lists every known setting in sorted order.
func (c *Config) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := c.v.AllKeys()
	sort.Strings(keys)
	return keys
}

// Value returns the current value of key and whether key is known.
func (c *Config) Value(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key = strings.ToLower(key)
	if !c.v.IsSet(key) {
		return nil, false
	}
	return c.v.Get(key), true
}

// Set overrides key and re-decodes the configuration. A value that does
// not decode or validate is rolled back.
func (c *Config) Set(key string, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key = strings.ToLower(key)
	if !c.v.IsSet(key) {
		return fmt.Errorf("%w: unknown setting %q", ErrInvalidConfig, key)
	}
	previous := c.v.Get(key)
	c.v.Set(key, value)

	err := c.v.Unmarshal(c)
	if err == nil {
		err = c.Validate()
	}
	if err != nil {
		c.v.Set(key, previous)
		_ = c.v.Unmarshal(c)
		if errors.Is(err, ErrInvalidConfig) {
			return err
		}
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return nil
}

// DefaultPath is where a configuration is written when none was loaded.
func DefaultPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

func getUserConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "PlayWise")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "playwise")
}

func getDataDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "PlayWise")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "playwise")
}

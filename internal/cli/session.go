package cli

import (
	"fmt"
	"io"

	"github.com/playwise/playwise/internal/config"
	"github.com/playwise/playwise/internal/domain"
	"github.com/playwise/playwise/internal/infrastructure/db"
	"github.com/playwise/playwise/internal/infrastructure/textfile"
	"github.com/playwise/playwise/internal/library"
	"github.com/playwise/playwise/internal/logger"
)

// session is the state shared by every command of one process. The shell
// runs many command trees against the same session.
type session struct {
	cfgFile string
	jsonOut bool
	verbose bool

	cfg      *config.Config
	lib      *library.Library
	store    domain.StateRepository
	database *db.Database

	loaded bool
	dirty  bool
}

// load reads the configuration, opens the store and restores the library.
// It runs once per session.
func (s *session) load() error {
	if s.loaded {
		return nil
	}

	if err := s.loadConfig(); err != nil {
		return err
	}
	logger.Debug("Configuration loaded",
		logger.String("file", s.cfg.ConfigFileUsed()),
		logger.Any("storage", s.cfg.Storage),
	)

	if err := s.openStore(); err != nil {
		return err
	}

	s.lib = library.New(library.OptionsFromConfig(s.cfg))
	if s.store != nil {
		state, err := s.store.Load()
		if err != nil {
			return fmt.Errorf("failed to load saved state: %w", err)
		}
		if err := s.lib.Restore(state); err != nil {
			return fmt.Errorf("failed to restore saved state: %w", err)
		}
		logger.WithFields(map[string]interface{}{
			"driver": s.cfg.Storage.Driver,
			"songs":  s.lib.Len(),
		}).Debug("Library restored")
	}

	s.loaded = true
	return nil
}

// loadConfig reads the configuration and sets up logging without touching
// the store.
func (s *session) loadConfig() error {
	if s.cfg == nil {
		cfg, err := config.Load(s.cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		s.cfg = cfg
	}
	initLogger(s.cfg, s.verbose)
	return nil
}

// configPath is where config changes are written.
func (s *session) configPath() string {
	if s.cfgFile != "" {
		return s.cfgFile
	}
	if used := s.cfg.ConfigFileUsed(); used != "" {
		return used
	}
	return config.DefaultPath()
}

func (s *session) openStore() error {
	switch s.cfg.Storage.Driver {
	case config.DriverSQLite:
		dbCfg := db.DefaultConfig(s.cfg.Storage.DatabasePath)
		dbCfg.LogLevel = s.cfg.Storage.LogLevel
		database, err := db.Open(dbCfg)
		if err != nil {
			return err
		}
		s.database = database
		s.store = db.NewStateRepository(database)
	case config.DriverText:
		s.store = textfile.NewRepository(s.cfg.Storage.TextPath)
	default:
		s.store = nil
	}
	return nil
}

// initLogger applies the configured log settings. Verbose forces debug.
func initLogger(cfg *config.Config, verbose bool) {
	logger.Initialize(cfg.LoggerConfig())
	if verbose {
		_ = logger.Get().SetLevel("debug")
	}
}

// touch marks the library as changed since the last save.
func (s *session) touch() {
	s.dirty = true
}

// save persists the library when it changed and auto-save is on.
func (s *session) save() error {
	if !s.dirty || s.store == nil || !s.cfg.Storage.AutoSave {
		return nil
	}
	return s.flush()
}

// flush persists the library unconditionally.
func (s *session) flush() error {
	if s.store == nil {
		return domain.ErrStorageDisabled
	}
	if err := s.store.Save(s.lib.Snapshot()); err != nil {
		logger.ErrorLog("Failed to save library", logger.String("driver", s.cfg.Storage.Driver), logger.Error(err))
		return fmt.Errorf("failed to save state: %w", err)
	}
	s.dirty = false
	logger.Debug("Library saved", logger.Int("songs", s.lib.Len()))
	return nil
}

func (s *session) close() error {
	if s.database == nil {
		return nil
	}
	return s.database.Close()
}

// out pairs w with the session's JSON preference.
func (s *session) out(w io.Writer) *printer {
	return &printer{w: w, json: s.jsonOut}
}

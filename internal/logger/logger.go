package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	instance *Logger
	once     sync.Once
)

type Logger struct {
	logger     zerolog.Logger
	mu         sync.RWMutex
	level      zerolog.Level
	outputs    []io.Writer
	fileWriter *lumberjack.Logger
}

type Config struct {
	Level      string    `mapstructure:"level"`
	Console    bool      `mapstructure:"console"`
	File       bool      `mapstructure:"file"`
	FilePath   string    `mapstructure:"file_path"`
	MaxSize    int       `mapstructure:"max_size"` // megabytes
	MaxBackups int       `mapstructure:"max_backups"`
	MaxAge     int       `mapstructure:"max_age"` // days
	Compress   bool      `mapstructure:"compress"`
	JSONFormat bool      `mapstructure:"json_format"`
	Caller     bool      `mapstructure:"caller"`
	Out        io.Writer `mapstructure:"-"` // console destination, stderr when nil
}

func Get() *Logger {
	once.Do(func() {
		instance = &Logger{}
		instance.initialize(DefaultConfig())
	})
	return instance
}

func Initialize(cfg Config) {
	Get().initialize(cfg)
}

// DefaultConfig logs warnings to stderr only. The CLI widens this from the
// loaded configuration.
func DefaultConfig() Config {
	return Config{
		Level:      "warn",
		Console:    true,
		File:       false,
		FilePath:   filepath.Join(getDataDir(), "logs", "playwise.log"),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
		JSONFormat: false,
		Caller:     false,
	}
}

func (l *Logger) initialize(cfg Config) {
	l.mu.Lock()
	defer l.mu.Unlock()

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	l.level = level

	if l.fileWriter != nil {
		l.fileWriter.Close()
		l.fileWriter = nil
	}
	l.outputs = []io.Writer{}

	if cfg.Console {
		out := cfg.Out
		if out == nil {
			out = os.Stderr
		}
		var consoleWriter io.Writer
		if cfg.JSONFormat {
			consoleWriter = out
		} else {
			consoleWriter = zerolog.ConsoleWriter{
				Out:        out,
				TimeFormat: "15:04:05",
				FormatLevel: func(i interface{}) string {
					return strings.ToUpper(fmt.Sprintf("%-5s", i))
				},
				FormatFieldName: func(i interface{}) string {
					return fmt.Sprintf("%s:", i)
				},
			}
		}
		l.outputs = append(l.outputs, consoleWriter)
	}

	if cfg.File {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		} else {
			l.fileWriter = &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			}
			l.outputs = append(l.outputs, l.fileWriter)
		}
	}

	if len(l.outputs) == 0 {
		l.outputs = append(l.outputs, io.Discard)
	}

	multi := zerolog.MultiLevelWriter(l.outputs...)

	l.logger = zerolog.New(multi).
		Level(level).
		With().
		Timestamp().
		Logger()

	if cfg.Caller {
		l.logger = l.logger.With().Caller().Logger()
	}

	log.Logger = l.logger
}

func (l *Logger) log(event *zerolog.Event, msg string, fields []Field) {
	for _, field := range fields {
		event = field.Apply(event)
	}
	event.Msg(msg)
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.log(l.logger.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.log(l.logger.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.log(l.logger.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.log(l.logger.Error(), msg, fields)
}


func (l *Logger) WithField(key string, value interface{}) *LoggerContext {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &LoggerContext{
		logger: l.logger.With().Interface(key, value).Logger(),
	}
}

func (l *Logger) WithFields(fields map[string]interface{}) *LoggerContext {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &LoggerContext{
		logger: ctx.Logger(),
	}
}

func (l *Logger) SetLevel(level string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}

	l.level = lvl
	l.logger = l.logger.Level(lvl)
	return nil
}

func (l *Logger) GetLevel() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level.String()
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileWriter != nil {
		return l.fileWriter.Close()
	}
	return nil
}

type LoggerContext struct {
	logger zerolog.Logger
}

func (lc *LoggerContext) Debug(msg string) {
	lc.logger.Debug().Msg(msg)
}

func (lc *LoggerContext) Info(msg string) {
	lc.logger.Info().Msg(msg)
}


type Field struct {
	Key   string
	Value interface{}
}

func (f Field) Apply(event *zerolog.Event) *zerolog.Event {
	if err, ok := f.Value.(error); ok {
		return event.AnErr(f.Key, err)
	}
	return event.Interface(f.Key, f.Value)
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Strings(key string, values []string) Field {
	return Field{Key: key, Value: values}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Package-level convenience functions
func Debug(msg string, fields ...Field) {
	Get().Debug(msg, fields...)
}

func Info(msg string, fields ...Field) {
	Get().Info(msg, fields...)
}

func Warn(msg string, fields ...Field) {
	Get().Warn(msg, fields...)
}

func ErrorLog(msg string, fields ...Field) {
	Get().Error(msg, fields...)
}

func WithField(key string, value interface{}) *LoggerContext {
	return Get().WithField(key, value)
}

func WithFields(fields map[string]interface{}) *LoggerContext {
	return Get().WithFields(fields)
}

func getDataDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "PlayWise")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "playwise")
}

package docmerge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"
)

type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
	LogOff
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "DEBUG"
	case LogInfo:
		return "INFO"
	case LogWarn:
		return "WARN"
	case LogError:
		return "ERROR"
	case LogOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// slogOff sits above every level slog emits.
const slogOff = slog.Level(100)

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogInfo:
		return slog.LevelInfo
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slogOff
	}
}

// LogFormat selects the slog handler used for output
type LogFormat int

const (
	FormatText LogFormat = iota
	FormatJSON
)

type Fields map[string]interface{}

// Logger is a leveled logger carrying structured fields. Derived loggers
// share the level of the logger they came from.
type Logger struct {
	slog  *slog.Logger
	level *slog.LevelVar
	mu    *sync.Mutex
	debug *bool
}

var (
	globalLogger     *Logger
	globalLoggerOnce sync.Once
	globalLoggerMu   sync.RWMutex
)

func initGlobalLogger() {
	globalLoggerOnce.Do(func() {
		config := GetGlobalConfig()
		globalLogger = NewLoggerWithFormat(os.Stderr, parseLogLevel(config.LogLevel), parseLogFormat(config.LogFormat))
	})
}

var logLevelNames = map[string]LogLevel{
	"debug": LogDebug,
	"info":  LogInfo,
	"warn":  LogWarn,
	"error": LogError,
	"off":   LogOff,
}

var logFormatNames = map[string]LogFormat{
	"text": FormatText,
	"json": FormatJSON,
}

// parseLogLevel falls back to info for unknown names
func parseLogLevel(name string) LogLevel {
	if level, ok := logLevelNames[name]; ok {
		return level
	}
	return LogInfo
}

func parseLogFormat(name string) LogFormat {
	return logFormatNames[name]
}

// NewLogger creates a text logger writing to w.
func NewLogger(w io.Writer, level LogLevel) *Logger {
	return NewLoggerWithFormat(w, level, FormatText)
}

// NewLoggerWithFormat creates a logger writing text or JSON records to w.
func NewLoggerWithFormat(w io.Writer, level LogLevel, format LogFormat) *Logger {
	if w == nil {
		w = io.Discard
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(level.slogLevel())

	opts := &slog.HandlerOptions{
		Level: levelVar,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	debug := level == LogDebug
	return &Logger{
		slog:  slog.New(handler),
		level: levelVar,
		mu:    &sync.Mutex{},
		debug: &debug,
	}
}

// NewLoggerFromConfig creates a logger with the level and format named in config.
func NewLoggerFromConfig(w io.Writer, config *Config) *Logger {
	config = NewConfigWithDefaults(config)
	return NewLoggerWithFormat(w, parseLogLevel(config.LogLevel), parseLogFormat(config.LogFormat))
}

func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level.Set(level.slogLevel())
	*l.debug = level == LogDebug
}

func (l *Logger) IsDebugMode() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.debug
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	derived := *l
	derived.slog = l.slog.With(key, value)
	return &derived
}

func (l *Logger) WithFields(fields Fields) *Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(fields)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	derived := *l
	derived.slog = l.slog.With(args...)
	return &derived
}

// Slog exposes the underlying slog logger.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	sl := level.slogLevel()
	if !l.slog.Enabled(context.Background(), sl) {
		return
	}
	l.slog.Log(context.Background(), sl, fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LogDebug, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LogInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LogWarn, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LogError, format, args...)
}

// Global logging functions
func SetLogger(logger *Logger) {
	initGlobalLogger()
	globalLoggerMu.Lock()
	globalLogger = logger
	globalLoggerMu.Unlock()
}

func GetLogger() *Logger {
	initGlobalLogger()
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

func WithField(key string, value interface{}) *Logger {
	return GetLogger().WithField(key, value)
}

func WithFields(fields Fields) *Logger {
	return GetLogger().WithFields(fields)
}

// UpdateLoggerFromConfig updates the global logger based on the current global configuration
func UpdateLoggerFromConfig() {
	config := GetGlobalConfig()
	GetLogger().SetLevel(parseLogLevel(config.LogLevel))
}

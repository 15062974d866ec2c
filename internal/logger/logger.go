package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Log levels
const (
	LevelDebug = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	levelNames = map[int]zerolog.Level{
		LevelDebug: zerolog.DebugLevel,
		LevelInfo:  zerolog.InfoLevel,
		LevelWarn:  zerolog.WarnLevel,
		LevelError: zerolog.ErrorLevel,
	}

	mu   sync.RWMutex
	base zerolog.Logger
)

// Logger tags every entry with the component it was created for
type Logger struct {
	component string
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Configure(IsDevelopment(), os.Stdout)
}

// Configure sets the output format and default level for an environment:
// console lines at DEBUG in development, JSON at INFO otherwise.
func Configure(development bool, w io.Writer) {
	if development {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		SetOutput(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"})
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	SetOutput(w)
}

// New creates a new logger for a specific component
func New(component string) *Logger {
	return &Logger{component: component}
}

// SetOutput replaces the writer shared by all component loggers.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = zerolog.New(w).With().Timestamp().Logger()
}

// SetMinLevel allows changing the minimum log level at runtime
func SetMinLevel(level int) {
	if l, ok := levelNames[level]; ok {
		zerolog.SetGlobalLevel(l)
	}
}

// ParseLevel maps a level name such as "debug" or "WARN" to a Level* constant.
func ParseLevel(name string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}

func (l *Logger) event(level int) *zerolog.Event {
	mu.RLock()
	z := base
	mu.RUnlock()
	return z.WithLevel(levelNames[level]).Str("component", l.component)
}

func (l *Logger) logf(level int, format string, args ...interface{}) {
	if levelNames[level] < zerolog.GlobalLevel() {
		return
	}
	l.event(level).Msgf(format, args...)
}

// Debug logs debug information
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logf(LevelDebug, format, args...)
}

// Info logs information messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.logf(LevelInfo, format, args...)
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.logf(LevelWarn, format, args...)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.logf(LevelError, format, args...)
}

// Fields logs a structured entry at the given level.
// kv is read as alternating key/value pairs.
func (l *Logger) Fields(level int, msg string, kv ...interface{}) {
	if levelNames[level] < zerolog.GlobalLevel() {
		return
	}
	l.event(level).Fields(kv).Msg(msg)
}

// GetAppEnv returns the current application environment
func GetAppEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "development" // Default to development
	}
	return env
}

// IsDevelopment returns true if the current environment is development
func IsDevelopment() bool {
	return GetAppEnv() == "development"
}

// Package logger provides structured logging for fieldmap, backed by zerolog.
//
// Services receive a *Logger through their constructors. The package-level
// helpers drive the --verbose diagnostics of the CLI and print nothing
// unless verbose mode is enabled.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configures a Logger.
type Options struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string

	// Format is console or json. Defaults to console.
	Format string

	// Component is attached to every entry when set.
	Component string
}

// Logger writes levelled, structured entries.
// A nil *Logger discards everything.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var out io.Writer
	switch strings.ToLower(opts.Format) {
	case "", FormatConsole:
		out = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}
	case FormatJSON:
		out = w
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.Component != "" {
		ctx = ctx.Str("component", opts.Component)
	}
	return &Logger{zl: ctx.Logger()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// ParseLevel converts a level name to a zerolog level.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// SetLevel changes the minimum level of l. Loggers already derived with
// With keep the level they were created with.
func (l *Logger) SetLevel(name string) error {
	if l == nil {
		return nil
	}
	level, err := ParseLevel(name)
	if err != nil {
		return err
	}
	l.zl = l.zl.Level(level)
	return nil
}

// With returns a child logger that attaches key to every entry.
func (l *Logger) With(key string, value any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

// Debug records a debug entry.
func (l *Logger) Debug(format string, args ...any) {
	if l == nil {
		return
	}
	l.zl.Debug().Msgf(format, args...)
}

// Info records an informational entry.
func (l *Logger) Info(format string, args ...any) {
	if l == nil {
		return
	}
	l.zl.Info().Msgf(format, args...)
}

// Warn records a warning entry.
func (l *Logger) Warn(format string, args ...any) {
	if l == nil {
		return
	}
	l.zl.Warn().Msgf(format, args...)
}

// Error records an error entry with its cause.
func (l *Logger) Error(err error, format string, args ...any) {
	if l == nil {
		return
	}
	l.zl.Error().Err(err).Msgf(format, args...)
}

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	std               = newStd(os.Stderr, false)
)

func newStd(w io.Writer, v bool) *Logger {
	level := zerolog.Disabled
	if v {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return &Logger{zl: zerolog.New(cw).Level(level)}
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	std = newStd(output, verbose)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	std = newStd(output, verbose)
}

// Default returns the verbose-mode logger.
func Default() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	Default().Debug(format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	Default().Info(format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	Default().Warn(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

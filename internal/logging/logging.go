// Package logging owns the process-wide debug logger. It discards everything
// until Init enables it; enabled output is JSON lines in a size-rotated file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/joshuapare/regfix/internal/config"
)

// FileName is the active log file inside the log directory.
const FileName = "regfix.log"

// L is the global logger instance. It's initialized to discard all output by default.
// Call Init() to enable logging to a file.
var L = slog.New(slog.DiscardHandler)

var (
	mu      sync.Mutex
	rotator *lumberjack.Logger
)

// Options configures the logger initialization.
type Options struct {
	Enabled    bool       // If false, all logging is discarded
	Dir        string     // Directory for log files
	Level      slog.Level // Minimum log level
	MaxSizeMB  int        // Rotate after this many megabytes
	MaxAgeDays int        // Delete rotated files older than this
	MaxBackups int        // Keep at most this many rotated files
	Compress   bool       // Gzip rotated files
}

// OptionsFromConfig maps the log section of the config file.
func OptionsFromConfig(c config.LogConfig) (Options, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Enabled:    c.Enabled,
		Dir:        c.Dir,
		Level:      level,
		MaxSizeMB:  c.MaxSizeMB,
		MaxAgeDays: c.MaxAgeDays,
		MaxBackups: c.MaxBackups,
		Compress:   c.Compress,
	}, nil
}

// Init configures logging. Call from main() before any log calls.
// If opts.Enabled is false, all log output is discarded.
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()

	if !opts.Enabled {
		L = slog.New(slog.DiscardHandler)
		return nil
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return err
	}

	rotator = &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, FileName),
		MaxSize:    opts.MaxSizeMB,
		MaxAge:     opts.MaxAgeDays,
		MaxBackups: opts.MaxBackups,
		Compress:   opts.Compress,
	}
	L = New(rotator, opts.Level)
	return nil
}

// New builds a JSON logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Close flushes and closes the log file, if any, and reverts L to discard.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	err := closeLocked()
	L = slog.New(slog.DiscardHandler)
	return err
}

func closeLocked() error {
	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	return err
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }

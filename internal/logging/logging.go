// Package logging builds the zerolog loggers used across xtemp and plumbs
// them through context.Context. Operational telemetry always goes to stderr
// (or a log file); stdout is reserved for the output of spawned commands.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Format names accepted in Config.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// logFilePerm is the permission mode for newly created log files.
const logFilePerm = 0o600

// Config describes how the run logger is constructed.
type Config struct {
	// Level is a zerolog level string ("debug", "info", ...). Unparseable
	// values fall back to info.
	Level string
	// Format selects console (human) or json (machine) output.
	Format string
	// File, when non-empty, is an append-mode log file written in addition
	// to stderr.
	File string
}

// Result holds the constructed logger and the file handle backing it, if any.
type Result struct {
	Logger   zerolog.Logger
	FilePath string

	file *os.File
}

// Close releases the log file handle, if one was opened.
func (r *Result) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// New constructs the run logger from cfg. Console format wraps stderr in a
// zerolog.ConsoleWriter; json format writes events raw. When cfg.File is set
// and the file cannot be opened, the logger falls back to stderr-only and the
// returned Result carries no file handle.
func New(cfg Config) *Result {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var writers []io.Writer
	if cfg.Format == FormatJSON {
		writers = append(writers, os.Stderr)
	} else {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	result := &Result{}
	if cfg.File != "" {
		f, openErr := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFilePerm)
		if openErr == nil {
			result.file = f
			result.FilePath = cfg.File
			writers = append(writers, f)
		}
	}

	multi := zerolog.MultiLevelWriter(writers...)
	result.Logger = zerolog.New(multi).Level(lvl).With().Timestamp().Logger()
	return result
}

// FromContext returns the logger stored in ctx by zerolog's WithContext, or
// a disabled logger when ctx carries none.
func FromContext(ctx context.Context) zerolog.Logger {
	return *zerolog.Ctx(ctx)
}

// ComponentLogger returns a child logger tagged with a component name.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// NewRunID returns a fresh ULID identifying one xtemp run. Every log event
// of a run carries it, so interleaved runs can be told apart in a shared
// log file.
func NewRunID() string {
	return ulid.Make().String()
}

package runner

import (
	"errors"
	"fmt"
)

// ErrInvalidUTF8 marks input that is not valid UTF-8. It is wrapped inside an
// InputError together with the offending line number.
var ErrInvalidUTF8 = errors.New("input contains invalid UTF-8")

// ConfigError reports missing or contradictory run options. It is detected
// at construction time, before any input is consumed or scratch file created.
type ConfigError struct {
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return e.Reason
}

// InputError reports unreadable or malformed standard input. No batch runs
// once one surfaces.
type InputError struct {
	Err error
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return fmt.Sprintf("reading standard input: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *InputError) Unwrap() error {
	return e.Err
}

// SpawnError reports a child process that could not be started at all, as
// opposed to one that started and failed.
type SpawnError struct {
	// Program is the command that failed to start.
	Program string
	Err     error
}

// Error implements the error interface.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("starting %s: %v", e.Program, e.Err)
}

// Unwrap returns the underlying OS error.
func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExitError reports a child process that started but did not exit cleanly.
// Code is the child's exit code, or -1 when the child was terminated by a
// signal and no code is available.
type ExitError struct {
	Code   int
	Signal string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Signal != "" {
		return fmt.Sprintf("command terminated by signal: %s", e.Signal)
	}
	return fmt.Sprintf("command exited with code %d", e.Code)
}

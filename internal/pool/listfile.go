package pool

import (
	"errors"
	"os"
	"strings"
)

// listPattern names the list scratch file in the temp directory.
const listPattern = "xtemp-list-*"

// ListFile is the single extra scratch file used in list mode. Each batch
// rewrites it with the active slot paths, one per line, and the command
// receives this file's path as its only replacement token.
type ListFile struct {
	file *os.File
	path string
}

// AllocateList creates the list scratch file in dir (the platform temp
// directory when dir is empty). Like a slot path, the list path is always
// absolute.
func AllocateList(dir string) (*ListFile, error) {
	absDir, err := scratchDir(dir)
	if err != nil {
		return nil, &ProvisionError{Err: err}
	}

	f, err := os.CreateTemp(absDir, listPattern)
	if err != nil {
		return nil, &ProvisionError{Err: err}
	}
	return &ListFile{file: f, path: f.Name()}, nil
}

// Path returns the list file's path, stable for the lifetime of the run.
func (l *ListFile) Path() string {
	return l.path
}

// Write rewrites the list file with the given paths, newline-terminated one
// per line. Same truncate and rewind discipline as a pool slot.
func (l *ListFile) Write(paths []string) error {
	if err := rewrite(l.file, strings.Join(paths, "\n"), len(paths) > 0); err != nil {
		return &WriteError{Path: l.path, Err: err}
	}
	return nil
}

// Close closes and removes the list file. Safe to call more than once.
func (l *ListFile) Close() error {
	if l.file == nil {
		return nil
	}

	var errs []error
	if err := l.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}
	l.file = nil
	return errors.Join(errs...)
}

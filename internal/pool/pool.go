// Package pool manages the fixed set of reusable scratch files that carry
// batch records to child processes.
//
// All files are created eagerly at allocation time and held open for the
// whole run, so the open-descriptor cost is paid up front and bounded by the
// batch size. Slots are rewritten in place between batches (truncate, rewind,
// write) rather than recreated, which keeps every slot's path stable for the
// lifetime of the run.
package pool

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// slotPattern names pool scratch files in the temp directory.
const slotPattern = "xtemp-*"

// ErrBatchTooLarge reports a batch larger than the allocated pool, which
// indicates a partitioning bug in the caller rather than an I/O failure.
var ErrBatchTooLarge = errors.New("batch exceeds pool size")

// Pool owns a fixed collection of scratch files indexed 0..Size. A slot's
// path never changes after allocation; only its contents are rewritten.
type Pool struct {
	files []*os.File
	paths []string
}

// Allocate creates a pool of n scratch files in dir (the platform temp
// directory when dir is empty). Slot paths are always absolute, even when dir
// is relative. On any creation failure the files already created by this call
// are removed before the ProvisionError is returned.
func Allocate(n int, dir string) (*Pool, error) {
	absDir, err := scratchDir(dir)
	if err != nil {
		return nil, &ProvisionError{Err: err}
	}

	p := &Pool{
		files: make([]*os.File, 0, n),
		paths: make([]string, 0, n),
	}

	for range n {
		f, err := os.CreateTemp(absDir, slotPattern)
		if err != nil {
			p.Close()
			return nil, &ProvisionError{Err: err}
		}
		p.files = append(p.files, f)
		p.paths = append(p.paths, f.Name())
	}

	return p, nil
}

// scratchDir resolves dir to an absolute path, defaulting to the platform
// temp directory. Scratch paths are handed to child processes that may run
// anywhere, so they must not be relative.
func scratchDir(dir string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Abs(dir)
}

// Size returns the number of allocated slots.
func (p *Pool) Size() int {
	return len(p.files)
}

// WriteBatch rewrites slots 0..len(records) with the given records, one
// record per slot. Each slot is truncated, rewound, and rewritten; with
// keepNewlines a single newline is appended, otherwise the record bytes are
// written verbatim. Slots beyond len(records) keep stale content from an
// earlier batch and must not be referenced; Paths enforces that.
func (p *Pool) WriteBatch(records []string, keepNewlines bool) error {
	if len(records) > len(p.files) {
		return fmt.Errorf("%w: %d records, %d slots", ErrBatchTooLarge, len(records), len(p.files))
	}

	for i, record := range records {
		if err := rewrite(p.files[i], record, keepNewlines); err != nil {
			return &WriteError{Path: p.paths[i], Err: err}
		}
	}

	return nil
}

// Paths returns the slot paths populated by the most recent WriteBatch, in
// slot order. The returned slice is backed by the pool and valid until Close.
func (p *Pool) Paths(activeCount int) []string {
	if activeCount < 0 {
		activeCount = 0
	}
	if activeCount > len(p.paths) {
		activeCount = len(p.paths)
	}
	return p.paths[:activeCount]
}

// Close closes and removes every scratch file. Safe to call more than once,
// and safe on a partially allocated pool.
func (p *Pool) Close() error {
	var errs []error
	for i, f := range p.files {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := os.Remove(p.paths[i]); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
		p.files[i] = nil
	}
	return errors.Join(errs...)
}

// rewrite replaces the full contents of f with record. Writes on *os.File are
// unbuffered, so the contents are visible to a subsequently spawned process
// as soon as the write returns.
func rewrite(f *os.File, record string, keepNewlines bool) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := f.WriteString(record); err != nil {
		return err
	}
	if keepNewlines {
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}
	return nil
}

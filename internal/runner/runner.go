// Package runner drives the batch loop: it ingests newline-delimited records
// from standard input, provisions the scratch file pool, and runs the
// configured command once per batch with the pool paths substituted into its
// arguments. Batches run strictly in input order and the first failure of
// any kind ends the run.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aromatt/xtemp/internal/batch"
	"github.com/aromatt/xtemp/internal/logging"
	"github.com/aromatt/xtemp/internal/pool"
)

// ErrNilSpawner reports a Runner constructed without a Spawner.
var ErrNilSpawner = errors.New("spawner cannot be nil")

// Options configures a single run. Exactly one of Command or ShellCommand
// must be set.
type Options struct {
	// BatchSize is the number of records per batch and the number of pool
	// slots to allocate. Must be at least 1; defaulting from the descriptor
	// limit happens before Options is built.
	BatchSize int

	// Placeholder marks where replacement paths are substituted into the
	// command. Empty means none is configured and paths are appended.
	Placeholder string

	// ListMode writes the batch's slot paths into a single list file and
	// passes only that file's path to the command.
	ListMode bool

	// KeepNewlines appends a trailing newline to each record written into a
	// pool slot.
	KeepNewlines bool

	// TempDir overrides the platform temp directory for scratch files.
	TempDir string

	// Command is the argument vector template, program name first.
	Command []string

	// ShellCommand is a single shell-interpreted command line, run via
	// sh -eu -c after placeholder substitution.
	ShellCommand string
}

// Runner executes batches against a fixed pool of scratch files.
type Runner struct {
	opts    Options
	spawner Spawner
	resolve func(replacements []string) []string
}

// New validates the options and returns a Runner. Validation failures are
// ConfigErrors, surfaced before any input is read or scratch file created.
func New(opts Options, spawner Spawner) (*Runner, error) {
	if spawner == nil {
		return nil, ErrNilSpawner
	}
	if opts.BatchSize < batch.MinSize {
		return nil, &ConfigError{Reason: fmt.Sprintf("batch size must be at least 1, got %d", opts.BatchSize)}
	}

	r := &Runner{opts: opts, spawner: spawner}

	switch {
	case len(opts.Command) > 0 && opts.ShellCommand != "":
		return nil, &ConfigError{Reason: "cannot combine a shell command with a command after --"}
	case opts.ShellCommand != "":
		r.resolve = func(replacements []string) []string {
			return shellArgv(ResolveShell(opts.ShellCommand, opts.Placeholder, replacements))
		}
	case len(opts.Command) > 0:
		r.resolve = func(replacements []string) []string {
			return ResolveArgs(opts.Command, opts.Placeholder, replacements)
		}
	default:
		return nil, &ConfigError{Reason: "missing command"}
	}

	return r, nil
}

// Run reads all records from input, then processes them batch by batch. The
// pool and list file are allocated before the first batch and removed when
// Run returns, on success and on failure alike.
func (r *Runner) Run(ctx context.Context, input io.Reader) error {
	log := logging.ComponentLogger(logging.FromContext(ctx), "runner")

	records, err := ReadRecords(input)
	if err != nil {
		return err
	}

	p, err := pool.Allocate(r.opts.BatchSize, r.opts.TempDir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := p.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("removing pool files")
		}
	}()

	var list *pool.ListFile
	if r.opts.ListMode {
		list, err = pool.AllocateList(r.opts.TempDir)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := list.Close(); cerr != nil {
				log.Warn().Err(cerr).Msg("removing list file")
			}
		}()
	}

	processor, err := batch.NewProcessor[string](r.opts.BatchSize)
	if err != nil {
		return err
	}
	processor.WithProgressCallback(func(progress *batch.Progress) {
		log.Debug().
			Int("batch", progress.ProcessedBatches).
			Int("total_batches", progress.TotalBatches).
			Int("records_done", progress.ProcessedRecords).
			Msg("batch complete")
	})

	log.Debug().
		Int("records", len(records)).
		Int("batches", processor.TotalBatches(len(records))).
		Int("batch_size", r.opts.BatchSize).
		Bool("list_mode", r.opts.ListMode).
		Msg("starting batch run")

	err = processor.Process(ctx, records, func(ctx context.Context, batchRecords []string, _ int) error {
		return r.runBatch(ctx, p, list, batchRecords)
	})
	if err != nil {
		return err
	}

	log.Debug().Int("records", len(records)).Msg("all batches succeeded")
	return nil
}

// runBatch rewrites the pool for one batch and runs the resolved command,
// blocking until it exits.
func (r *Runner) runBatch(ctx context.Context, p *pool.Pool, list *pool.ListFile, records []string) error {
	if err := p.WriteBatch(records, r.opts.KeepNewlines); err != nil {
		return err
	}

	replacements := p.Paths(len(records))
	if list != nil {
		if err := list.Write(replacements); err != nil {
			return err
		}
		replacements = []string{list.Path()}
	}

	return r.spawner.Run(ctx, r.resolve(replacements))
}

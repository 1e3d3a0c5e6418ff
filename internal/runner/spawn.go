package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/aromatt/xtemp/internal/logging"
)

// Spawner runs one resolved command and blocks until it exits. There is no
// cancellation or timeout: a hung child hangs the run.
type Spawner interface {
	Run(ctx context.Context, argv []string) error
}

// ExecSpawner runs commands as real child processes. The child's stdin is
// always the null device so it cannot compete with the parent for input.
type ExecSpawner struct {
	// Stdout and Stderr receive the child's output. With LineOutput false
	// the child writes to them directly; with LineOutput true both streams
	// are captured and re-emitted line by line as the child produces them.
	Stdout io.Writer
	Stderr io.Writer

	LineOutput bool
}

// Run starts argv[0] with the remaining tokens as arguments and waits for it
// to exit. A failure to start at all is a SpawnError; a started child that
// exits non-zero or dies to a signal is an ExitError.
func (s *ExecSpawner) Run(ctx context.Context, argv []string) error {
	program := argv[0]

	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "runner").
		Str("program", program).
		Int("arg_count", len(argv)-1).
		Bool("line_output", s.LineOutput).
		Msg("spawning command")

	//nolint:gosec // The program is exactly what the user asked to run.
	cmd := exec.Command(program, argv[1:]...)
	cmd.Stdin = nil

	if s.LineOutput {
		return s.runPiped(cmd)
	}

	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	if err := cmd.Start(); err != nil {
		return &SpawnError{Program: program, Err: err}
	}
	return waitResult(cmd)
}

// runPiped captures the child's stdout and stderr and relays them line by
// line. Both pipes are drained before Wait, as exec requires.
func (s *ExecSpawner) runPiped(cmd *exec.Cmd) error {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &SpawnError{Program: cmd.Path, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &SpawnError{Program: cmd.Path, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return &SpawnError{Program: cmd.Path, Err: err}
	}

	var g errgroup.Group
	g.Go(func() error { return relayLines(stdout, s.Stdout) })
	g.Go(func() error { return relayLines(stderr, s.Stderr) })
	relayErr := g.Wait()

	if waitErr := waitResult(cmd); waitErr != nil {
		return waitErr
	}
	return relayErr
}

// waitResult classifies the outcome of a finished child. A signal death has
// no exit code, so it carries the -1 sentinel plus the signal name.
func waitResult(cmd *exec.Cmd) error {
	err := cmd.Wait()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return &ExitError{Code: -1, Signal: status.Signal().String()}
		}
		return &ExitError{Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("waiting for %s: %w", cmd.Path, err)
}

// relayLines copies r to w one line at a time, so partial output from a
// failing batch still reaches the caller promptly. When the relay gives up it
// drains the rest of r before returning, so the child can finish writing.
func relayLines(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, initialBufBytes), maxLineBytes)

	for scanner.Scan() {
		if _, err := fmt.Fprintln(w, scanner.Text()); err != nil {
			drain(r)
			return fmt.Errorf("writing command output: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		drain(r)
		return fmt.Errorf("reading command output: %w", err)
	}
	return nil
}

// drain consumes whatever the child still has to write. Without it a child
// stuck on a full pipe would never exit, and Wait would never reap it.
func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, r)
}

// Package cli wires flags, configuration, and logging into a batch run.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aromatt/xtemp/internal/config"
	"github.com/aromatt/xtemp/internal/fdlimit"
	"github.com/aromatt/xtemp/internal/runner"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// rootOptions holds the flag values for the root command.
type rootOptions struct {
	batchSize    int
	replace      string
	list         bool
	keepNewlines bool
	shell        string
	lineOutput   bool
	debug        bool
	logLevel     string
	logFormat    string
	update       bool
	initConfig   bool
}

// NewRootCmd creates the root Cobra command for the xtemp CLI.
// xtemp reads newline-delimited records from stdin, writes each batch of
// records into a reusable pool of temp files, and runs the given command once
// per batch with those file paths as arguments.
func NewRootCmd(ver string) *cobra.Command {
	cmd, _ := newRootCmd(ver)
	return cmd
}

// newRootCmd builds the root command and exposes its bound options so tests
// can drive flag resolution directly.
func newRootCmd(ver string) (*cobra.Command, *rootOptions) {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:     "xtemp [flags] -- command [args...]",
		Short:   "Run a command over batches of stdin, one temp file per record",
		Long:    "xtemp: batch stdin records into reusable temp files and run a command per batch",
		Version: ver,
		Example: rootCmdExample,
		Args:    cobra.ArbitraryArgs,
		// Errors surface as a single xtemp-prefixed line in main.
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, &opts)
		},
	}

	cmd.Flags().IntVarP(&opts.batchSize, "batch-size", "n", 0,
		"records per batch (0 derives a default from the open-file limit)")
	cmd.Flags().StringVarP(&opts.replace, "replace", "F", "",
		"placeholder token replaced by the batch's file paths")
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false,
		"pass a single file listing the batch's paths instead of the paths themselves")
	cmd.Flags().BoolVarP(&opts.keepNewlines, "keep-newlines", "k", false,
		"write each record with a trailing newline")
	cmd.Flags().StringVarP(&opts.shell, "shell", "c", "",
		"run a shell command line via sh -eu -c instead of a command vector")
	cmd.Flags().BoolVarP(&opts.lineOutput, "line-output", "L", false,
		"capture child stdout/stderr and relay them line by line")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "",
		"log level (trace, debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "",
		"log format (console or json; default picks by terminal)")
	cmd.Flags().BoolVar(&opts.update, "update", false,
		"check whether a newer release is available and exit")
	cmd.Flags().BoolVar(&opts.initConfig, "init-config", false,
		"write a config file with the built-in defaults and exit")

	return cmd, &opts
}

const rootCmdExample = `  # Each record is written to its own scratch file; paths are appended
  cat records.txt | xtemp -n 100 -- md5sum

  # Paths replace {} wherever it appears as a whole argument
  cat records.txt | xtemp -n 50 -F {} -- wc -c {}

  # Shell mode: -k keeps newlines, so cat-ing the files recreates the records
  cat paths.txt | xtemp -n 50 -k -F {} -c 'cat {} | tar -czf backup-$$.tgz -T -'

  # List mode: the command gets one file naming the batch's paths
  cat records.txt | xtemp -n 500 -l -F {} -- xargs -a {} md5sum`

// runRoot executes one batch run with the resolved configuration.
func runRoot(cmd *cobra.Command, args []string, opts *rootOptions) error {
	// Runs before Load: initialization writes a fresh file and never reads
	// the existing one.
	if opts.initConfig {
		return runInitConfig(cmd)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.ApplyEnv()

	logResult := setupLogging(cmd, cfg, opts)
	defer func() { _ = logResult.Close() }()

	if opts.update {
		return runUpdateCheck(cmd)
	}

	if at := cmd.ArgsLenAtDash(); at > 0 {
		return &runner.ConfigError{
			Reason: fmt.Sprintf("unexpected argument %q before --", args[0]),
		}
	}

	runOpts, lineOutput := resolveRunOptions(cmd, cfg, opts, args)

	spawner := &runner.ExecSpawner{
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
		LineOutput: lineOutput,
	}
	r, err := runner.New(runOpts, spawner)
	if err != nil {
		return err
	}

	if isTerminal(os.Stdin) {
		cmd.PrintErrln("reading records from terminal; end input with Ctrl-D")
	}

	return r.Run(cmd.Context(), cmd.InOrStdin())
}

// resolveRunOptions merges flags over config file values over built-ins.
// Flags count only when explicitly set, so a config default survives unless
// the user overrides it on the command line.
func resolveRunOptions(
	cmd *cobra.Command,
	cfg *config.Config,
	opts *rootOptions,
	command []string,
) (runner.Options, bool) {
	flags := cmd.Flags()

	batchSize := cfg.Defaults.BatchSize
	if flags.Changed("batch-size") {
		batchSize = opts.batchSize
	}
	// Only the derived default is safety-margined; an explicit size is
	// trusted as given, even past the descriptor limit.
	if batchSize == 0 {
		batchSize = fdlimit.DefaultBatchSize(fdlimit.SoftLimit, cfg.Pool.FDMargin)
	}

	keepNewlines := cfg.Defaults.KeepNewlines
	if flags.Changed("keep-newlines") {
		keepNewlines = opts.keepNewlines
	}

	listMode := cfg.Defaults.List
	if flags.Changed("list") {
		listMode = opts.list
	}

	lineOutput := cfg.Defaults.LineOutput
	if flags.Changed("line-output") {
		lineOutput = opts.lineOutput
	}

	return runner.Options{
		BatchSize:    batchSize,
		Placeholder:  opts.replace,
		ListMode:     listMode,
		KeepNewlines: keepNewlines,
		TempDir:      cfg.Pool.Dir,
		Command:      command,
		ShellCommand: opts.shell,
	}, lineOutput
}

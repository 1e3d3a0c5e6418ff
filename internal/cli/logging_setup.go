package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aromatt/xtemp/internal/config"
	"github.com/aromatt/xtemp/internal/logging"
)

// setupLogging configures logging from config file, environment, and CLI
// flags, then stores a run-scoped logger in the command's context. Precedence
// is flags over environment over config file; --debug additionally forces
// console output with no log file so diagnostics stay on the terminal.
func setupLogging(cmd *cobra.Command, cfg *config.Config, opts *rootOptions) *logging.Result {
	loggingCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}

	if opts.debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}
	if opts.logLevel != "" {
		loggingCfg.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		loggingCfg.Format = opts.logFormat
	}

	// With no format configured anywhere, pick console for a terminal and
	// json for anything capturing stderr.
	if loggingCfg.Format == "" {
		if isTerminal(os.Stderr) {
			loggingCfg.Format = logging.FormatConsole
		} else {
			loggingCfg.Format = logging.FormatJSON
		}
	}

	result := logging.New(loggingCfg)

	base := result.Logger.With().Str("run_id", logging.NewRunID()).Logger()
	logger = logging.ComponentLogger(base, "cli")

	// The context carries the base logger; each component tags itself.
	cmd.SetContext(base.WithContext(cmd.Context()))

	if result.FilePath != "" {
		cmd.PrintErrf("Logging to file: %s\n", result.FilePath)
	}

	logger.Debug().Str("command", cmd.Name()).Msg("command started")

	return result
}

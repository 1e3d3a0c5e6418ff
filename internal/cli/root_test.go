package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aromatt/xtemp/internal/config"
	"github.com/aromatt/xtemp/internal/fdlimit"
	"github.com/aromatt/xtemp/internal/runner"
)

// newTestRootCmd creates a testable root command with captured output.
func newTestRootCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCmd("0.0.0-test")
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd, out, errOut
}

// isolateEnv points all XTEMP_* lookups at empty test-scoped locations so a
// developer's real config cannot leak into a test run.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvConfig, filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvLogFormat, "json")
	t.Setenv(config.EnvTmpDir, "")
}

func TestNewRootCmd_Flags(t *testing.T) {
	cmd, _, _ := newTestRootCmd()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "batch-size", shorthand: "n", defValue: "0"},
		{name: "replace", shorthand: "F", defValue: ""},
		{name: "list", shorthand: "l", defValue: "false"},
		{name: "keep-newlines", shorthand: "k", defValue: "false"},
		{name: "shell", shorthand: "c", defValue: ""},
		{name: "line-output", shorthand: "L", defValue: "false"},
		{name: "debug", shorthand: "", defValue: "false"},
		{name: "log-level", shorthand: "", defValue: ""},
		{name: "log-format", shorthand: "", defValue: ""},
		{name: "update", shorthand: "", defValue: "false"},
		{name: "init-config", shorthand: "", defValue: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag, "flag %s should be registered", tt.name)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}

	assert.Equal(t, "0.0.0-test", cmd.Version)
}

func TestRootCmd_Examples(t *testing.T) {
	cmd, _, _ := newTestRootCmd()

	for _, line := range strings.Split(cmd.Example, "\n") {
		if !strings.Contains(line, "| xtemp ") {
			continue
		}
		// Flags that read a single file must get the list-file path, never
		// the per-record paths expanded as separate arguments.
		for _, flag := range []string{"--files-from {}", "-a {}", "-i {}", "-T {}"} {
			if strings.Contains(line, flag) {
				assert.Contains(t, line, " -l ", "%q hands %q more than one path", line, flag)
			}
		}
	}
}

func TestRootCmd_InitConfig(t *testing.T) {
	t.Run("WritesDefaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "xtemp", "config.yaml")
		t.Setenv(config.EnvConfig, path)

		cmd, out, _ := newTestRootCmd()
		cmd.SetArgs([]string{"--init-config"})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), path)

		loaded, err := config.Load()
		require.NoError(t, err)
		assert.Equal(t, "info", loaded.Logging.Level)
		assert.Equal(t, fdlimit.DefaultMargin, loaded.Pool.FDMargin)
	})

	t.Run("RefusesExistingFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600))
		t.Setenv(config.EnvConfig, path)

		cmd, _, _ := newTestRootCmd()
		cmd.SetArgs([]string{"--init-config"})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")

		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, "logging:\n  level: warn\n", string(data))
	})
}

func TestRootCmd_VersionFlag(t *testing.T) {
	cmd, out, _ := newTestRootCmd()
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "0.0.0-test")
}

func TestRootCmd_UnknownFlag(t *testing.T) {
	isolateEnv(t)
	cmd, _, _ := newTestRootCmd()
	cmd.SetArgs([]string{"--no-such-flag"})

	assert.Error(t, cmd.Execute())
}

func TestRootCmd_MissingCommand(t *testing.T) {
	isolateEnv(t)
	cmd, _, _ := newTestRootCmd()
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)

	var cfgErr *runner.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "missing command")
}

func TestRootCmd_ArgumentBeforeDash(t *testing.T) {
	isolateEnv(t)
	cmd, _, _ := newTestRootCmd()
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"stray", "--", "cat"})

	err := cmd.Execute()
	require.Error(t, err)

	var cfgErr *runner.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), `"stray"`)
}

func TestRootCmd_ShellAndVectorConflict(t *testing.T) {
	isolateEnv(t)
	cmd, _, _ := newTestRootCmd()
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"-c", "cat {}", "--", "cat"})

	err := cmd.Execute()
	require.Error(t, err)

	var cfgErr *runner.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRootCmd_MalformedConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [broken"), 0o600))
	t.Setenv(config.EnvConfig, path)

	cmd, _, _ := newTestRootCmd()
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"--", "cat"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestResolveRunOptions(t *testing.T) {
	parse := func(t *testing.T, args ...string) (*cobra.Command, *rootOptions) {
		t.Helper()
		cmd, opts := newRootCmd("0.0.0-test")
		require.NoError(t, cmd.ParseFlags(args))
		return cmd, opts
	}

	t.Run("FlagOverridesConfig", func(t *testing.T) {
		cmd, opts := parse(t, "-n", "3")
		cfg := config.New()
		cfg.Defaults.BatchSize = 7

		runOpts, _ := resolveRunOptions(cmd, cfg, opts, []string{"cat"})
		assert.Equal(t, 3, runOpts.BatchSize)
	})

	t.Run("ConfigAppliesWhenFlagUnset", func(t *testing.T) {
		cmd, opts := parse(t)
		cfg := config.New()
		cfg.Defaults.BatchSize = 7
		cfg.Defaults.KeepNewlines = true
		cfg.Defaults.List = true
		cfg.Defaults.LineOutput = true
		cfg.Pool.Dir = "/scratch"

		runOpts, lineOutput := resolveRunOptions(cmd, cfg, opts, []string{"cat"})
		assert.Equal(t, 7, runOpts.BatchSize)
		assert.True(t, runOpts.KeepNewlines)
		assert.True(t, runOpts.ListMode)
		assert.True(t, lineOutput)
		assert.Equal(t, "/scratch", runOpts.TempDir)
	})

	t.Run("ExplicitFlagBeatsConfigEvenAtDefaultValue", func(t *testing.T) {
		cmd, opts := parse(t, "--list=false", "--line-output=false")
		cfg := config.New()
		cfg.Defaults.List = true
		cfg.Defaults.LineOutput = true

		runOpts, lineOutput := resolveRunOptions(cmd, cfg, opts, []string{"cat"})
		assert.False(t, runOpts.ListMode)
		assert.False(t, lineOutput)
	})

	t.Run("ZeroDerivesFromDescriptorLimit", func(t *testing.T) {
		cmd, opts := parse(t)
		cfg := config.New()

		runOpts, _ := resolveRunOptions(cmd, cfg, opts, []string{"cat"})
		assert.Equal(t, fdlimit.DefaultBatchSize(fdlimit.SoftLimit, cfg.Pool.FDMargin), runOpts.BatchSize)
		assert.GreaterOrEqual(t, runOpts.BatchSize, 1)
	})

	t.Run("ExplicitSizeIsNotMargined", func(t *testing.T) {
		cmd, opts := parse(t, "-n", "100000")
		cfg := config.New()

		runOpts, _ := resolveRunOptions(cmd, cfg, opts, []string{"cat"})
		assert.Equal(t, 100000, runOpts.BatchSize)
	})

	t.Run("PlaceholderAndShellFromFlags", func(t *testing.T) {
		cmd, opts := parse(t, "-F", "{}", "-c", "cat {}")
		cfg := config.New()

		runOpts, _ := resolveRunOptions(cmd, cfg, opts, nil)
		assert.Equal(t, "{}", runOpts.Placeholder)
		assert.Equal(t, "cat {}", runOpts.ShellCommand)
		assert.Empty(t, runOpts.Command)
	})

	t.Run("CommandPassedThrough", func(t *testing.T) {
		cmd, opts := parse(t)
		cfg := config.New()

		runOpts, _ := resolveRunOptions(cmd, cfg, opts, []string{"wc", "-l"})
		assert.Equal(t, []string{"wc", "-l"}, runOpts.Command)
	})
}

// Package config loads and persists xtemp's optional configuration file.
//
// The file supplies defaults only: command-line flags always win, and a
// missing file means built-in defaults. Resolution order for the file path:
// $XTEMP_CONFIG, then $XDG_CONFIG_HOME/xtemp/config.yaml, then
// ~/.config/xtemp/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aromatt/xtemp/internal/fdlimit"
)

// Environment variables honored by xtemp.
const (
	EnvConfig    = "XTEMP_CONFIG"
	EnvLogLevel  = "XTEMP_LOG_LEVEL"
	EnvLogFormat = "XTEMP_LOG_FORMAT"
	EnvTmpDir    = "XTEMP_TMPDIR"
)

// configFilePerm is the permission mode for a saved config file.
const configFilePerm = 0o600

// Config is the root of the xtemp configuration file.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Pool     PoolConfig     `yaml:"pool"`

	configPath string
}

// LoggingConfig controls operational logging.
type LoggingConfig struct {
	// Level is a zerolog level string. Default info.
	Level string `yaml:"level"`
	// Format is "console", "json", or empty for automatic selection
	// (console on a terminal, json otherwise).
	Format string `yaml:"format"`
	// File is an optional append-mode log file.
	File string `yaml:"file"`
}

// DefaultsConfig provides fallback values for run flags.
type DefaultsConfig struct {
	// BatchSize of 0 means derive from the file-descriptor limit.
	BatchSize    int  `yaml:"batch_size"`
	KeepNewlines bool `yaml:"keep_newlines"`
	List         bool `yaml:"list"`
	LineOutput   bool `yaml:"line_output"`
}

// PoolConfig controls the tempfile pool.
type PoolConfig struct {
	// Dir overrides the platform temp directory for pool files.
	Dir string `yaml:"dir"`
	// FDMargin is subtracted from the descriptor soft limit when deriving
	// the default batch size. Applies only to the derived default; an
	// explicit --batch-size is never margined.
	FDMargin int `yaml:"fd_margin"`
}

// New returns a Config populated with built-in defaults and the resolved
// config file path. It does not touch the filesystem.
func New() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Pool: PoolConfig{
			FDMargin: fdlimit.DefaultMargin,
		},
		configPath: ResolveConfigPath(),
	}
}

// Load returns a Config built from defaults plus the config file, if one
// exists. A missing file is not an error; an unreadable or malformed file is.
func Load() (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(cfg.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", cfg.configPath, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", cfg.configPath, err)
	}

	return cfg, nil
}

// Save writes the configuration to its file path, creating the parent
// directory as needed.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if mkErr := os.MkdirAll(filepath.Dir(c.configPath), 0o700); mkErr != nil {
		return fmt.Errorf("creating config directory: %w", mkErr)
	}

	if writeErr := os.WriteFile(c.configPath, data, configFilePerm); writeErr != nil {
		return fmt.Errorf("writing config file %s: %w", c.configPath, writeErr)
	}

	return nil
}

// ConfigPath returns the path this Config loads from and saves to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath overrides the config file path.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// ApplyEnv overlays XTEMP_* environment variables onto the Config. Flags are
// applied later by the CLI layer, so precedence ends up flag > env > file >
// default.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvTmpDir); v != "" {
		c.Pool.Dir = v
	}
}

// ResolveConfigPath returns the config file path for this environment.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "xtemp", "config.yaml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		// No home directory: fall back to a relative path in the working
		// directory, matching what a missing file would behave like.
		return filepath.Join(".config", "xtemp", "config.yaml")
	}
	return filepath.Join(home, ".config", "xtemp", "config.yaml")
}

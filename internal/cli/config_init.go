package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aromatt/xtemp/internal/config"
)

// runInitConfig writes a config file populated with the built-in defaults,
// giving users a complete template to edit. An existing file is never
// overwritten.
func runInitConfig(cmd *cobra.Command) error {
	cfg := config.New()

	if _, err := os.Stat(cfg.ConfigPath()); err == nil {
		return fmt.Errorf("config file already exists at %s", cfg.ConfigPath())
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config path %s: %w", cfg.ConfigPath(), err)
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	cmd.Printf("Configuration initialized at %s\n", cfg.ConfigPath())
	return nil
}

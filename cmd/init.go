package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/toolgate/toolgate/internal/config"
	"github.com/toolgate/toolgate/internal/constants"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the toolgate configuration directory",
	Long: `Init creates the configuration directory with default settings, sample
rules and a sample hook registration.

Files are written to ~/.config/toolgate (or the directory given by the
TOOLGATE_CONFIG environment variable). Existing files are kept unless
--force is given.`,
	RunE: runInitCmd,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing config files")
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("failed to resolve config directory: %w", err)
	}

	settingsPath := filepath.Join(dir, constants.SettingsFileName)
	if _, err := os.Stat(settingsPath); err == nil && !initForce {
		return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", dir)
	}

	if err := config.Scaffold(dir, initForce); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to: %s\n", dir)
	fmt.Fprintln(cmd.OutOrStdout(), "Run 'toolgate validate' to verify your configuration.")
	return nil
}

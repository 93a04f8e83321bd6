// Package cmd implements the CLI commands for toolgate.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/toolgate/toolgate/internal/logger"
)

var (
	// Global flags
	verbose    bool
	dryRun     bool
	noAuditLog bool
	failClosed bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "toolgate",
	Short: "Policy gate for AI coding agent tool calls",
	Long: `toolgate decides, per tool call, whether an agent action is allowed,
blocked, or needs user confirmation. Declarative rules are evaluated
in-process; registered hook programs are spawned with the event on stdin
and answer through their exit code.

When called without arguments, it reads one event as JSON from stdin and
writes a permission decision JSON to stdout. Install it as a PreToolUse
hook in ~/.claude/settings.json:

  "hooks": {
    "PreToolUse": [{
      "matcher": ".*",
      "hooks": [{"type": "command", "command": "toolgate"}]
    }]
  }`,
	// Run the gate by default when no subcommand is given
	RunE:         runGate,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(func() {
		logger.Init(logger.Options{Verbose: verbose})
	})

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the decision as text on stderr instead of JSON")
	rootCmd.Flags().BoolVar(&noAuditLog, "no-audit-log", false, "Disable audit logging")
	rootCmd.Flags().BoolVar(&failClosed, "fail-closed", false, "Deny the action when a hook fails to run (overrides fail_closed=false in settings)")
}

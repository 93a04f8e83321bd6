package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toolgate/toolgate/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and list loaded rules and hooks",
	Long: `Validate loads the toolgate configuration directory and reports every
problem it finds, or lists the rules and hook registrations that would
be active.

Validation fails closed: a single bad declaration file rejects the whole
configuration, exactly as it would at dispatch time.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("failed to resolve config directory: %w", err)
	}

	snap, err := config.Load(dir)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Configuration OK: %s\n\n", dir)

	fmt.Fprintf(w, "Rules (%d):\n", len(snap.Rules))
	for _, r := range snap.Rules {
		state := "enabled"
		if !r.Enabled {
			state = "disabled"
		}
		field := r.Field
		if field == "" {
			field = "(tool_input)"
		}
		fmt.Fprintf(w, "  %-30s %-12s %s %s %s %q -> %s\n",
			r.Name, state, r.Event, field, r.Operator, r.Pattern, r.Action)
	}

	fmt.Fprintf(w, "\nHooks (%d):\n", len(snap.Hooks))
	for _, h := range snap.Hooks {
		matcher := h.Matcher
		if matcher == "" {
			matcher = "(all tools)"
		}
		fmt.Fprintf(w, "  %-30s %s %s -> %s (timeout %s)\n",
			h.Name, h.Event, matcher, h.Command, h.Timeout)
	}

	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolgate/toolgate/internal/audit"
	"github.com/toolgate/toolgate/internal/config"
	"github.com/toolgate/toolgate/internal/dispatch"
	"github.com/toolgate/toolgate/internal/logger"
	"github.com/toolgate/toolgate/internal/policy"
)

// exitFunc is stubbed in tests.
var exitFunc = os.Exit

// runGate reads one event from stdin, dispatches it, and writes the
// permission JSON to stdout. A deny additionally exits 2 with the reason
// on stderr so toolgate itself composes with the exit-code protocol.
func runGate(cmd *cobra.Command, args []string) error {
	dec, ev, err := gateDecision(cmd)
	if err != nil {
		// Never block the agent on our own failure: surface ask instead.
		// Keep the event kind when it decoded; only an unreadable event
		// falls back to PreToolUse.
		logger.Error("dispatch failed", "error", err)
		kind := policy.PreToolUse
		if ev != nil {
			kind = ev.Kind
		}
		fmt.Fprintln(cmd.OutOrStdout(), dispatch.FormatAsk(kind, "toolgate error: "+err.Error()))
		return nil
	}

	if dryRun {
		printDryRun(cmd, ev, dec)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), dispatch.FormatDecision(ev.Kind, dec))
	if dec.Verdict == policy.ActionDeny {
		for _, reason := range dec.Reasons {
			fmt.Fprintln(cmd.ErrOrStderr(), reason)
		}
		exitFunc(2)
	}
	return nil
}

// gateDecision parses the event, loads the config snapshot, and runs one
// dispatch. Configuration errors fail closed: no partial rule set is
// ever evaluated.
func gateDecision(cmd *cobra.Command) (policy.Decision, *policy.Event, error) {
	// The event is read first so later failures still know which event
	// kind they answer for.
	ev, err := policy.ParseEvent(cmd.InOrStdin())
	if err != nil {
		return policy.Decision{}, nil, err
	}

	dir, err := config.Dir()
	if err != nil {
		return policy.Decision{}, ev, err
	}

	store := config.NewStore(dir)
	if err := store.Load(); err != nil {
		return policy.Decision{}, ev, err
	}
	snap := store.Snapshot()
	if failClosed {
		snap.Settings.FailClosed = true
	}

	if err := audit.Init(snap.Settings.AuditLog,
		int64(snap.Settings.AuditLogMaxMB)*1024*1024,
		noAuditLog || snap.Settings.DisableAudit); err != nil {
		// Audit failures are logged, not fatal to the decision.
		logger.Warn("audit log unavailable", "error", err)
	}
	defer audit.Close()

	dec, err := dispatch.New(snap, nil).Dispatch(cmd.Context(), ev)
	if err != nil {
		return policy.Decision{}, ev, err
	}
	return dec, ev, nil
}

func printDryRun(cmd *cobra.Command, ev *policy.Event, dec policy.Decision) {
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "%s %s -> %s\n", ev.Kind, ev.ToolName, dec.Verdict)
	if dec.BlockingSource != "" {
		fmt.Fprintf(w, "blocked by: %s\n", dec.BlockingSource)
	}
	for _, reason := range dec.Reasons {
		fmt.Fprintf(w, "  %s\n", reason)
	}
}

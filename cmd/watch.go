package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/toolgate/toolgate/internal/config"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the configuration directory and revalidate on change",
	Long: `Watch loads the configuration, then revalidates it every time a file
under the config directory changes. Edits that fail validation are
reported while the last good snapshot stays in effect, which is exactly
the reload behavior a long-running embedder of this engine sees.

Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("failed to resolve config directory: %w", err)
	}

	store := config.NewStore(dir)
	if err := store.Load(); err != nil {
		// Report but keep watching: the point is to iterate on config.
		fmt.Fprintf(cmd.ErrOrStderr(), "invalid at startup: %v\n", err)
	} else {
		snap := store.Snapshot()
		fmt.Fprintf(cmd.OutOrStdout(), "watching %s (%d rules, %d hooks)\n",
			dir, len(snap.Rules), len(snap.Hooks))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = store.Watch(ctx, func(loadErr error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "reload rejected: %v\n", loadErr)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

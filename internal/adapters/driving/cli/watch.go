package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// watchRunner is the daemon entry point, injected by the composition
// root so this package stays free of filesystem concerns.
var watchRunner func(ctx context.Context) error

// SetWatchRunner injects the watch daemon.
func SetWatchRunner(run func(ctx context.Context) error) {
	watchRunner = run
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the vault and sync in the background",
	Long: `Runs until interrupted. Syncs automatically once per day (when auto
sync is enabled) and adds the daily reflection as soon as today's note
is created.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if watchRunner == nil {
		return errors.New("watch daemon not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Println("Watching. Press Ctrl+C to stop.")
	if err := watchRunner(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	cmd.Println("Stopped.")
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/margin-labs/margin-cli/internal/core/domain"
	"github.com/margin-labs/margin-cli/internal/core/ports/driving"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a full sync cycle",
	Long: `Fetches sources, tags and today's reflection from the Margin service
and merges them into the vault. Re-running is safe: existing highlights
are recognised by content and never duplicated.`,
	RunE: runSync,
}

var syncSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Sync highlight sources only",
	RunE:  runSyncSources,
}

func init() {
	syncCmd.AddCommand(syncSourcesCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	ctx := context.Background()
	cmd.Println("Syncing...")

	summary, err := syncWithProgress(ctx, cmd, syncOrchestrator)
	if err != nil {
		if errors.Is(err, domain.ErrSyncInProgress) {
			return errors.New("a sync is already running")
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	printSummary(cmd, summary)
	return nil
}

func runSyncSources(cmd *cobra.Command, _ []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	cmd.Println("Syncing sources...")
	summary, err := syncOrchestrator.SyncSources(context.Background())
	if err != nil {
		if errors.Is(err, domain.ErrSyncInProgress) {
			return errors.New("a sync is already running")
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	printSummary(cmd, summary)
	return nil
}

// syncWithProgress runs the cycle while displaying progress updates.
func syncWithProgress(ctx context.Context, cmd *cobra.Command, orch driving.SyncOrchestrator) (*driving.CycleSummary, error) {
	type result struct {
		summary *driving.CycleSummary
		err     error
	}
	resCh := make(chan result, 1)
	go func() {
		summary, err := orch.RunCycle(ctx, domain.TriggerManual)
		resCh <- result{summary, err}
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastStage := ""
	for {
		select {
		case res := <-resCh:
			return res.summary, res.err
		case <-ticker.C:
			status := orch.Status()
			if status.Running && status.Stage != lastStage {
				cmd.Printf("  %s...\n", status.Stage)
				lastStage = status.Stage
			}
		}
	}
}

func printSummary(cmd *cobra.Command, summary *driving.CycleSummary) {
	if summary == nil {
		return
	}
	if summary.Skipped {
		cmd.Println("Already synced today; nothing to do.")
		return
	}
	cmd.Printf("Done: %d sources, %d new highlights, %d new tags",
		summary.SourcesSeen, summary.QuotesAdded, summary.TagsLinked)
	if summary.ReflectionAdded {
		cmd.Print(", reflection added")
	}
	if summary.ErrorCount > 0 {
		cmd.Printf(" (%d errors, run with --verbose for details)", summary.ErrorCount)
	}
	cmd.Println()
}

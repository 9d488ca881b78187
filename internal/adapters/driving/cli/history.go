package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sync runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyStore == nil {
		return errors.New("history store not configured")
	}

	runs, err := historyStore.List(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No sync runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		duration := run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond)
		cmd.Printf("%s  %-6s  %d sources, %d highlights, %d tags",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Trigger, run.SourcesSeen, run.QuotesAdded, run.TagsLinked)
		if run.ReflectionAdded {
			cmd.Print(", reflection")
		}
		cmd.Printf("  (%s)", duration)
		if run.Err != "" {
			cmd.Printf("  FAILED: %s", run.Err)
		} else if run.ErrorCount > 0 {
			cmd.Printf("  %d errors", run.ErrorCount)
		}
		cmd.Println()
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/margin-labs/margin-cli/internal/core/domain"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Link tags into the vault",
	Long: `Fetches tags from the Margin service and materialises one file per
tag under the Tags folder, linking to the synced sources. Tag files are
created once and then left alone, so your edits are never overwritten.`,
	RunE: runTags,
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, _ []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	cmd.Println("Linking tags...")
	summary, err := syncOrchestrator.LinkTags(context.Background())
	if err != nil {
		if errors.Is(err, domain.ErrSyncInProgress) {
			return errors.New("a sync is already running")
		}
		return fmt.Errorf("tag link failed: %w", err)
	}

	cmd.Printf("Done: %d new tag files", summary.TagsLinked)
	if summary.ErrorCount > 0 {
		cmd.Printf(" (%d errors)", summary.ErrorCount)
	}
	cmd.Println()
	return nil
}

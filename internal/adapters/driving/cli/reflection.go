package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/margin-labs/margin-cli/internal/core/domain"
)

var reflectCmd = &cobra.Command{
	Use:   "reflect",
	Short: "Add today's reflection to the daily note",
	Long: `Fetches the daily reflection from the Margin service and appends it
to today's daily note. The reflection is added at most once per day;
the daily note itself must already exist.`,
	RunE: runReflect,
}

func init() {
	rootCmd.AddCommand(reflectCmd)
}

func runReflect(cmd *cobra.Command, _ []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	summary, err := syncOrchestrator.InjectReflection(context.Background())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSyncInProgress):
			return errors.New("a sync is already running")
		case errors.Is(err, domain.ErrDailyNoteMissing):
			return errors.New("today's daily note does not exist yet; create it first")
		case errors.Is(err, domain.ErrMissingPrerequisite):
			return errors.New("daily notes are not configured; set the folder with 'margin settings daily'")
		}
		return fmt.Errorf("reflection failed: %w", err)
	}

	if summary.ReflectionAdded {
		cmd.Println("Reflection added to today's note.")
	} else {
		cmd.Println("Nothing to add: reflection already present or none offered today.")
	}
	return nil
}

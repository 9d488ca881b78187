package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/margin-labs/margin-cli/internal/core/domain"
)

var connectCmd = &cobra.Command{
	Use:   "connect [api-key]",
	Short: "Connect to your Margin account",
	Long: `Stores your API key and verifies it against the Margin service.
Find the key in the Margin app under Settings > Integrations.

The key can be passed as an argument or entered interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if highlightsAPI == nil {
		return errors.New("api client not configured")
	}

	var key string
	if len(args) > 0 {
		key = strings.TrimSpace(args[0])
	} else {
		cmd.Print("API key: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading api key: %w", err)
		}
		key = strings.TrimSpace(line)
	}
	if key == "" {
		return errors.New("api key must not be empty")
	}

	if err := settingsService.SetAPIKey(key); err != nil {
		return fmt.Errorf("storing api key: %w", err)
	}

	// Verify immediately so a typo surfaces now, not mid-sync.
	secret, err := highlightsAPI.Connect(context.Background())
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return errors.New("the service rejected this api key; check it and try again")
		}
		return fmt.Errorf("could not reach the Margin service: %w", err)
	}

	if saver, ok := settingsService.(interface{ SaveSecret(string) error }); ok {
		if err := saver.SaveSecret(secret); err != nil {
			return fmt.Errorf("storing session secret: %w", err)
		}
	}

	cmd.Println("Connected. Run 'margin sync' to pull your highlights.")
	return nil
}

// Command margin syncs reading highlights from the Margin service into
// a local markdown vault.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/margin-labs/margin-cli/internal/adapters/driven/api"
	"github.com/margin-labs/margin-cli/internal/adapters/driven/config/file"
	"github.com/margin-labs/margin-cli/internal/adapters/driven/storage/sqlite"
	"github.com/margin-labs/margin-cli/internal/adapters/driven/vault"
	"github.com/margin-labs/margin-cli/internal/adapters/driving/cli"
	"github.com/margin-labs/margin-cli/internal/adapters/driving/daemon"
	"github.com/margin-labs/margin-cli/internal/core/ports/driven"
	"github.com/margin-labs/margin-cli/internal/core/services"
	"github.com/margin-labs/margin-cli/internal/logger"
)

// version is stamped by the release build via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	store, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	logger.EnableFile(filepath.Join(filepath.Dir(store.Path()), "margin.log"))

	settingsService := services.NewSettingsService(store)

	v, err := vault.New(vaultPath(store))
	if err != nil {
		return fmt.Errorf("opening vault: %w", err)
	}

	client, err := api.NewClient(api.Config{
		BaseURL:     store.GetString("api.base_url"),
		Credentials: settingsService,
	})
	if err != nil {
		return fmt.Errorf("creating api client: %w", err)
	}

	// The journal is optional: a broken database degrades history, not sync.
	var history driven.HistoryStore
	if h, err := sqlite.NewHistoryStore(""); err != nil {
		logger.Warn("sync history unavailable: %v", err)
	} else {
		history = h
		defer h.Close()
	}

	orchestrator := services.NewSyncService(client, settingsService, v, history)

	cli.SetVersion(version)
	cli.Initialize(cli.Services{
		Sync:     orchestrator,
		Settings: settingsService,
		API:      client,
		History:  history,
	})
	cli.SetWatchRunner(daemon.New(orchestrator, settingsService, v.Root()).Run)

	return cli.Execute()
}

// vaultPath resolves the vault directory: the MARGIN_VAULT environment
// variable, then the vault.path config key, then the working directory.
func vaultPath(store *file.ConfigStore) string {
	if path := os.Getenv("MARGIN_VAULT"); path != "" {
		return path
	}
	if path := store.GetString("vault.path"); path != "" {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

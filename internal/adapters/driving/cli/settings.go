package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/margin-labs/margin-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage sync settings",
	Long: `View and configure the vault location, filename handling, colour
styling and daily note integration.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsAutoCmd = &cobra.Command{
	Use:   "auto [on|off]",
	Short: "Enable or disable the once-per-day automatic sync",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsAuto,
}

var settingsFolderCmd = &cobra.Command{
	Use:   "folder [name]",
	Short: "Set the vault folder synced files live under",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsFolder,
}

var settingsDailyCmd = &cobra.Command{
	Use:   "daily [folder] [date-format]",
	Short: "Configure the daily notes location",
	Long: `Sets the folder your daily notes live in and, optionally, the date
format naming them (default YYYY-MM-DD). The reflection feature needs
both to find today's note.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsDaily,
}

var settingsColorsCmd = &cobra.Command{
	Use:   "colors [none|background|text]",
	Short: "Set how highlight colours are rendered",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsColors,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsAutoCmd)
	settingsCmd.AddCommand(settingsFolderCmd)
	settingsCmd.AddCommand(settingsDailyCmd)
	settingsCmd.AddCommand(settingsColorsCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Account]")
	if settings.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.APIKey))
	} else {
		cmd.Printf("  API Key: (not set, run 'margin connect')\n")
	}
	cmd.Println()

	cmd.Println("[Sync]")
	cmd.Printf("  Auto sync: %t\n", settings.AutoSync)
	if settings.LastSyncDate != "" {
		cmd.Printf("  Last auto sync: %s\n", settings.LastSyncDate)
	}
	cmd.Println()

	cmd.Println("[Vault]")
	cmd.Printf("  Folder: %s\n", settings.RootFolder)
	cmd.Printf("  Lowercase filenames: %t\n", settings.FilenameLowercase)
	cmd.Printf("  Replacement character: %q\n", settings.FilenameReplacement)
	cmd.Println()

	cmd.Println("[Colors]")
	cmd.Printf("  Mode: %s\n", settings.ColorMode)
	for name, hex := range settings.ColorOverrides {
		cmd.Printf("  Override: %s = %s\n", name, hex)
	}
	cmd.Println()

	cmd.Println("[Daily Notes]")
	if settings.DailyNotesFolder != "" {
		cmd.Printf("  Folder: %s\n", settings.DailyNotesFolder)
		cmd.Printf("  Date format: %s\n", settings.DailyNoteFormat)
	} else {
		cmd.Printf("  (not configured, reflections disabled)\n")
	}

	return nil
}

func runSettingsAuto(cmd *cobra.Command, args []string) error {
	enabled, err := parseOnOff(args[0])
	if err != nil {
		return err
	}
	return updateSettings(cmd, func(s *domain.SyncSettings) {
		s.AutoSync = enabled
	}, fmt.Sprintf("Auto sync %s.", args[0]))
}

func runSettingsFolder(cmd *cobra.Command, args []string) error {
	folder := strings.TrimSpace(args[0])
	if folder == "" {
		return errors.New("folder must not be empty")
	}
	return updateSettings(cmd, func(s *domain.SyncSettings) {
		s.RootFolder = folder
	}, fmt.Sprintf("Synced files will live under %q.", folder))
}

func runSettingsDaily(cmd *cobra.Command, args []string) error {
	folder := strings.TrimSpace(args[0])
	if folder == "" {
		return errors.New("folder must not be empty")
	}
	return updateSettings(cmd, func(s *domain.SyncSettings) {
		s.DailyNotesFolder = folder
		if len(args) > 1 {
			s.DailyNoteFormat = args[1]
		}
	}, "Daily notes configured.")
}

func runSettingsColors(cmd *cobra.Command, args []string) error {
	mode := domain.ColorMode(args[0])
	if !mode.IsValid() {
		return fmt.Errorf("unknown colour mode %q (use none, background or text)", args[0])
	}
	return updateSettings(cmd, func(s *domain.SyncSettings) {
		s.ColorMode = mode
	}, fmt.Sprintf("Colour mode set to %s.", mode))
}

// updateSettings loads, mutates and saves settings, then prints done.
func updateSettings(cmd *cobra.Command, mutate func(*domain.SyncSettings), done string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	mutate(settings)
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println(done)
	return nil
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}

// maskAPIKey hides all but the first and last few characters of a key.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

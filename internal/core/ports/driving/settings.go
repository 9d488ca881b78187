package driving

import "github.com/margin-labs/margin-cli/internal/core/domain"

// SettingsService manages the persisted sync configuration.
type SettingsService interface {
	// Get loads current settings, with defaults applied for unset keys.
	Get() (*domain.SyncSettings, error)

	// Save persists the full settings document.
	Save(settings *domain.SyncSettings) error

	// SetAPIKey stores the api key and clears any cached session
	// secret, forcing a fresh connect handshake.
	SetAPIKey(key string) error

	// SetLastSyncDate stores the once-per-day gate marker (YYYY-MM-DD).
	SetLastSyncDate(date string) error
}

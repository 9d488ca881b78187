package services

import (
	"fmt"

	"github.com/margin-labs/margin-cli/internal/core/domain"
	"github.com/margin-labs/margin-cli/internal/core/ports/driven"
	"github.com/margin-labs/margin-cli/internal/core/ports/driving"
)

// Configuration keys.
const (
	keyAPIKey             = "api.key"
	keyAPISecret          = "api.secret"
	keyBaseURL            = "api.base_url"
	keyAutoSync           = "sync.auto"
	keyLastSyncDate       = "sync.last_date"
	keyRootFolder         = "vault.root_folder"
	keyFilenameTemplate   = "templates.filename"
	keySourceTemplate     = "templates.source"
	keyQuoteTemplate      = "templates.quote"
	keyReflectionTemplate = "templates.reflection"
	keyFilenameLowercase  = "filename.lowercase"
	keyFilenameReplace    = "filename.replacement"
	keyColorMode          = "colors.mode"
	keyColorOverrides     = "colors.overrides"
	keyDailyFolder        = "daily.folder"
	keyDailyFormat        = "daily.format"
)

// SettingsService loads and persists sync settings through the config
// store. It also serves as the credentials provider for the API client.
type SettingsService struct {
	store driven.ConfigStore
}

var _ driving.SettingsService = (*SettingsService)(nil)
var _ driven.CredentialsProvider = (*SettingsService)(nil)

// NewSettingsService creates a new settings service.
func NewSettingsService(store driven.ConfigStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get loads current settings, applying defaults for unset keys.
func (s *SettingsService) Get() (*domain.SyncSettings, error) {
	settings := domain.DefaultSyncSettings()

	settings.APIKey = s.store.GetString(keyAPIKey)
	settings.Secret = s.store.GetString(keyAPISecret)
	if v := s.store.GetString(keyBaseURL); v != "" {
		settings.BaseURL = v
	}
	if v, ok := s.store.Get(keyAutoSync); ok {
		if b, ok := v.(bool); ok {
			settings.AutoSync = b
		}
	}
	settings.LastSyncDate = s.store.GetString(keyLastSyncDate)
	if v := s.store.GetString(keyRootFolder); v != "" {
		settings.RootFolder = v
	}
	settings.FilenameTemplate = s.store.GetString(keyFilenameTemplate)
	settings.SourceTemplate = s.store.GetString(keySourceTemplate)
	settings.QuoteTemplate = s.store.GetString(keyQuoteTemplate)
	settings.ReflectionTemplate = s.store.GetString(keyReflectionTemplate)
	if v, ok := s.store.Get(keyFilenameLowercase); ok {
		if b, ok := v.(bool); ok {
			settings.FilenameLowercase = b
		}
	}
	if v := s.store.GetString(keyFilenameReplace); v != "" {
		settings.FilenameReplacement = v
	}
	if v := s.store.GetString(keyColorMode); v != "" {
		mode := domain.ColorMode(v)
		if !mode.IsValid() {
			return nil, fmt.Errorf("%w: colour mode %q", domain.ErrInvalidInput, v)
		}
		settings.ColorMode = mode
	}
	settings.ColorOverrides = s.store.GetStringMap(keyColorOverrides)
	settings.DailyNotesFolder = s.store.GetString(keyDailyFolder)
	if v := s.store.GetString(keyDailyFormat); v != "" {
		settings.DailyNoteFormat = v
	}

	return &settings, nil
}

// Save persists the full settings document.
func (s *SettingsService) Save(settings *domain.SyncSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: nil settings", domain.ErrInvalidInput)
	}
	if !settings.ColorMode.IsValid() {
		return fmt.Errorf("%w: colour mode %q", domain.ErrInvalidInput, settings.ColorMode)
	}

	pairs := []struct {
		key   string
		value any
	}{
		{keyAPIKey, settings.APIKey},
		{keyAPISecret, settings.Secret},
		{keyBaseURL, settings.BaseURL},
		{keyAutoSync, settings.AutoSync},
		{keyLastSyncDate, settings.LastSyncDate},
		{keyRootFolder, settings.RootFolder},
		{keyFilenameTemplate, settings.FilenameTemplate},
		{keySourceTemplate, settings.SourceTemplate},
		{keyQuoteTemplate, settings.QuoteTemplate},
		{keyReflectionTemplate, settings.ReflectionTemplate},
		{keyFilenameLowercase, settings.FilenameLowercase},
		{keyFilenameReplace, settings.FilenameReplacement},
		{keyColorMode, settings.ColorMode.String()},
		{keyDailyFolder, settings.DailyNotesFolder},
		{keyDailyFormat, settings.DailyNoteFormat},
	}
	for _, p := range pairs {
		if err := s.store.Set(p.key, p.value); err != nil {
			return fmt.Errorf("set %s: %w", p.key, err)
		}
	}
	if settings.ColorOverrides != nil {
		if err := s.store.Set(keyColorOverrides, settings.ColorOverrides); err != nil {
			return fmt.Errorf("set %s: %w", keyColorOverrides, err)
		}
	}

	return s.store.Save()
}

// SetAPIKey stores the api key and clears the cached session secret so
// the next API call performs a fresh connect handshake.
func (s *SettingsService) SetAPIKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty api key", domain.ErrInvalidInput)
	}
	if err := s.store.Set(keyAPIKey, key); err != nil {
		return err
	}
	if err := s.store.Set(keyAPISecret, ""); err != nil {
		return err
	}
	return s.store.Save()
}

// SetLastSyncDate stores the once-per-day gate marker.
func (s *SettingsService) SetLastSyncDate(date string) error {
	if err := s.store.Set(keyLastSyncDate, date); err != nil {
		return err
	}
	return s.store.Save()
}

// APIKey implements driven.CredentialsProvider.
func (s *SettingsService) APIKey() string {
	return s.store.GetString(keyAPIKey)
}

// Secret implements driven.CredentialsProvider.
func (s *SettingsService) Secret() string {
	return s.store.GetString(keyAPISecret)
}

// SaveSecret implements driven.CredentialsProvider.
func (s *SettingsService) SaveSecret(secret string) error {
	if err := s.store.Set(keyAPISecret, secret); err != nil {
		return err
	}
	return s.store.Save()
}

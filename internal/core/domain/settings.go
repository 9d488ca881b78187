package domain

// ColorMode selects how a quote's highlight colour is applied to the
// rendered content.
type ColorMode string

// Available colour modes.
const (
	// ColorModeNone renders content unstyled.
	ColorModeNone ColorMode = "none"

	// ColorModeBackground wraps content in a background-colour span.
	ColorModeBackground ColorMode = "background"

	// ColorModeText wraps content in a text-colour span.
	ColorModeText ColorMode = "text"
)

// IsValid returns true if the colour mode is recognised.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorModeNone, ColorModeBackground, ColorModeText:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m ColorMode) String() string {
	return string(m)
}

// FallbackReflectionHeading is the literal heading the fixed reflection
// layout writes. It doubles as the presence check when no reflection
// template is configured.
const FallbackReflectionHeading = "## Daily Reflection"

// DefaultFilenameTemplate renders a source's filename: just the title.
const DefaultFilenameTemplate = "{{title}}"

// DefaultColorPalette maps the service's highlight colour names to hex
// values. User overrides are merged on top.
func DefaultColorPalette() map[string]string {
	return map[string]string{
		"yellow": "#fff3a3",
		"orange": "#ffb86b",
		"red":    "#ff9b9b",
		"green":  "#b6f2b6",
		"blue":   "#a3d8ff",
		"purple": "#d3b6f2",
		"pink":   "#ffc6e0",
		"gray":   "#d9d9d9",
	}
}

// SyncSettings is the persisted configuration the sync engine runs
// under. Loaded once at the start of each cycle and passed by value, so
// a cycle never observes a mid-run settings change.
type SyncSettings struct {
	// APIKey authenticates the connect handshake.
	APIKey string

	// Secret is the cached session secret established by connect.
	Secret string

	// BaseURL is the remote service endpoint root.
	BaseURL string

	// AutoSync gates the automatic once-per-day cycle.
	AutoSync bool

	// LastSyncDate is the YYYY-MM-DD date the last automatic sync ran.
	LastSyncDate string

	// RootFolder is the vault folder all source and tag files live
	// under.
	RootFolder string

	// FilenameTemplate renders a source's filename before safe
	// derivation. Empty means DefaultFilenameTemplate.
	FilenameTemplate string

	// SourceTemplate renders a new source file's header. Empty means
	// the fixed fallback layout.
	SourceTemplate string

	// QuoteTemplate renders one appended highlight. Its presence also
	// selects marker-mode identity extraction for source files.
	QuoteTemplate string

	// ReflectionTemplate renders the daily reflection block.
	ReflectionTemplate string

	// FilenameLowercase lower-cases derived filenames.
	FilenameLowercase bool

	// FilenameReplacement is the safe-filename replacement character.
	FilenameReplacement string

	// ColorMode selects highlight colour styling.
	ColorMode ColorMode

	// ColorOverrides maps colour names to hex values on top of the
	// default palette.
	ColorOverrides map[string]string

	// DailyNotesFolder is the externally-owned daily journal folder.
	DailyNotesFolder string

	// DailyNoteFormat is the moment-style date pattern naming daily
	// note files.
	DailyNoteFormat string
}

// DefaultSyncSettings returns settings with sensible defaults. The api
// key, root folder and daily-notes location must be configured by the
// user before a sync can run.
func DefaultSyncSettings() SyncSettings {
	return SyncSettings{
		BaseURL:             "https://api.margin.app/v1",
		AutoSync:            false,
		RootFolder:          "Margin",
		FilenameLowercase:   true,
		FilenameReplacement: "-",
		ColorMode:           ColorModeNone,
		DailyNoteFormat:     DefaultDateFormat,
	}
}

// FilenameOptions returns the derivation options these settings imply.
func (s SyncSettings) FilenameOptions() FilenameOptions {
	opts := DefaultFilenameOptions()
	opts.Lowercase = s.FilenameLowercase
	if s.FilenameReplacement != "" {
		opts.Replacement = s.FilenameReplacement
	}
	return opts
}

// ColorHex resolves a highlight colour name against the default palette
// with user overrides applied. Returns "" when the name is unknown,
// which renders the content unstyled.
func (s SyncSettings) ColorHex(name string) string {
	if hex, ok := s.ColorOverrides[name]; ok {
		return hex
	}
	return DefaultColorPalette()[name]
}

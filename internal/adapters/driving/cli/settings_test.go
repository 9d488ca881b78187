package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margin-labs/margin-cli/internal/adapters/driven/storage/memory"
	"github.com/margin-labs/margin-cli/internal/core/services"
)

func setupSettingsTest() func() {
	oldSettings := settingsService
	settingsService = services.NewSettingsService(memory.NewConfigStore())
	return func() {
		settingsService = oldSettings
	}
}

func TestSettingsCmd_ShowDefaults(t *testing.T) {
	cleanup := setupSettingsTest()
	defer cleanup()

	out, err := executeCommand("settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "Folder: Margin")
	assert.Contains(t, out, "not set, run 'margin connect'")
	assert.Contains(t, out, "reflections disabled")
}

func TestSettingsCmd_AutoOnOff(t *testing.T) {
	cleanup := setupSettingsTest()
	defer cleanup()

	_, err := executeCommand("settings", "auto", "on")
	require.NoError(t, err)

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.True(t, settings.AutoSync)

	_, err = executeCommand("settings", "auto", "off")
	require.NoError(t, err)

	settings, err = settingsService.Get()
	require.NoError(t, err)
	assert.False(t, settings.AutoSync)
}

func TestSettingsCmd_AutoRejectsGarbage(t *testing.T) {
	cleanup := setupSettingsTest()
	defer cleanup()

	_, err := executeCommand("settings", "auto", "maybe")
	require.Error(t, err)
}

func TestSettingsCmd_Daily(t *testing.T) {
	cleanup := setupSettingsTest()
	defer cleanup()

	_, err := executeCommand("settings", "daily", "Journal", "DD.MM.YYYY")
	require.NoError(t, err)

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, "Journal", settings.DailyNotesFolder)
	assert.Equal(t, "DD.MM.YYYY", settings.DailyNoteFormat)
}

func TestSettingsCmd_Colors(t *testing.T) {
	cleanup := setupSettingsTest()
	defer cleanup()

	_, err := executeCommand("settings", "colors", "background")
	require.NoError(t, err)

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, "background", settings.ColorMode.String())

	_, err = executeCommand("settings", "colors", "rainbow")
	require.Error(t, err)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("abcd"))
	assert.Equal(t, "abcd********wxyz", maskAPIKey("abcdefghstuvwxyz"))
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every XDG and AQP lookup at a fresh temporary home
func isolate(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	for _, key := range []string{
		"AQP_OUTPUT_DIR",
		"AQP_EXPORT_WORKBOOK",
		"AQP_HISTORY_ENABLED",
		"AQP_HISTORY_DB_PATH",
		"AQP_LOGGING_LEVEL",
		"AQP_LOGGING_FORMAT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	return home
}

func writeConfig(t *testing.T, dir string, content string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, CONFIG_FILE_NAME)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettings_Defaults(t *testing.T) {
	isolate(t)

	settings, err := LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, DefaultSettings(), settings)
	assert.Equal(t, ".", settings.Output.Dir)
	assert.False(t, settings.Export.Workbook)
	assert.False(t, settings.History.Enabled)
}

func TestLoadSettings_DefaultConfigFile(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, "config", APP_DIR_NAME), `
output:
  dir: reports
`)

	settings, err := LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, "reports", settings.Output.Dir)
	assert.Equal(t, "info", settings.Logging.Level, "unset keys keep their defaults")
}

func TestLoadSettings_ExplicitFile(t *testing.T) {
	home := isolate(t)
	path := writeConfig(t, filepath.Join(home, "elsewhere"), `
export:
  workbook: true
history:
  enabled: true
  db_path: /var/lib/aqp/history.sqlite
logging:
  level: debug
  format: json
`)

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.True(t, settings.Export.Workbook)
	assert.True(t, settings.History.Enabled)
	assert.Equal(t, "/var/lib/aqp/history.sqlite", settings.DBPath())
	assert.Equal(t, "debug", settings.Logging.Level)
	assert.Equal(t, "json", settings.Logging.Format)
}

func TestLoadSettings_EnvironmentOverridesFile(t *testing.T) {
	home := isolate(t)
	path := writeConfig(t, home, `
output:
  dir: reports
logging:
  level: warn
`)
	t.Setenv("AQP_LOGGING_LEVEL", "debug")
	t.Setenv("AQP_HISTORY_ENABLED", "true")

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", settings.Logging.Level)
	assert.True(t, settings.History.Enabled)
	assert.Equal(t, "reports", settings.Output.Dir)
}

func TestLoadSettings_IgnoresGeneratorKeys(t *testing.T) {
	home := isolate(t)
	path := writeConfig(t, home, `
generator:
  rows: 20
  seed: 7
`)
	t.Setenv("AQP_GENERATOR_ROWS", "20")
	t.Setenv("AQP_GENERATOR_SEED", "7")

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultSettings(), settings)
}

func TestLoadSettings_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		missing bool
		invalid bool
	}{
		{name: "missing explicit file", missing: true},
		{name: "malformed yaml", content: "output: [dir"},
		{name: "unknown log level", content: "logging:\n  level: loud\n", invalid: true},
		{name: "empty output dir", content: "output:\n  dir: \"\"\n", invalid: true},
		{name: "bad environment value", env: map[string]string{"AQP_HISTORY_ENABLED": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := isolate(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			path := filepath.Join(home, "missing.yaml")
			if !tt.missing {
				path = writeConfig(t, home, tt.content)
			}

			settings, err := LoadSettings(path)
			require.Error(t, err)
			assert.Nil(t, settings)

			var validationErr *ValidationError
			assert.Equal(t, tt.invalid, errors.As(err, &validationErr))
		})
	}
}

func TestSettings_Validate(t *testing.T) {
	settings := DefaultSettings()
	settings.Output.Dir = ""
	settings.Logging.Format = "xml"

	err := settings.Validate()

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Len(t, validationErr.Fields, 2)
	assert.Contains(t, err.Error(), "Settings.Output.Dir (required)")
	assert.Contains(t, err.Error(), "Settings.Logging.Format (oneof)")
}

func TestSettings_DBPath(t *testing.T) {
	home := isolate(t)

	settings := DefaultSettings()
	assert.Equal(t, filepath.Join(home, "data", APP_DIR_NAME, DB_NAME), settings.DBPath())

	settings.History.DBPath = "/tmp/custom.sqlite"
	assert.Equal(t, "/tmp/custom.sqlite", settings.DBPath())
}

func TestAppDir(t *testing.T) {
	t.Run("xdg variable", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
		assert.Equal(t, filepath.Join("/xdg/config", APP_DIR_NAME), ConfigDir())
		assert.Equal(t, filepath.Join("/xdg/config", APP_DIR_NAME, CONFIG_FILE_NAME), DefaultConfigPath())
	})

	t.Run("existing home subdirectory", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("XDG_DATA_HOME", "")
		require.NoError(t, os.MkdirAll(filepath.Join(home, ".local", "share"), 0o755))

		assert.Equal(t, filepath.Join(home, ".local", "share", APP_DIR_NAME), DataDir())
	})

	t.Run("dot directory fallback", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("XDG_CONFIG_HOME", "")

		assert.Equal(t, filepath.Join(home, "."+APP_DIR_NAME), ConfigDir())
	})
}

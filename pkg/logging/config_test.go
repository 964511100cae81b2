package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/henkan/pkg/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestConfigFunctions(t *testing.T) {
	original := *logging.Default()
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(originalLevel)
	})

	t.Run("DefaultConfig", func(t *testing.T) {
		cfg := logging.DefaultConfig()
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "auto", cfg.Format)
		assert.Equal(t, "stderr", cfg.Output)
		assert.False(t, cfg.AddCaller)
	})

	t.Run("file output with default fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "henkan.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "debug",
			Format: "json",
			Output: path,
			Fields: map[string]any{"service": "henkan"},
		})
		logger.Info().Msg("file message")

		output := readLog(t, path)
		assert.Contains(t, output, "file message")
		assert.Contains(t, output, `"service":"henkan"`)
		assert.Contains(t, output, `"caller"`)
	})

	t.Run("Configure filters below level", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "henkan.log")
		logging.Configure(&logging.Config{Level: "warn", Format: "json", Output: path})

		logging.Debug().Msg("debug message")
		logging.Info().Msg("info message")
		logging.Warn().Msg("warn message")

		output := readLog(t, path)
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warn message")
	})

	t.Run("console format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "henkan.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:   "info",
			Format:  "console",
			Output:  path,
			NoColor: true,
		})
		logger.Info().Msg("console test")

		output := readLog(t, path)
		assert.Contains(t, output, "console test")
		assert.Contains(t, output, "INF")
	})

	t.Run("auto format on a file is JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "henkan.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "info", Format: "auto", Output: path})
		logger.Info().Msg("auto")
		assert.Contains(t, readLog(t, path), `"message":"auto"`)
	})

	t.Run("discard output", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "info", Format: "auto", Output: "discard"})
		logger.Info().Msg("nowhere")
	})

	t.Run("ConfigureFromEnv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "env.log")
		t.Setenv("LOG_LEVEL", "error")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("LOG_OUTPUT", path)
		t.Setenv("LOG_FIELDS", "app=henkan, env=test")

		logging.ConfigureFromEnv()
		logging.Warn().Msg("hidden")
		logging.Error().Msg("shown")

		output := readLog(t, path)
		assert.NotContains(t, output, "hidden")
		assert.Contains(t, output, "shown")
		assert.Contains(t, output, `"env":"test"`)
	})

	t.Run("levels", func(t *testing.T) {
		tests := []struct {
			level     string
			logFunc   func() *zerolog.Event
			shouldLog bool
		}{
			{"debug", logging.Debug, true},
			{"info", logging.Debug, false},
			{"warning", logging.Warn, true},
			{"warning", logging.Info, false},
			{"error", logging.Error, true},
			{"off", logging.Error, false},
			{"bogus", logging.Info, true},
		}

		for _, tt := range tests {
			t.Run(tt.level, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "level.log")
				logging.Configure(&logging.Config{Level: tt.level, Format: "json", Output: path})
				tt.logFunc().Msg("level-test")

				output := readLog(t, path)
				if tt.shouldLog {
					assert.Contains(t, output, "level-test")
				} else {
					assert.NotContains(t, output, "level-test")
				}
			})
		}
	})
}

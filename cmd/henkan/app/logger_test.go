package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		want    string
		warning string
	}{
		{name: "default", config: Config{}, want: "info"},
		{name: "verbose", config: Config{Verbose: true}, want: "debug"},
		{name: "quiet", config: Config{Quiet: true}, want: "warn"},
		{name: "verbose and quiet", config: Config{Verbose: true, Quiet: true}, want: "warn", warning: "both --verbose and --quiet"},
		{name: "explicit level wins", config: Config{Verbose: true, LogLevel: "error"}, want: "error"},
		{name: "invalid level", config: Config{LogLevel: "loud"}, want: "info", warning: `invalid log level "loud"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warnings bytes.Buffer
			cfg := tt.config
			assert.Equal(t, tt.want, determineLogLevel(&cfg, &warnings))
			if tt.warning == "" {
				assert.Empty(t, warnings.String())
			} else {
				assert.Contains(t, warnings.String(), tt.warning)
			}
		})
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var warnings bytes.Buffer
	logger := newLogger(&Config{Quiet: true, LogFormat: "json", LogOutput: "discard"}, &warnings)
	assert.Equal(t, "warn", logger.GetLevel().String())
	assert.Empty(t, warnings.String())
}

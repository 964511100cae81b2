// Package app provides the application context and dependency management
// for the henkan CLI: configuration, logging and the shared converter.
package app

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/henkan"
	"github.com/agentstation/henkan/cmd/application"
	"github.com/agentstation/henkan/internal/server"
	"github.com/agentstation/henkan/pkg/candidates"
	"github.com/agentstation/henkan/pkg/engine"
	"github.com/agentstation/henkan/pkg/errors"
)

var _ application.Application = (*App)(nil)

// App represents the henkan application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	out    io.Writer

	// Converter instance (lazy-initialized, singleton)
	mu        sync.RWMutex
	converter henkan.Converter
}

// New creates an App with configuration loaded by LoadConfig.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// ServerConfig returns the API server configuration from the loaded config.
// A configured API key turns authentication on.
func (a *App) ServerConfig() server.Config {
	cfg := server.DefaultConfig()
	if a.config.Host != "" {
		cfg.Host = a.config.Host
	}
	if a.config.Port != 0 {
		cfg.Port = a.config.Port
	}
	if a.config.PathPrefix != "" {
		cfg.PathPrefix = a.config.PathPrefix
	}
	if a.config.APIKey != "" {
		cfg.APIKey = a.config.APIKey
		cfg.AuthEnabled = true
	}
	return cfg
}

// CandidateFormat returns the blob layout the engine answers with.
func (a *App) CandidateFormat() candidates.Format {
	if a.config.LegacyFormat {
		return candidates.FormatLegacy
	}
	return candidates.FormatStructured
}

// EngineConfig returns the engine configuration built from the app configuration.
func (a *App) EngineConfig() *engine.Config {
	return a.config.EngineConfig()
}

// Converter returns the converter, creating it on first use.
func (a *App) Converter() (henkan.Converter, error) {
	a.mu.RLock()
	if a.converter != nil {
		conv := a.converter
		a.mu.RUnlock()
		return conv, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.converter != nil {
		return a.converter, nil
	}

	opts := []henkan.Option{
		henkan.WithEngineConfig(a.EngineConfig()),
		henkan.WithLogger(a.logger),
	}
	if a.config.LegacyFormat {
		opts = append(opts, henkan.WithLegacyFormat())
	}

	conv, err := henkan.New(opts...)
	if err != nil {
		return nil, errors.WrapResource("create", "converter", a.config.Engine, err)
	}

	a.converter = conv
	return conv, nil
}

// Shutdown closes the converter if one was created.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	conv := a.converter
	a.converter = nil
	a.mu.Unlock()

	if conv == nil {
		return nil
	}
	return conv.Close()
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "cannot be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithConverter sets the converter instead of building one from configuration.
func WithConverter(conv henkan.Converter) Option {
	return func(a *App) error {
		a.converter = conv
		return nil
	}
}

// WithOutput redirects command output, which goes to stdout by default.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}

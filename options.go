package henkan

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/henkan/pkg/candidates"
	"github.com/agentstation/henkan/pkg/engine"
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/reconciler"
)

// options holds the configuration of a Converter.
type options struct {
	engine       engine.Engine
	engineConfig *engine.Config
	format       candidates.Format
	reconciler   reconciler.Reconciler
	logger       *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		format: candidates.FormatStructured,
	}
}

// Option configures a Converter.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.engineConfig == nil {
		o.engineConfig = engine.DefaultConfig()
	}
	return o, nil
}

func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithEngine uses e instead of building an engine from configuration.
func WithEngine(e engine.Engine) Option {
	return func(o *options) error {
		if e == nil {
			return errors.NewValidationError("engine", nil, "cannot be nil")
		}
		o.engine = e
		return nil
	}
}

// WithEngineConfig sets the configuration the engine is built and initialized with.
func WithEngineConfig(cfg *engine.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.NewValidationError("engine_config", nil, "cannot be nil")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		o.engineConfig = cfg
		return nil
	}
}

// WithLegacyFormat makes the converter read engine blobs as flat string arrays.
func WithLegacyFormat() Option {
	return func(o *options) error {
		o.format = candidates.FormatLegacy
		return nil
	}
}

// WithFormat sets the blob format explicitly.
func WithFormat(format candidates.Format) Option {
	return func(o *options) error {
		o.format = format
		return nil
	}
}

// WithReconciler replaces the default reconciler.
func WithReconciler(r reconciler.Reconciler) Option {
	return func(o *options) error {
		if r == nil {
			return errors.NewValidationError("reconciler", nil, "cannot be nil")
		}
		o.reconciler = r
		return nil
	}
}

// WithLogger sets the logger used when a call's context carries none.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

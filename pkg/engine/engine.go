// Package engine defines the boundary to a conversion engine.
//
// An engine is a stateful, single-session collaborator: text is cleared and
// appended, then candidates for the current text are fetched as a raw blob.
// Optional capabilities (buffer release, Zenzai neural conversion) are
// discovered with type assertions; an engine lacking them still works.
package engine

import (
	"context"
	"slices"

	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/logging"
)

// Engine is the capability every conversion engine provides.
type Engine interface {
	// Initialize sets up the session. Empty paths mean unset.
	Initialize(dictionaryPath, memoryPath string) error

	// ClearText resets the input buffer.
	ClearText()

	// AppendText feeds reading characters into the input buffer.
	AppendText(text string)

	// GetCandidates returns the raw candidate blob for the current buffer.
	GetCandidates(ctx context.Context) ([]byte, error)

	// Shutdown tears the session down.
	Shutdown() error
}

// Releaser is implemented by engines whose blobs must be handed back once copied.
type Releaser interface {
	FreeString(blob []byte)
}

// ZenzaiController is implemented by engines supporting Zenzai neural conversion.
type ZenzaiController interface {
	SetZenzaiEnabled(enabled bool)
	SetZenzaiInferenceLimit(limit int)
	SetZenzaiWeightPath(path string)
}

// Status describes an engine as configured by Apply.
type Status struct {
	Type            Type   `json:"type" yaml:"type"`
	Initialized     bool   `json:"initialized" yaml:"initialized"`
	ZenzaiSupported bool   `json:"zenzai_supported" yaml:"zenzai_supported"`
	ZenzaiActive    bool   `json:"zenzai_active" yaml:"zenzai_active"`
	WeightPath      string `json:"weight_path,omitempty" yaml:"weight_path,omitempty"`
	ModelVersion    string `json:"model_version,omitempty" yaml:"model_version,omitempty"`
	InferenceLimit  int    `json:"inference_limit" yaml:"inference_limit"`
}

// Apply initializes e and configures its optional capabilities from cfg.
//
// The sequence is Initialize, SetZenzaiEnabled, SetZenzaiInferenceLimit and,
// only when a weight path is known, SetZenzaiWeightPath. Capabilities the
// engine does not implement are skipped.
func Apply(ctx context.Context, e Engine, cfg *Config) (Status, error) {
	if e == nil {
		return Status{}, errors.NewEngineError("", "initialize", "no engine", nil)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	logger := logging.FromContext(ctx).With().Str("engine", string(cfg.Type)).Logger()
	status := Status{Type: cfg.Type, InferenceLimit: cfg.Zenzai.InferenceLimit}

	if err := e.Initialize(cfg.DictionaryPath, cfg.MemoryPath); err != nil {
		return status, errors.WrapEngine(string(cfg.Type), "initialize", err)
	}
	status.Initialized = true

	if zc, ok := e.(ZenzaiController); ok {
		status.ZenzaiSupported = true
		zc.SetZenzaiEnabled(cfg.Zenzai.Enabled)
		zc.SetZenzaiInferenceLimit(cfg.Zenzai.InferenceLimit)
		if cfg.Zenzai.WeightPath != "" {
			zc.SetZenzaiWeightPath(cfg.Zenzai.WeightPath)
			status.WeightPath = cfg.Zenzai.WeightPath
		}
		status.ZenzaiActive = cfg.Zenzai.Active()
		if status.ZenzaiActive {
			status.ModelVersion = cfg.Zenzai.ModelVersion()
		}
	} else if cfg.Zenzai.Enabled {
		logger.Debug().Msg("Engine has no Zenzai support, continuing without it")
	}

	logger.Info().
		Bool("zenzai", status.ZenzaiActive).
		Str("weight_path", status.WeightPath).
		Msg("Engine initialized")
	return status, nil
}

// Fetch runs one engine session for text: clear, append, fetch and release.
// The returned blob is owned by the caller.
func Fetch(ctx context.Context, e Engine, text string) ([]byte, error) {
	e.ClearText()
	e.AppendText(text)

	blob, err := e.GetCandidates(ctx)
	if err != nil {
		return nil, err
	}

	out := slices.Clone(blob)
	if r, ok := e.(Releaser); ok && blob != nil {
		r.FreeString(blob)
	}
	return out, nil
}

// Package henkan reconciles the candidates a kana-kanji conversion engine
// reports for a reading and writes them into conversion segments.
//
// An engine answers with candidates that may cover only a prefix of the
// reading. henkan parses the engine's blob tolerantly, normalizes every
// candidate so that it covers the whole reading, ranks the result with
// engine-independent costs and fills the caller's segments.
//
// Example usage:
//
//	eng := memory.New(memory.WithEntries(map[string][]string{
//	    "とうきょう": {"東京"},
//	    "と":     {"都"},
//	}))
//
//	conv, err := henkan.New(henkan.WithEngine(eng))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	segs := segments.New("とうきょう")
//	if err := conv.Convert(ctx, segs); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(segs.TopValues()) // [東京]
package henkan

import (
	"context"
	"sync"

	"github.com/agentstation/henkan/pkg/engine"
	"github.com/agentstation/henkan/pkg/engine/memory"
	"github.com/agentstation/henkan/pkg/engine/remote"
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/logging"
	"github.com/agentstation/henkan/pkg/reconciler"
	"github.com/agentstation/henkan/pkg/segments"
)

// Compile-time interface check to ensure proper implementation.
var _ Converter = (*client)(nil)

// Converter converts readings held in segments.
type Converter interface {
	// Convert fills every conversion segment from its own key.
	// Segments with empty keys and segments whose lookup fails are skipped.
	Convert(ctx context.Context, segs *segments.Segments) error

	// ConvertKey replaces all conversion segments with a single free segment
	// for key. Partial candidates are completed with the rest of the reading.
	ConvertKey(ctx context.Context, key string, segs *segments.Segments) error

	// ConvertResized refills the first conversion segment with the candidates
	// that cover key exactly. Other segments are left untouched.
	ConvertResized(ctx context.Context, key string, segs *segments.Segments) error

	// Candidates returns the engine's raw blob for key.
	Candidates(ctx context.Context, key string) ([]byte, error)

	// Reconcile looks key up and reconciles the answer under mode without
	// touching any segments.
	Reconcile(ctx context.Context, key string, mode reconciler.Mode) (*reconciler.Result, error)

	// Status describes the engine as it was configured.
	Status() engine.Status

	// Hooks
	OnSegmentConverted(SegmentConvertedHook)
	OnFallback(FallbackHook)

	// Close shuts the engine down. Later calls fail with ErrEngineUnavailable.
	Close() error
}

// client is the Converter implementation. The engine is single-session,
// so every session (clear, append, fetch, release) runs under mu.
type client struct {
	mu         sync.Mutex
	engine     engine.Engine
	status     engine.Status
	reconciler reconciler.Reconciler
	options    *options
	hooks      *hooks
	closed     bool
}

// New creates a Converter.
//
// Without WithEngine the engine is built from the engine configuration
// (WithEngineConfig, or engine.DefaultConfig). The engine is initialized and
// configured with engine.Apply before New returns.
func New(opts ...Option) (Converter, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	ctx := logging.WithOperation(context.Background(), "new")
	if options.logger != nil {
		ctx = logging.WithLogger(ctx, options.logger)
	}

	eng := options.engine
	if eng == nil {
		eng, err = build(options.engineConfig)
		if err != nil {
			return nil, err
		}
	}

	status, err := engine.Apply(ctx, eng, options.engineConfig)
	if err != nil {
		return nil, err
	}

	rec := options.reconciler
	if rec == nil {
		rec, err = reconciler.New()
		if err != nil {
			return nil, err
		}
	}

	return &client{
		engine:     eng,
		status:     status,
		reconciler: rec,
		options:    options,
		hooks:      newHooks(),
	}, nil
}

// build creates the engine named by cfg.
func build(cfg *engine.Config) (engine.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Type {
	case engine.TypeRemote:
		return remote.FromConfig(cfg)
	case engine.TypeMemory:
		return memory.New(), nil
	}
	return nil, errors.NewConfigError("engine", "unsupported engine "+cfg.Type.String(), nil)
}

// Status implements Converter.
func (c *client) Status() engine.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	status := c.status
	if c.closed {
		status.Initialized = false
	}
	return status
}

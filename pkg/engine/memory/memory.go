// Package memory provides an in-process conversion engine backed by a dictionary.
//
// For a buffer of K characters the engine answers with the exact dictionary
// entries for the whole buffer, followed by the entries of ever shorter
// prefixes, each annotated with the number of characters it covers. That is
// the shape a real engine produces, which makes this engine a faithful
// stand-in in tests and a usable default for the CLI and server.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/agentstation/henkan/pkg/candidates"
	"github.com/agentstation/henkan/pkg/chars"
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/engine"
)

const engineName = "memory"

// Engine is an in-memory conversion engine. It is safe for concurrent use,
// although the session semantics make concurrent sessions meaningless.
type Engine struct {
	mu sync.Mutex

	dict   *Dictionary
	format candidates.Format
	getErr error

	buf         strings.Builder
	initialized bool
	closed      bool

	dictionaryPath string
	memoryPath     string

	zenzaiEnabled bool
	zenzaiLimit   int
	zenzaiWeights string

	released int
	requests []string
}

var (
	_ engine.Engine           = (*Engine)(nil)
	_ engine.Releaser         = (*Engine)(nil)
	_ engine.ZenzaiController = (*Engine)(nil)
)

// Option configures an Engine.
type Option func(*Engine)

// WithEntries adds dictionary entries.
func WithEntries(entries map[string][]string) Option {
	return func(e *Engine) {
		e.dict.Merge(&Dictionary{Readings: entries})
	}
}

// WithDictionary merges a loaded dictionary.
func WithDictionary(dict *Dictionary) Option {
	return func(e *Engine) {
		e.dict.Merge(dict)
	}
}

// WithBlob makes the engine answer reading with blob verbatim.
func WithBlob(reading string, blob []byte) Option {
	return func(e *Engine) {
		e.dict.Merge(&Dictionary{Blobs: map[string]string{reading: string(blob)}})
	}
}

// WithLegacyOutput makes the engine answer with a flat string array.
func WithLegacyOutput() Option {
	return func(e *Engine) {
		e.format = candidates.FormatLegacy
	}
}

// WithGetCandidatesError makes every GetCandidates call fail with err.
func WithGetCandidatesError(err error) Option {
	return func(e *Engine) {
		e.getErr = err
	}
}

// New creates a memory engine. It must still be initialized.
func New(opts ...Option) *Engine {
	e := &Engine{dict: &Dictionary{Readings: make(map[string][]string)}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize implements engine.Engine. A non-empty dictionaryPath is loaded
// and merged into the entries given at construction.
func (e *Engine) Initialize(dictionaryPath, memoryPath string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return errors.NewEngineError(engineName, "initialize", "engine is shut down", nil)
	}
	if dictionaryPath != "" {
		dict, err := LoadDictionary(dictionaryPath)
		if err != nil {
			return errors.WrapEngine(engineName, "initialize", err)
		}
		e.dict.Merge(dict)
	}
	e.dictionaryPath = dictionaryPath
	e.memoryPath = memoryPath
	e.initialized = true
	return nil
}

// ClearText implements engine.Engine.
func (e *Engine) ClearText() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.Reset()
}

// AppendText implements engine.Engine.
func (e *Engine) AppendText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.WriteString(text)
}

// GetCandidates implements engine.Engine.
func (e *Engine) GetCandidates(_ context.Context) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized || e.closed {
		return nil, errors.NewEngineError(engineName, "get_candidates", "engine is not initialized", nil)
	}
	if e.getErr != nil {
		return nil, errors.WrapEngine(engineName, "get_candidates", e.getErr)
	}

	text := e.buf.String()
	e.requests = append(e.requests, text)

	if blob, ok := e.dict.Blobs[text]; ok {
		return []byte(blob), nil
	}

	list := e.lookup(text)
	if e.format == candidates.FormatLegacy {
		texts := make([]string, len(list))
		for i, c := range list {
			texts[i] = c.Text
		}
		return candidates.EncodeStrings(texts)
	}
	return candidates.Encode(list)
}

// lookup returns the exact entries for text followed by the entries of its
// prefixes, longest first.
func (e *Engine) lookup(text string) []candidates.Raw {
	length := chars.Count(text)
	var out []candidates.Raw
	for n := length; n > 0; n-- {
		prefix := chars.Prefix(text, n)
		for _, value := range e.dict.Readings[prefix] {
			out = append(out, candidates.Raw{Text: value, Coverage: n})
		}
	}
	return out
}

// FreeString implements engine.Releaser.
func (e *Engine) FreeString(_ []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.released++
}

// SetZenzaiEnabled implements engine.ZenzaiController.
func (e *Engine) SetZenzaiEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.zenzaiEnabled = enabled
}

// SetZenzaiInferenceLimit implements engine.ZenzaiController.
func (e *Engine) SetZenzaiInferenceLimit(limit int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.zenzaiLimit = limit
}

// SetZenzaiWeightPath implements engine.ZenzaiController.
func (e *Engine) SetZenzaiWeightPath(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.zenzaiWeights = path
}

// Shutdown implements engine.Engine.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.initialized = false
	return nil
}

// Zenzai returns the settings received through engine.ZenzaiController.
func (e *Engine) Zenzai() (enabled bool, limit int, weightPath string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.zenzaiEnabled, e.zenzaiLimit, e.zenzaiWeights
}

// Paths returns the paths received by Initialize.
func (e *Engine) Paths() (dictionaryPath, memoryPath string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dictionaryPath, e.memoryPath
}

// Released returns how many blobs were handed back with FreeString.
func (e *Engine) Released() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.released
}

// Requests returns the buffer contents of every GetCandidates call, in order.
func (e *Engine) Requests() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.requests...)
}

// Initialized reports whether the engine is ready to answer.
func (e *Engine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized && !e.closed
}

// Package remote provides an engine that delegates candidate lookup to a
// henkan server over HTTP.
//
// Text is buffered locally. Only GetCandidates and Initialize talk to the
// server, so a session costs a single round trip.
package remote

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/agentstation/henkan/internal/transport"
	"github.com/agentstation/henkan/pkg/constants"
	"github.com/agentstation/henkan/pkg/engine"
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/logging"
)

const engineName = "remote"

const (
	healthPath     = "/health"
	candidatesPath = "/engine/candidates"
)

// CandidatesRequest is the body POSTed to the candidates endpoint.
type CandidatesRequest struct {
	Text string `json:"text"`
}

// CandidatesResponse carries the engine blob verbatim. The blob is a string
// because it is not guaranteed to be well-formed.
type CandidatesResponse struct {
	Text string `json:"text"`
	Blob string `json:"blob"`
}

// envelope mirrors the server's response format.
type envelope[T any] struct {
	Data  T `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details,omitempty"`
	} `json:"error"`
}

// Engine is a remote engine client.
type Engine struct {
	client *transport.Client

	mu          sync.Mutex
	buf         strings.Builder
	initialized bool
	closed      bool
}

var _ engine.Engine = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithHTTPClient replaces the HTTP client, e.g. with an httptest server client.
func WithHTTPClient(hc *http.Client) Option {
	return func(e *Engine) {
		e.client.WithHTTPClient(hc)
	}
}

// New creates a remote engine for the server at baseURL, e.g.
// "http://localhost:8080/api/v1". A non-empty apiKey is sent in X-API-Key.
func New(baseURL, apiKey string, opts ...Option) *Engine {
	e := &Engine{
		client: transport.New(baseURL, transport.Header(transport.DefaultAPIKeyHeader), apiKey),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FromConfig creates a remote engine from an engine configuration.
func FromConfig(cfg *engine.Config) (*Engine, error) {
	if cfg == nil || cfg.RemoteURL == "" {
		return nil, errors.NewValidationError("remote_url", "", "required for the remote engine")
	}
	return New(cfg.RemoteURL, cfg.RemoteAPIKey), nil
}

// Initialize probes the server's health endpoint. The paths are owned by the
// server and ignored here.
func (e *Engine) Initialize(_, _ string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return errors.NewEngineError(engineName, "initialize", "engine is shut down", nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()

	resp, err := e.client.Get(ctx, healthPath)
	if err != nil {
		return errors.WrapEngine(engineName, "initialize", err)
	}
	if err := transport.DecodeResponse(resp, nil); err != nil {
		return errors.WrapEngine(engineName, "initialize", err)
	}

	e.initialized = true
	logging.Debug().Str("url", e.client.BaseURL()).Msg("Remote engine reachable")
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

// GetCandidates sends the buffered text to the server and returns its blob.
func (e *Engine) GetCandidates(ctx context.Context) ([]byte, error) {
	e.mu.Lock()
	text := e.buf.String()
	ready := e.initialized && !e.closed
	e.mu.Unlock()

	if !ready {
		return nil, errors.NewEngineError(engineName, "get_candidates", "engine is not initialized", nil)
	}

	resp, err := e.client.PostJSON(ctx, candidatesPath, CandidatesRequest{Text: text})
	if err != nil {
		return nil, errors.WrapEngine(engineName, "get_candidates", err)
	}

	var out envelope[CandidatesResponse]
	if err := transport.DecodeResponse(resp, &out); err != nil {
		return nil, errors.WrapEngine(engineName, "get_candidates", err)
	}
	if out.Error != nil {
		return nil, errors.NewEngineError(engineName, "get_candidates", out.Error.Message, nil)
	}

	logging.FromContext(ctx).Debug().
		Str("text", text).
		Int("bytes", len(out.Data.Blob)).
		Msg("Fetched remote candidates")
	return []byte(out.Data.Blob), nil
}

// Shutdown implements engine.Engine. The server session is left untouched.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.initialized = false
	return nil
}

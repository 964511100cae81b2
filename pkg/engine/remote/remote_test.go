package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/henkan/pkg/engine"
	"github.com/agentstation/henkan/pkg/errors"
)

type fakeServer struct {
	blobs    map[string]string
	apiKey   string
	requests []string
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"status":"healthy"},"error":null}`))
	})
	mux.HandleFunc("/api/v1/engine/candidates", func(w http.ResponseWriter, r *http.Request) {
		if f.apiKey != "" && r.Header.Get("X-API-Key") != f.apiKey {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"data":null,"error":{"code":"UNAUTHORIZED","message":"Invalid API key"}}`))
			return
		}
		var req CandidatesRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.requests = append(f.requests, req.Text)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":  CandidatesResponse{Text: req.Text, Blob: f.blobs[req.Text]},
			"error": nil,
		})
	})
	return mux
}

func TestRemoteEngine(t *testing.T) {
	fake := &fakeServer{blobs: map[string]string{"abc": `[{"text": "abc`}}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	e := New(srv.URL+"/api/v1/", "")
	require.NoError(t, e.Initialize("", ""))

	blob, err := engine.Fetch(context.Background(), e, "abc")
	require.NoError(t, err)
	assert.Equal(t, `[{"text": "abc`, string(blob))
	assert.Equal(t, []string{"abc"}, fake.requests)
}

func TestRemoteEngineAPIKey(t *testing.T) {
	fake := &fakeServer{apiKey: "secret", blobs: map[string]string{"a": `["a"]`}}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	t.Run("accepted", func(t *testing.T) {
		e := New(srv.URL+"/api/v1", "secret")
		require.NoError(t, e.Initialize("", ""))
		blob, err := engine.Fetch(context.Background(), e, "a")
		require.NoError(t, err)
		assert.Equal(t, `["a"]`, string(blob))
	})

	t.Run("rejected", func(t *testing.T) {
		e := New(srv.URL+"/api/v1", "wrong")
		require.NoError(t, e.Initialize("", ""))
		_, err := engine.Fetch(context.Background(), e, "a")
		require.Error(t, err)
		assert.True(t, errors.IsEngineUnavailable(err))
		assert.True(t, errors.IsUnauthorized(err))
	})
}

func TestRemoteEngineUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	e := New(url, "")
	err := e.Initialize("", "")
	require.Error(t, err)
	assert.True(t, errors.IsEngineUnavailable(err))
}

func TestRemoteEngineNotInitialized(t *testing.T) {
	e := New("http://localhost:0", "")
	_, err := e.GetCandidates(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsEngineUnavailable(err))
}

func TestRemoteEngineShutdown(t *testing.T) {
	fake := &fakeServer{}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	e := New(srv.URL+"/api/v1", "")
	require.NoError(t, e.Initialize("", ""))
	require.NoError(t, e.Shutdown())

	_, err := e.GetCandidates(context.Background())
	require.Error(t, err)
	assert.Empty(t, fake.requests)
	assert.Error(t, e.Initialize("", ""))
}

func TestFromConfig(t *testing.T) {
	_, err := FromConfig(&engine.Config{Type: engine.TypeRemote})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	e, err := FromConfig(&engine.Config{Type: engine.TypeRemote, RemoteURL: "http://localhost:8080/api/v1"})
	require.NoError(t, err)
	assert.NotNil(t, e)
}

package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/henkan"
	"github.com/agentstation/henkan/cmd/application"
	"github.com/agentstation/henkan/internal/server"
	"github.com/agentstation/henkan/pkg/engine/memory"
	"github.com/agentstation/henkan/pkg/logging"
)

func newTestApp(t *testing.T) *application.Mock {
	t.Helper()
	logging.DisableLoggingForTest(t)

	conv, err := henkan.New(henkan.WithEngine(memory.New(memory.WithEntries(map[string][]string{
		"か": {"火"},
	}))))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conv.Close() })

	return &application.Mock{
		ConverterFunc: func() (henkan.Converter, error) { return conv, nil },
	}
}

func TestRunServesUntilCancelled(t *testing.T) {
	app := newTestApp(t)
	cfg := server.DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrs := make(chan net.Addr, 1)
	errs := make(chan error, 1)
	go func() {
		errs <- Run(ctx, app, cfg, func(addr net.Addr) { addrs <- addr })
	}()

	var base string
	select {
	case addr := <-addrs:
		base = "http://" + addr.String()
	case err := <-errs:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get(base + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := strings.NewReader(`{"reading":"か"}`)
	resp, err = http.Post(base+cfg.PathPrefix+"/convert", "application/json", body)
	require.NoError(t, err)
	var envelope struct {
		Data struct {
			Top []string `json:"top"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	_ = resp.Body.Close()
	assert.Equal(t, []string{"火"}, envelope.Data.Top)

	cancel()
	select {
	case err := <-errs:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout):
		t.Fatal("server did not shut down")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	app := newTestApp(t)
	cfg := server.DefaultConfig()
	cfg.AuthEnabled = true

	err := Run(context.Background(), app, cfg, nil)
	require.Error(t, err)
}

func TestRunListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	app := newTestApp(t)
	cfg := server.DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = ln.Addr().(*net.TCPAddr).Port

	err = Run(context.Background(), app, cfg, nil)
	require.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	cmd := NewCommand(newTestApp(t), nil)
	require.NoError(t, cmd.ParseFlags([]string{
		"--port", "9090",
		"--cors-origins", "https://a.example,https://b.example",
		"--auth", "--api-key", "secret",
		"--rate-limit", "0",
		"--read-timeout", "3s",
	}))

	cfg := server.Config{Host: "0.0.0.0", Port: 1, PathPrefix: "/v2"}
	applyFlags(cmd, &cfg)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/v2", cfg.PathPrefix)
	assert.True(t, cfg.CORSEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.AuthEnabled)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 0, cfg.RateLimit)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
}

func TestCommandUsesDefaults(t *testing.T) {
	app := newTestApp(t)
	called := false
	cmd := NewCommand(app, func() server.Config {
		called = true
		cfg := server.DefaultConfig()
		cfg.AuthEnabled = true
		return cfg
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.True(t, called)
}

package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/logging"
)

// recorder is an engine that records every call it receives.
type recorder struct {
	calls   []string
	blob    []byte
	initErr error
	getErr  error
	text    string
}

func (r *recorder) Initialize(dict, mem string) error {
	r.calls = append(r.calls, fmt.Sprintf("Initialize(%s,%s)", dict, mem))
	return r.initErr
}

func (r *recorder) ClearText() {
	r.calls = append(r.calls, "ClearText")
	r.text = ""
}

func (r *recorder) AppendText(text string) {
	r.calls = append(r.calls, "AppendText("+text+")")
	r.text += text
}

func (r *recorder) GetCandidates(context.Context) ([]byte, error) {
	r.calls = append(r.calls, "GetCandidates")
	return r.blob, r.getErr
}

func (r *recorder) Shutdown() error {
	r.calls = append(r.calls, "Shutdown")
	return nil
}

// zenzaiRecorder adds the optional capabilities.
type zenzaiRecorder struct {
	recorder
	freed [][]byte
}

func (z *zenzaiRecorder) SetZenzaiEnabled(enabled bool) {
	z.calls = append(z.calls, fmt.Sprintf("SetZenzaiEnabled(%t)", enabled))
}

func (z *zenzaiRecorder) SetZenzaiInferenceLimit(limit int) {
	z.calls = append(z.calls, fmt.Sprintf("SetZenzaiInferenceLimit(%d)", limit))
}

func (z *zenzaiRecorder) SetZenzaiWeightPath(path string) {
	z.calls = append(z.calls, "SetZenzaiWeightPath("+path+")")
}

func (z *zenzaiRecorder) FreeString(blob []byte) {
	z.calls = append(z.calls, "FreeString")
	z.freed = append(z.freed, blob)
}

func TestApplyOrder(t *testing.T) {
	logging.DisableLoggingForTest(t)

	tests := []struct {
		name   string
		zenzai ZenzaiConfig
		want   []string
	}{
		{
			name:   "model present",
			zenzai: ZenzaiConfig{Enabled: true, InferenceLimit: 10, WeightPath: "/models/ggml-model-Q5_K_M.gguf"},
			want: []string{
				"Initialize(dict,mem)",
				"SetZenzaiEnabled(true)",
				"SetZenzaiInferenceLimit(10)",
				"SetZenzaiWeightPath(/models/ggml-model-Q5_K_M.gguf)",
			},
		},
		{
			name:   "model absent",
			zenzai: ZenzaiConfig{Enabled: false, InferenceLimit: 10},
			want: []string{
				"Initialize(dict,mem)",
				"SetZenzaiEnabled(false)",
				"SetZenzaiInferenceLimit(10)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &zenzaiRecorder{}
			cfg := &Config{Type: TypeMemory, DictionaryPath: "dict", MemoryPath: "mem", Zenzai: tt.zenzai}

			status, err := Apply(context.Background(), e, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.calls)
			assert.True(t, status.Initialized)
			assert.True(t, status.ZenzaiSupported)
			assert.Equal(t, tt.zenzai.Active(), status.ZenzaiActive)
			assert.Equal(t, 10, status.InferenceLimit)
		})
	}
}

func TestApplyActiveReportsModelVersion(t *testing.T) {
	logging.DisableLoggingForTest(t)

	e := &zenzaiRecorder{}
	cfg := &Config{Type: TypeMemory, Zenzai: ZenzaiConfig{Enabled: true, InferenceLimit: 10, WeightPath: "/w.gguf"}}

	status, err := Apply(context.Background(), e, cfg)
	require.NoError(t, err)
	assert.Equal(t, "zenz-v3.1-small", status.ModelVersion)
	assert.Equal(t, "/w.gguf", status.WeightPath)
}

func TestApplyWithoutZenzaiSupport(t *testing.T) {
	logging.DisableLoggingForTest(t)

	e := &recorder{}
	cfg := &Config{Type: TypeMemory, Zenzai: ZenzaiConfig{Enabled: true, InferenceLimit: 10, WeightPath: "/w.gguf"}}

	status, err := Apply(context.Background(), e, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Initialize(,)"}, e.calls)
	assert.True(t, status.Initialized)
	assert.False(t, status.ZenzaiSupported)
}

func TestApplyInitializeError(t *testing.T) {
	logging.DisableLoggingForTest(t)

	e := &zenzaiRecorder{recorder: recorder{initErr: fmt.Errorf("no dictionary")}}
	cfg := &Config{Type: TypeMemory, Zenzai: ZenzaiConfig{Enabled: true}}

	status, err := Apply(context.Background(), e, cfg)
	require.Error(t, err)
	assert.True(t, errors.IsEngineUnavailable(err))
	assert.Contains(t, err.Error(), "no dictionary")
	assert.False(t, status.Initialized)
	assert.Equal(t, []string{"Initialize(,)"}, e.calls)
}

func TestApplyNilEngine(t *testing.T) {
	_, err := Apply(context.Background(), nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsEngineUnavailable(err))
}

func TestFetch(t *testing.T) {
	e := &zenzaiRecorder{recorder: recorder{blob: []byte(`[{"text":"東京"}]`)}}

	blob, err := Fetch(context.Background(), e, "とうきょう")
	require.NoError(t, err)
	assert.Equal(t, `[{"text":"東京"}]`, string(blob))
	assert.Equal(t, []string{"ClearText", "AppendText(とうきょう)", "GetCandidates", "FreeString"}, e.calls)
	require.Len(t, e.freed, 1)

	// The returned blob must not alias the engine's buffer.
	e.freed[0][0] = 'X'
	assert.Equal(t, byte('['), blob[0])
}

func TestFetchWithoutReleaser(t *testing.T) {
	e := &recorder{blob: []byte(`["a"]`)}

	blob, err := Fetch(context.Background(), e, "a")
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(blob))
	assert.Equal(t, []string{"ClearText", "AppendText(a)", "GetCandidates"}, e.calls)
}

func TestFetchError(t *testing.T) {
	e := &zenzaiRecorder{recorder: recorder{getErr: fmt.Errorf("boom")}}

	blob, err := Fetch(context.Background(), e, "a")
	require.Error(t, err)
	assert.Nil(t, blob)
	assert.NotContains(t, e.calls, "FreeString")
}

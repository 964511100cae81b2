package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/henkan"
	"github.com/agentstation/henkan/cmd/application"
	"github.com/agentstation/henkan/pkg/engine"
	"github.com/agentstation/henkan/pkg/engine/memory"
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/logging"
)

type segmentOutput struct {
	Key        string `json:"key"`
	Type       string `json:"type"`
	Candidates []struct {
		Value string `json:"value"`
		Cost  int32  `json:"cost"`
	} `json:"candidates"`
}

type resultOutput struct {
	Mode     string          `json:"mode"`
	History  []segmentOutput `json:"history"`
	Segments []segmentOutput `json:"segments"`
	Top      []string        `json:"top"`
}

func newMock(t *testing.T, format string) *application.Mock {
	t.Helper()
	logging.DisableLoggingForTest(t)

	eng := memory.New(memory.WithEntries(map[string][]string{
		"とうきょう": {"東京"},
		"と":     {"都"},
		"かき":    {"柿", "牡蠣"},
		"か":     {"火"},
	}))
	conv, err := henkan.New(
		henkan.WithEngine(eng),
		henkan.WithEngineConfig(&engine.Config{Type: engine.TypeMemory}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conv.Close() })

	return &application.Mock{
		ConverterFunc:    func() (henkan.Converter, error) { return conv, nil },
		OutputFormatFunc: func() string { return format },
	}
}

func execute(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConvertFullSegmentJSON(t *testing.T) {
	out, err := execute(t, newMock(t, "json"), "とうきょう")
	require.NoError(t, err)

	var result resultOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "full_segment", result.Mode)
	assert.Equal(t, []string{"東京"}, result.Top)
	require.Len(t, result.Segments, 1)
	seg := result.Segments[0]
	require.Len(t, seg.Candidates, 2)
	assert.Equal(t, "東京", seg.Candidates[0].Value)
	assert.Equal(t, "都うきょう", seg.Candidates[1].Value)
	assert.Equal(t, int32(100), seg.Candidates[1].Cost)
}

func TestConvertSingleKeyWithHistory(t *testing.T) {
	out, err := execute(t, newMock(t, "json"),
		"かき", "--mode", "single", "--segments", "か,き", "--history", "わたし=私")
	require.NoError(t, err)

	var result resultOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "single_key", result.Mode)
	require.Len(t, result.History, 1)
	assert.Equal(t, "わたし", result.History[0].Key)
	require.Len(t, result.Segments, 1)
	assert.Equal(t, "free", result.Segments[0].Type)
	assert.Equal(t, []string{"柿"}, result.Top)
}

func TestConvertResized(t *testing.T) {
	out, err := execute(t, newMock(t, "json"), "か", "--mode", "resized_segment", "--segments", "かき")
	require.NoError(t, err)

	var result resultOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Segments, 1)
	require.Len(t, result.Segments[0].Candidates, 1)
	assert.Equal(t, "火", result.Segments[0].Candidates[0].Value)
}

func TestConvertTable(t *testing.T) {
	out, err := execute(t, newMock(t, "table"), "かき")
	require.NoError(t, err)
	assert.Contains(t, out, "SEGMENT")
	assert.Contains(t, out, "柿")
	assert.Contains(t, out, "牡蠣")
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(error) bool
	}{
		{name: "unknown mode", args: []string{"か", "--mode", "sideways"}, check: errors.IsValidationError},
		{name: "bad history", args: []string{"か", "--history", "novalue"}, check: errors.IsValidationError},
		{name: "empty single key", args: []string{"", "--mode", "single_key"}, check: errors.IsValidationError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, newMock(t, "json"), tt.args...)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
}

func TestConvertRequiresReading(t *testing.T) {
	_, err := execute(t, newMock(t, "json"))
	require.Error(t, err)
}

func TestConvertWithoutConverter(t *testing.T) {
	_, err := execute(t, &application.Mock{OutputFormatFunc: func() string { return "json" }}, "か")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidState(err))
}

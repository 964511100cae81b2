package candidates

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/henkan"
	"github.com/agentstation/henkan/cmd/application"
	"github.com/agentstation/henkan/pkg/candidates"
	"github.com/agentstation/henkan/pkg/engine"
	"github.com/agentstation/henkan/pkg/engine/memory"
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/logging"
)

func newMock(t *testing.T, format string, blobFormat candidates.Format, opts ...memory.Option) *application.Mock {
	t.Helper()
	logging.DisableLoggingForTest(t)

	opts = append([]memory.Option{memory.WithEntries(map[string][]string{
		"かき": {"柿", "牡蠣"},
		"か":  {"火"},
	})}, opts...)
	conv, err := henkan.New(
		henkan.WithEngine(memory.New(opts...)),
		henkan.WithEngineConfig(&engine.Config{Type: engine.TypeMemory}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conv.Close() })

	return &application.Mock{
		ConverterFunc:       func() (henkan.Converter, error) { return conv, nil },
		OutputFormatFunc:    func() string { return format },
		CandidateFormatFunc: func() candidates.Format { return blobFormat },
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

func TestCandidatesRaw(t *testing.T) {
	out, err := execute(t, newMock(t, "json", candidates.FormatStructured), "かき", "--raw")
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"text":"柿","correspondingCount":2},{"text":"牡蠣","correspondingCount":2},{"text":"火","correspondingCount":1}]`,
		strings.TrimSpace(out))
}

func TestCandidatesDecoded(t *testing.T) {
	out, err := execute(t, newMock(t, "json", candidates.FormatStructured), "かき")
	require.NoError(t, err)

	var result struct {
		Reading    string           `json:"reading"`
		Format     string           `json:"format"`
		Candidates []candidates.Raw `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "かき", result.Reading)
	assert.Equal(t, "structured", result.Format)
	assert.Equal(t, []candidates.Raw{
		{Text: "柿", Coverage: 2},
		{Text: "牡蠣", Coverage: 2},
		{Text: "火", Coverage: 1},
	}, result.Candidates)
}

func TestCandidatesLegacy(t *testing.T) {
	app := newMock(t, "json", candidates.FormatLegacy, memory.WithLegacyOutput())

	raw, err := execute(t, app, "かき", "--raw")
	require.NoError(t, err)
	assert.JSONEq(t, `["柿","牡蠣","火"]`, strings.TrimSpace(raw))

	out, err := execute(t, app, "かき")
	require.NoError(t, err)
	assert.Contains(t, out, `"format": "legacy"`)
	assert.Contains(t, out, `"text": "火"`)
	assert.NotContains(t, out, "correspondingCount")
}

func TestCandidatesTable(t *testing.T) {
	out, err := execute(t, newMock(t, "table", candidates.FormatStructured), "か")
	require.NoError(t, err)
	assert.Contains(t, out, "TEXT")
	assert.Contains(t, out, "火")
}

func TestCandidatesErrors(t *testing.T) {
	t.Run("empty reading", func(t *testing.T) {
		_, err := execute(t, newMock(t, "json", candidates.FormatStructured), "")
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("engine failure", func(t *testing.T) {
		app := newMock(t, "json", candidates.FormatStructured, memory.WithGetCandidatesError(assert.AnError))
		_, err := execute(t, app, "か")
		require.Error(t, err)
		assert.True(t, errors.IsEngineUnavailable(err))
	})
}

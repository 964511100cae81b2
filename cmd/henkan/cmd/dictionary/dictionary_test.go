package dictionary

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/henkan/cmd/application"
	"github.com/agentstation/henkan/pkg/engine"
	"github.com/agentstation/henkan/pkg/engine/memory"
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/logging"
)

func execute(t *testing.T, app application.Application, stdin string, args ...string) (string, error) {
	t.Helper()
	logging.DisableLoggingForTest(t)
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestBuildFromStdin(t *testing.T) {
	out, err := execute(t, &application.Mock{}, "東京に行く。東京は大きい。", "build")
	require.NoError(t, err)

	dict, err := memory.ParseDictionary("stdout", []byte(out))
	require.NoError(t, err)
	assert.Equal(t, []string{"東京"}, dict.Readings["とうきょう"])
}

func TestBuildMergesAndWritesFile(t *testing.T) {
	existing := writeFile(t, "dict.yaml", "readings:\n  とうきょう:\n    - 東京都\n  かな:\n    - 仮名\n")
	text := writeFile(t, "text.txt", "東京に行く。")
	outPath := filepath.Join(t.TempDir(), "out.yaml")

	out, err := execute(t, &application.Mock{}, "", "build", text, "--merge", existing, "--out", outPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	dict, err := memory.LoadDictionary(outPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"東京都", "東京"}, dict.Readings["とうきょう"])
	assert.Equal(t, []string{"仮名"}, dict.Readings["かな"])
}

func TestBuildMinCount(t *testing.T) {
	out, err := execute(t, &application.Mock{}, "東京に行く。大阪に行く。東京が好き。", "build", "--min-count", "2")
	require.NoError(t, err)

	dict, err := memory.ParseDictionary("stdout", []byte(out))
	require.NoError(t, err)
	assert.Contains(t, dict.Readings, "とうきょう")
	assert.NotContains(t, dict.Readings, "おおさか")
}

func TestBuildRejectsBadMinCount(t *testing.T) {
	_, err := execute(t, &application.Mock{}, "", "build", "--min-count", "0")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestBuildMissingFile(t *testing.T) {
	_, err := execute(t, &application.Mock{}, "", "build", filepath.Join(t.TempDir(), "missing.txt"))
	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "open", ioErr.Operation)
}

func TestShow(t *testing.T) {
	path := writeFile(t, "dict.yaml", "readings:\n  ひ:\n    - 火\n    - 日\n  か:\n    - 蚊\n")
	app := &application.Mock{
		EngineConfigFunc: func() *engine.Config { return &engine.Config{DictionaryPath: path} },
		OutputFormatFunc: func() string { return "json" },
	}

	out, err := execute(t, app, "", "show")
	require.NoError(t, err)

	var entries []Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Equal(t, []Entry{
		{Reading: "か", Candidates: []string{"蚊"}},
		{Reading: "ひ", Candidates: []string{"火", "日"}},
	}, entries)
}

func TestShowTable(t *testing.T) {
	path := writeFile(t, "dict.yaml", "readings:\n  ひ:\n    - 火\n    - 日\n")
	app := &application.Mock{
		EngineConfigFunc: func() *engine.Config { return &engine.Config{} },
		OutputFormatFunc: func() string { return "table" },
	}

	out, err := execute(t, app, "", "show", path)
	require.NoError(t, err)
	assert.Contains(t, out, "READING")
	assert.Contains(t, out, "火, 日")
}

func TestShowWithoutDictionary(t *testing.T) {
	app := &application.Mock{
		EngineConfigFunc: func() *engine.Config { return &engine.Config{} },
	}
	_, err := execute(t, app, "", "show")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

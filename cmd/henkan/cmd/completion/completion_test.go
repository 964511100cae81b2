package completion

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "henkan"}
	root.AddCommand(NewCommand())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"completion"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCompletionScripts(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, shell)
			require.NoError(t, err)
			assert.Contains(t, out, "henkan")
		})
	}
}

func TestCompletionRejectsUnknownShell(t *testing.T) {
	_, err := execute(t, "tcsh")
	require.Error(t, err)
}

func TestCompletionInstallAndUninstall(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("HOMEBREW_PREFIX", "")

	out, err := execute(t, "fish", "--install")
	require.NoError(t, err)
	path := filepath.Join(home, ".config", "fish", "completions", "henkan.fish")
	assert.Contains(t, out, path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	out, err = execute(t, "fish", "--uninstall")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed fish completions")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	out, err = execute(t, "fish", "--uninstall")
	require.NoError(t, err)
	assert.Contains(t, out, "No fish completions found")
}

func TestCompletionInstallFlagsExclusive(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := execute(t, "bash", "--install", "--uninstall")
	require.Error(t, err)
}

package completion

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/henkan/pkg/errors"
)

func TestPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Run("user locations", func(t *testing.T) {
		t.Setenv("HOMEBREW_PREFIX", "")
		tests := map[string]string{
			ShellBash: filepath.Join(home, ".bash_completion.d", "henkan"),
			ShellZsh:  filepath.Join(home, ".zsh", "completions", "_henkan"),
			ShellFish: filepath.Join(home, ".config", "fish", "completions", "henkan.fish"),
		}
		for shell, want := range tests {
			got, err := Path(shell)
			require.NoError(t, err)
			assert.Equal(t, want, got, shell)
		}
	})

	t.Run("homebrew", func(t *testing.T) {
		t.Setenv("HOMEBREW_PREFIX", "/opt/homebrew")
		got, err := Path(ShellZsh)
		require.NoError(t, err)
		assert.Equal(t, "/opt/homebrew/share/zsh/site-functions/_henkan", got)
	})

	t.Run("powershell is not installable", func(t *testing.T) {
		t.Setenv("HOMEBREW_PREFIX", "")
		_, err := Path(ShellPowerShell)
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestGenerateUnknownShell(t *testing.T) {
	var buf bytes.Buffer
	err := Generate(&cobra.Command{Use: "henkan"}, "tcsh", &buf)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Zero(t, buf.Len())
}

func TestInstallIntoHomebrewPrefix(t *testing.T) {
	prefix := t.TempDir()
	t.Setenv("HOMEBREW_PREFIX", prefix)

	path, err := Install(&cobra.Command{Use: "henkan"}, ShellBash)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(prefix, "etc", "bash_completion.d", "henkan"), path)

	_, removed, err := Uninstall(ShellBash)
	require.NoError(t, err)
	assert.True(t, removed)
}

// Package completion generates and installs shell completion scripts.
package completion

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/henkan/pkg/constants"
	"github.com/agentstation/henkan/pkg/errors"
)

// Supported shells.
const (
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellFish       = "fish"
	ShellPowerShell = "powershell"
)

// Shells lists the shells Generate supports.
func Shells() []string {
	return []string{ShellBash, ShellZsh, ShellFish, ShellPowerShell}
}

// Generate writes the completion script of root for shell to w.
func Generate(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case ShellBash:
		return root.GenBashCompletionV2(w, true)
	case ShellZsh:
		return root.GenZshCompletion(w)
	case ShellFish:
		return root.GenFishCompletion(w, true)
	case ShellPowerShell:
		return root.GenPowerShellCompletionWithDesc(w)
	default:
		return errors.NewValidationError("shell", shell, "unsupported shell")
	}
}

// Path returns where Install puts the script for shell. Homebrew locations
// are used when HOMEBREW_PREFIX is set, per-user locations otherwise.
func Path(shell string) (string, error) {
	if prefix := os.Getenv("HOMEBREW_PREFIX"); prefix != "" {
		switch shell {
		case ShellBash:
			return filepath.Join(prefix, "etc", "bash_completion.d", "henkan"), nil
		case ShellZsh:
			return filepath.Join(prefix, "share", "zsh", "site-functions", "_henkan"), nil
		case ShellFish:
			return filepath.Join(prefix, "share", "fish", "vendor_completions.d", "henkan.fish"), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapIO("resolve", "home directory", err)
	}
	switch shell {
	case ShellBash:
		return filepath.Join(home, ".bash_completion.d", "henkan"), nil
	case ShellZsh:
		return filepath.Join(home, ".zsh", "completions", "_henkan"), nil
	case ShellFish:
		return filepath.Join(home, ".config", "fish", "completions", "henkan.fish"), nil
	default:
		return "", errors.NewValidationError("shell", shell, "cannot be installed automatically")
	}
}

// Install writes the completion script for shell to Path(shell) and returns
// the path written.
func Install(root *cobra.Command, shell string) (string, error) {
	path, err := Path(shell)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := Generate(root, shell, &buf); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return "", errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), constants.FilePermissions); err != nil {
		return "", errors.WrapIO("write", path, err)
	}
	return path, nil
}

// Uninstall removes the script Install wrote. removed is false when there
// was nothing to remove.
func Uninstall(shell string) (path string, removed bool, err error) {
	path, err = Path(shell)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) || (err == nil && info.IsDir()) {
		return path, false, nil
	}
	if err != nil {
		return path, false, errors.WrapIO("stat", path, err)
	}
	if err := os.Remove(path); err != nil {
		return path, false, errors.WrapIO("remove", path, err)
	}
	return path, true, nil
}

// Package completion provides the completion command.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/henkan/internal/cmd/completion"
)

// NewCommand creates the completion command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate or install shell completion scripts",
		Long: `Completion prints a completion script for the given shell.

With --install the script is written where the shell picks it up
(Homebrew locations when HOMEBREW_PREFIX is set, per-user ones otherwise);
--uninstall removes it again.`,
		Example: `  source <(henkan completion bash)
  henkan completion zsh --install
  henkan completion fish --uninstall`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completion.Shells(),
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			install, _ := cmd.Flags().GetBool("install")
			uninstall, _ := cmd.Flags().GetBool("uninstall")
			w := cmd.OutOrStdout()

			switch {
			case install:
				path, err := completion.Install(cmd.Root(), shell)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Installed %s completions to %s\n", shell, path)
				fmt.Fprintln(w, "Start a new shell session to enable them.")
				return nil
			case uninstall:
				path, removed, err := completion.Uninstall(shell)
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(w, "Removed %s completions from %s\n", shell, path)
				} else {
					fmt.Fprintf(w, "No %s completions found at %s\n", shell, path)
				}
				return nil
			default:
				return completion.Generate(cmd.Root(), shell, w)
			}
		},
	}

	cmd.Flags().Bool("install", false, "Install the script for the current user")
	cmd.Flags().Bool("uninstall", false, "Remove an installed script")
	cmd.MarkFlagsMutuallyExclusive("install", "uninstall")

	return cmd
}

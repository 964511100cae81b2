package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/henkan/cmd/henkan/cmd/candidates"
	"github.com/agentstation/henkan/cmd/henkan/cmd/completion"
	"github.com/agentstation/henkan/cmd/henkan/cmd/convert"
	"github.com/agentstation/henkan/cmd/henkan/cmd/dictionary"
	"github.com/agentstation/henkan/cmd/henkan/cmd/model"
	"github.com/agentstation/henkan/cmd/henkan/cmd/parse"
	"github.com/agentstation/henkan/cmd/henkan/cmd/serve"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(withGroup(convert.NewCommand(a), "core"))
	rootCmd.AddCommand(withGroup(parse.NewCommand(a), "core"))
	rootCmd.AddCommand(withGroup(candidates.NewCommand(a), "core"))
	rootCmd.AddCommand(withGroup(serve.NewCommand(a, a.ServerConfig), "management"))
	rootCmd.AddCommand(withGroup(model.NewCommand(a), "management"))
	rootCmd.AddCommand(withGroup(dictionary.NewCommand(a), "management"))
	rootCmd.AddCommand(withGroup(completion.NewCommand(), "management"))
	rootCmd.AddCommand(a.NewVersionCommand())
}

func withGroup(cmd *cobra.Command, group string) *cobra.Command {
	cmd.GroupID = group
	return cmd
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "henkan %s\n", a.version)
			if a.config.Verbose {
				fmt.Fprintf(w, "  commit:   %s\n", a.commit)
				fmt.Fprintf(w, "  built:    %s\n", a.date)
				fmt.Fprintf(w, "  built by: %s\n", a.builtBy)
			}
		},
	}
}

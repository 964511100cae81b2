package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/henkan/internal/cmd/output"
)

// Execute runs the henkan CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	if a.out != nil {
		rootCmd.SetOut(a.out)
		rootCmd.SetErr(a.out)
	}
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "henkan",
		Short:   "Kana-kanji candidate reconciliation",
		Version: a.version,
		Long: `henkan looks readings up in a conversion engine, reconciles the
candidates it reports so that each one covers the whole reading, and writes
them into ranked conversion segments.

The engine is either the built-in memory engine, optionally loaded from a
YAML dictionary, or a remote henkan server.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "management", Title: "Management Commands:"})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.henkan.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	flags.String("engine", "", "engine: memory or remote")
	flags.String("dictionary", "", "YAML dictionary for the memory engine")
	flags.String("remote-url", "", "base URL of a henkan server, e.g. http://localhost:8080/api/v1")
	flags.Bool("legacy", false, "engine answers with a flat array of strings")

	rootCmd.SetVersionTemplate("henkan {{.Version}}\n")

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand applies the parsed flags before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if path := mustGetString(cmd, "config"); path != "" {
		config, err := LoadConfigFile(path)
		if err != nil {
			return err
		}
		a.config = config
	}

	format := mustGetString(cmd, "format")
	if _, err := output.ParseFormat(format); err != nil {
		return err
	}

	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		format,
		mustGetString(cmd, "log-level"),
	)

	if engine := mustGetString(cmd, "engine"); engine != "" {
		a.config.Engine = engine
	}
	if dict := mustGetString(cmd, "dictionary"); dict != "" {
		a.config.DictionaryPath = dict
	}
	if url := mustGetString(cmd, "remote-url"); url != "" {
		a.config.RemoteURL = url
	}
	if mustGetBool(cmd, "legacy") {
		a.config.LegacyFormat = true
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

// ExitOnError prints err and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a flag defined by createRootCommand.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a flag defined by createRootCommand.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

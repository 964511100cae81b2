// Package dictionary provides commands for building and inspecting
// memory-engine dictionaries.
package dictionary

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/henkan/cmd/application"
	"github.com/agentstation/henkan/internal/cmd/output"
	"github.com/agentstation/henkan/pkg/constants"
	"github.com/agentstation/henkan/pkg/engine/memory"
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/lexicon"
	"github.com/agentstation/henkan/pkg/logging"
)

// NewCommand creates the dictionary command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dictionary",
		Aliases: []string{"dict"},
		Short:   "Build and inspect memory-engine dictionaries",
	}
	cmd.AddCommand(newBuildCommand())
	cmd.AddCommand(newShowCommand(app))
	return cmd
}

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [file...]",
		Short: "Learn readings from Japanese text",
		Long: `Build segments Japanese text into morphemes and writes a YAML
dictionary mapping each reading to the written forms seen for it, most
frequent first. Text is read from the files given, or from stdin.`,
		Example: `  henkan dictionary build novel.txt --out dict.yaml
  cat notes.txt | henkan dict build --merge dict.yaml --out dict.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			minCount, _ := cmd.Flags().GetInt("min-count")
			mergePath, _ := cmd.Flags().GetString("merge")
			outPath, _ := cmd.Flags().GetString("out")
			if minCount < 1 {
				return errors.NewValidationError("min-count", minCount, "must be at least 1")
			}

			ctx := logging.WithOperation(cmd.Context(), "dictionary_build")
			lex, err := lexicon.New()
			if err != nil {
				return err
			}
			if err := addInputs(cmd, lex, args); err != nil {
				return err
			}

			dict := &memory.Dictionary{Readings: map[string][]string{}}
			if mergePath != "" {
				if dict, err = memory.LoadDictionary(mergePath); err != nil {
					return err
				}
			}
			learned := lex.Dictionary(minCount)
			dict.Merge(learned)

			data, err := dict.Marshal()
			if err != nil {
				return errors.WrapParse("yaml", outPath, err)
			}
			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, constants.FilePermissions); err != nil {
				return errors.WrapIO("write", outPath, err)
			}
			logging.FromContext(ctx).Info().
				Str("path", outPath).
				Int("learned", learned.Len()).
				Int("readings", dict.Len()).
				Msg("Dictionary written")
			return nil
		},
	}

	cmd.Flags().Int("min-count", 1, "Keep written forms seen at least this many times")
	cmd.Flags().String("merge", "", "Existing dictionary to extend")
	cmd.Flags().String("out", "", "Write the dictionary to this file instead of stdout")

	return cmd
}

func addInputs(cmd *cobra.Command, lex *lexicon.Lexicon, paths []string) error {
	if len(paths) == 0 {
		return lex.AddReader(cmd.Context(), cmd.InOrStdin())
	}
	for _, path := range paths {
		if err := addFile(cmd, lex, path); err != nil {
			return err
		}
	}
	return nil
}

func addFile(cmd *cobra.Command, lex *lexicon.Lexicon, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()
	return lex.AddReader(cmd.Context(), f)
}

// Entry is one dictionary reading as printed by show.
type Entry struct {
	Reading    string   `json:"reading" yaml:"reading"`
	Candidates []string `json:"candidates" yaml:"candidates"`
}

func newShowCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "show [file]",
		Short: "List the readings of a dictionary",
		Long: `Show prints every reading of a YAML dictionary with its candidates.
Without a file it shows the dictionary configured with --dictionary.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.EngineConfig().DictionaryPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.NewValidationError("dictionary", path, "no dictionary file given or configured")
			}

			dict, err := memory.LoadDictionary(path)
			if err != nil {
				return err
			}
			return show(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), dict)
		},
	}
}

func show(w io.Writer, format output.Format, dict *memory.Dictionary) error {
	entries := make([]Entry, 0, dict.Len())
	for _, reading := range dict.SortedReadings() {
		entries = append(entries, Entry{Reading: reading, Candidates: dict.Readings[reading]})
	}
	if format != output.FormatTable {
		return output.NewFormatter(format).Format(w, entries)
	}

	table := output.Data{Headers: []string{"Reading", "Candidates"}}
	for _, e := range entries {
		table.Rows = append(table.Rows, []string{e.Reading, strings.Join(e.Candidates, ", ")})
	}
	return output.NewFormatter(format).Format(w, table)
}

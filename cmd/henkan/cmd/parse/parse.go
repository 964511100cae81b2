// Package parse provides the parse command.
package parse

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/henkan/cmd/application"
	"github.com/agentstation/henkan/internal/cmd/output"
	"github.com/agentstation/henkan/pkg/candidates"
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/reconciler"
)

// Result is the structured output of the parse command.
type Result struct {
	Format     string             `json:"format" yaml:"format"`
	Candidates []candidates.Raw   `json:"candidates" yaml:"candidates"`
	Result     *reconciler.Result `json:"result,omitempty" yaml:"result,omitempty"`
}

// NewCommand creates the parse command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Decode a candidate blob and optionally reconcile it",
		Long: `Parse decodes an engine candidate blob read from a file or stdin.

Malformed input never fails: the records recovered before the input stopped
making sense are printed. With --reading the candidates are also reconciled
against the reading, and --explain shows the decision taken for each one.`,
		Example: `  henkan parse blob.json
  echo '[{"text":"東京","correspondingCount":5}]' | henkan parse --reading とうきょう
  henkan parse --legacy --reading か --explain < legacy.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return run(cmd, app, path)
		},
	}

	cmd.Flags().StringP("reading", "r", "", "Reading to reconcile the candidates against")
	cmd.Flags().StringP("mode", "m", reconciler.ModeFullSegment.String(),
		"Reconciliation mode (full_segment, single_key, resized_segment)")
	cmd.Flags().Bool("explain", false, "Show the decision taken for each candidate")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, path string) error {
	reading, _ := cmd.Flags().GetString("reading")
	modeName, _ := cmd.Flags().GetString("mode")
	explain, _ := cmd.Flags().GetBool("explain")

	mode, err := reconciler.ParseMode(modeName)
	if err != nil {
		return err
	}

	blob, err := readBlob(cmd, path)
	if err != nil {
		return err
	}

	format := app.CandidateFormat()
	list := candidates.Decode(cmd.Context(), format, blob)
	app.Logger().Debug().
		Str("format", format.String()).
		Int("bytes", len(blob)).
		Int("candidates", len(list)).
		Msg("Decoded candidate blob")

	out := Result{Format: format.String(), Candidates: list}
	if reading != "" {
		r, err := reconciler.New(reconciler.WithTracking(explain))
		if err != nil {
			return err
		}
		if out.Result, err = r.Reconcile(cmd.Context(), reading, list, mode); err != nil {
			return err
		}
	}

	outputFormat := output.DetectFormat(app.OutputFormat())
	if outputFormat != output.FormatTable {
		return output.NewFormatter(outputFormat).Format(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	formatter := output.NewFormatter(outputFormat)
	if err := formatter.Format(w, output.RawTable(list)); err != nil {
		return err
	}
	if out.Result == nil {
		return nil
	}
	fmt.Fprintf(w, "\n%s\n", out.Result.Summary())
	if err := formatter.Format(w, output.ResultTable(out.Result)); err != nil {
		return err
	}
	for _, warning := range out.Result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}

func readBlob(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		blob, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.WrapIO("read", "stdin", err)
		}
		return blob, nil
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return blob, nil
}

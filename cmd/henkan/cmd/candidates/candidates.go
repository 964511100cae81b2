// Package candidates provides the candidates command.
package candidates

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/henkan/cmd/application"
	"github.com/agentstation/henkan/internal/cmd/output"
	"github.com/agentstation/henkan/pkg/candidates"
	"github.com/agentstation/henkan/pkg/errors"
)

// Result is the structured output of the candidates command.
type Result struct {
	Reading    string           `json:"reading" yaml:"reading"`
	Format     string           `json:"format" yaml:"format"`
	Candidates []candidates.Raw `json:"candidates" yaml:"candidates"`
}

// NewCommand creates the candidates command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candidates <reading>",
		Short: "Show the engine's raw candidates for a reading",
		Long: `Candidates runs one engine session for the reading and prints the
candidates exactly as the engine reported them, before reconciliation.`,
		Example: `  henkan candidates とうきょう
  henkan candidates とうきょう --raw > blob.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args[0])
		},
	}

	cmd.Flags().Bool("raw", false, "Print the blob as received")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, reading string) error {
	raw, _ := cmd.Flags().GetBool("raw")

	if reading == "" {
		return errors.NewValidationError("reading", reading, "cannot be empty")
	}

	conv, err := app.Converter()
	if err != nil {
		return err
	}
	if conv == nil {
		return errors.NewStateError("candidates", "no converter configured")
	}

	blob, err := conv.Candidates(cmd.Context(), reading)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if raw {
		_, err := fmt.Fprintln(w, string(blob))
		return err
	}

	format := app.CandidateFormat()
	list := candidates.Decode(cmd.Context(), format, blob)

	outputFormat := output.DetectFormat(app.OutputFormat())
	if outputFormat == output.FormatTable {
		return output.NewFormatter(outputFormat).Format(w, output.RawTable(list))
	}
	return output.NewFormatter(outputFormat).Format(w, Result{
		Reading:    reading,
		Format:     format.String(),
		Candidates: list,
	})
}

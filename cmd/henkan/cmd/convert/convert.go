// Package convert provides the convert command.
package convert

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/henkan"
	"github.com/agentstation/henkan/cmd/application"
	"github.com/agentstation/henkan/internal/cmd/output"
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/reconciler"
	"github.com/agentstation/henkan/pkg/segments"
)

// Result is the structured output of the convert command.
type Result struct {
	Mode     reconciler.Mode     `json:"mode" yaml:"mode"`
	History  []*segments.Segment `json:"history" yaml:"history"`
	Segments []*segments.Segment `json:"segments" yaml:"segments"`
	Top      []string            `json:"top" yaml:"top"`
}

// NewCommand creates the convert command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <reading>",
		Short: "Convert a reading into ranked candidates",
		Long: `Convert looks a reading up in the configured engine and reconciles the
answer into conversion segments.

Modes:
  full_segment     convert every segment (--segments, or the reading alone)
  single_key       convert the reading as one free segment
  resized_segment  refill the first segment with exact matches for the reading`,
		Example: `  henkan convert とうきょう
  henkan convert とうきょう --mode single_key --history わたし=私
  henkan convert きょう --mode resized --segments きょ,うは -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args[0])
		},
	}

	cmd.Flags().StringP("mode", "m", reconciler.ModeFullSegment.String(),
		"Reconciliation mode (full_segment, single_key, resized_segment)")
	cmd.Flags().StringSlice("segments", nil, "Segment keys (defaults to the reading)")
	cmd.Flags().StringArray("history", nil, "Committed segment as key=value (repeatable)")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, reading string) error {
	modeName, _ := cmd.Flags().GetString("mode")
	keys, _ := cmd.Flags().GetStringSlice("segments")
	history, _ := cmd.Flags().GetStringArray("history")

	mode, err := reconciler.ParseMode(modeName)
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		keys = []string{reading}
	}
	segs := segments.New(keys...)
	for _, entry := range history {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			return errors.NewValidationError("history", entry, "must be key=value")
		}
		segs.AddHistory(key, value)
	}

	conv, err := app.Converter()
	if err != nil {
		return err
	}
	if conv == nil {
		return errors.NewStateError("convert", "no converter configured")
	}

	logger := app.Logger()
	logger.Debug().
		Str("reading", reading).
		Str("mode", mode.String()).
		Int("segments", segs.ConversionSize()).
		Msg("Converting")

	if err := henkan.Run(cmd.Context(), conv, mode, reading, segs); err != nil {
		return err
	}

	format := output.DetectFormat(app.OutputFormat())
	if format == output.FormatTable {
		return output.NewFormatter(format).Format(cmd.OutOrStdout(), output.SegmentsTable(segs.Conversion()))
	}
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), Result{
		Mode:     mode,
		History:  segs.History(),
		Segments: segs.Conversion(),
		Top:      segs.TopValues(),
	})
}

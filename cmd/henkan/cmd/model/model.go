// Package model provides the model command for inspecting the Zenzai model setup.
package model

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/henkan/cmd/application"
	"github.com/agentstation/henkan/internal/cmd/output"
	"github.com/agentstation/henkan/pkg/engine"
	"github.com/agentstation/henkan/pkg/errors"
)

// Status describes the Zenzai model as configured.
type Status struct {
	Engine         string `json:"engine" yaml:"engine"`
	ModelDir       string `json:"model_dir" yaml:"model_dir"`
	ModelPath      string `json:"model_path" yaml:"model_path"`
	Installed      bool   `json:"installed" yaml:"installed"`
	Version        string `json:"version" yaml:"version"`
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	WeightPath     string `json:"weight_path" yaml:"weight_path"`
	Active         bool   `json:"active" yaml:"active"`
	InferenceLimit int    `json:"inference_limit" yaml:"inference_limit"`
}

// NewCommand creates the model command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Inspect the Zenzai conversion model",
		Long: `Model reports where the Zenzai weights are expected and whether
neural conversion will be active with the current configuration.`,
	}

	cmd.AddCommand(newStatusCommand(app))
	cmd.AddCommand(newPathCommand(app))

	return cmd
}

func newStatusCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the Zenzai model status",
		Example: `  henkan model status
  henkan model status --check -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			check, _ := cmd.Flags().GetBool("check")

			status := NewStatus(app.EngineConfig())
			if check {
				engineStatus, err := engineStatus(app)
				if err != nil {
					return err
				}
				status.Active = engineStatus.ZenzaiActive
				status.WeightPath = engineStatus.WeightPath
				status.InferenceLimit = engineStatus.InferenceLimit
			}

			format := output.DetectFormat(app.OutputFormat())
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), status)
		},
	}

	cmd.Flags().Bool("check", false, "Start the engine and report what it actually applied")

	return cmd
}

func newPathCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the expected model file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := engine.ModelPath(app.EngineConfig().Zenzai.ModelDir)
			if path == "" {
				return errors.NewValidationError("zenzai.model_dir", "", "not configured")
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}

// NewStatus builds a Status from cfg without starting an engine.
func NewStatus(cfg *engine.Config) Status {
	if cfg == nil {
		cfg = engine.DefaultConfig()
	}
	z := cfg.Zenzai
	return Status{
		Engine:         cfg.Type.String(),
		ModelDir:       z.ModelDir,
		ModelPath:      engine.ModelPath(z.ModelDir),
		Installed:      engine.ModelExists(z.ModelDir),
		Version:        z.ModelVersion(),
		Enabled:        z.Enabled,
		WeightPath:     z.WeightPath,
		Active:         z.Active(),
		InferenceLimit: z.InferenceLimit,
	}
}

func engineStatus(app application.Application) (engine.Status, error) {
	conv, err := app.Converter()
	if err != nil {
		return engine.Status{}, err
	}
	if conv == nil {
		return engine.Status{}, errors.NewStateError("model status", "no converter configured")
	}
	return conv.Status(), nil
}

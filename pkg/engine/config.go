package engine

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/henkan/pkg/constants"
	"github.com/agentstation/henkan/pkg/errors"
)

// Type names an engine implementation.
type Type string

const (
	// TypeMemory is the in-process dictionary engine.
	TypeMemory Type = "memory"
	// TypeRemote delegates to a henkan server over HTTP.
	TypeRemote Type = "remote"
)

// String returns the type name.
func (t Type) String() string {
	return string(t)
}

// Valid reports whether t names a known engine.
func (t Type) Valid() bool {
	return t == TypeMemory || t == TypeRemote
}

// Config selects and configures an engine.
type Config struct {
	Type           Type         `json:"type" yaml:"type"`
	DictionaryPath string       `json:"dictionary_path,omitempty" yaml:"dictionary_path,omitempty"`
	MemoryPath     string       `json:"memory_path,omitempty" yaml:"memory_path,omitempty"`
	RemoteURL      string       `json:"remote_url,omitempty" yaml:"remote_url,omitempty"`
	RemoteAPIKey   string       `json:"-" yaml:"-"`
	Zenzai         ZenzaiConfig `json:"zenzai" yaml:"zenzai"`
}

// ZenzaiConfig configures Zenzai neural conversion.
type ZenzaiConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	InferenceLimit int    `json:"inference_limit" yaml:"inference_limit"`
	WeightPath     string `json:"weight_path,omitempty" yaml:"weight_path,omitempty"`
	ModelDir       string `json:"model_dir,omitempty" yaml:"model_dir,omitempty"`
}

// DefaultConfig returns a memory engine configuration. Zenzai is enabled
// exactly when the model file exists in the default model directory.
func DefaultConfig() *Config {
	cfg := &Config{
		Type: TypeMemory,
		Zenzai: ZenzaiConfig{
			InferenceLimit: constants.DefaultZenzaiInferenceLimit,
			ModelDir:       constants.DefaultModelDir,
		},
	}
	cfg.Zenzai.Enabled = ModelExists(cfg.Zenzai.ModelDir)
	cfg.Zenzai.Resolve()
	return cfg
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.Type.Valid() {
		return errors.NewValidationError("engine", string(c.Type), "must be memory or remote")
	}
	if c.Type == TypeRemote && c.RemoteURL == "" {
		return errors.NewValidationError("remote_url", c.RemoteURL, "required for the remote engine")
	}
	if c.Zenzai.InferenceLimit < 0 {
		return errors.NewValidationError("zenzai.inference_limit", c.Zenzai.InferenceLimit, "cannot be negative")
	}
	return nil
}

// Resolve fills the weight path from the model directory when it is unset
// and the model file exists there.
func (z *ZenzaiConfig) Resolve() {
	if z.WeightPath != "" {
		return
	}
	if ModelExists(z.ModelDir) {
		z.WeightPath = ModelPath(z.ModelDir)
	}
}

// Active reports whether Zenzai will actually run: enabled and weights known.
func (z ZenzaiConfig) Active() bool {
	return z.Enabled && z.WeightPath != ""
}

// ModelVersion returns the version of the bundled model.
func (z ZenzaiConfig) ModelVersion() string {
	return constants.ZenzaiModelVersion
}

// ModelPath returns the model file path inside dir, or "" when dir is empty.
func ModelPath(dir string) string {
	if dir == "" {
		return ""
	}
	return filepath.Join(ExpandHome(dir), constants.ZenzaiModelFile)
}

// ModelExists reports whether the model file exists as a regular file inside dir.
func ModelExists(dir string) bool {
	path := ModelPath(dir)
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

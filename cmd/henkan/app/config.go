package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/henkan/pkg/constants"
	"github.com/agentstation/henkan/pkg/engine"
	"github.com/agentstation/henkan/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by viper.
const EnvPrefix = constants.EnvPrefix

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string

	// Config file
	ConfigFile string

	// Engine configuration
	Engine         string
	DictionaryPath string
	MemoryPath     string
	RemoteURL      string
	RemoteAPIKey   string
	LegacyFormat   bool

	// Zenzai configuration. ZenzaiEnabled is nil unless set explicitly;
	// Zenzai is then enabled exactly when the model is installed.
	ZenzaiEnabled        *bool
	ZenzaiInferenceLimit int
	ZenzaiWeightPath     string
	ZenzaiModelDir       string

	// Server configuration
	Host       string
	Port       int
	PathPrefix string
	APIKey     string

	// Logging configuration
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by the root command)
//  2. HENKAN_* environment variables
//  3. .env and .env.local files
//  4. Config file ($HOME/.henkan.yaml or ./.henkan.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile is LoadConfig reading the given config file instead of
// searching the standard locations. A missing explicit file is an error.
func LoadConfigFile(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+path, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigFile)
		// Missing config files are fine
		_ = v.ReadInConfig()
	}

	config := &Config{
		ConfigFile: v.ConfigFileUsed(),
		Format:     v.GetString("format"),
		LogLevel:   firstNonEmpty(v.GetString("log_level"), os.Getenv("LOG_LEVEL")),

		Engine:         v.GetString("engine"),
		DictionaryPath: v.GetString("dictionary_path"),
		MemoryPath:     v.GetString("memory_path"),
		RemoteURL:      v.GetString("remote_url"),
		RemoteAPIKey:   v.GetString("remote_api_key"),
		LegacyFormat:   v.GetBool("legacy_format"),

		ZenzaiInferenceLimit: v.GetInt("zenzai.inference_limit"),
		ZenzaiWeightPath:     v.GetString("zenzai.weight_path"),
		ZenzaiModelDir:       v.GetString("zenzai.model_dir"),

		Host:       v.GetString("host"),
		Port:       v.GetInt("port"),
		PathPrefix: v.GetString("path_prefix"),
		APIKey:     v.GetString("api_key"),

		LogFormat: firstNonEmpty(v.GetString("log_format"), os.Getenv("LOG_FORMAT"), "auto"),
		LogOutput: firstNonEmpty(v.GetString("log_output"), os.Getenv("LOG_OUTPUT"), "stderr"),
	}
	if v.IsSet("zenzai.enabled") {
		enabled := v.GetBool("zenzai.enabled")
		config.ZenzaiEnabled = &enabled
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine", string(engine.TypeMemory))
	v.SetDefault("zenzai.inference_limit", constants.DefaultZenzaiInferenceLimit)
	v.SetDefault("zenzai.model_dir", constants.DefaultModelDir)
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 8080)
	v.SetDefault("path_prefix", "/api/v1")
}

// EngineConfig builds the engine configuration.
func (c *Config) EngineConfig() *engine.Config {
	cfg := &engine.Config{
		Type:           engine.Type(strings.ToLower(c.Engine)),
		DictionaryPath: engine.ExpandHome(c.DictionaryPath),
		MemoryPath:     engine.ExpandHome(c.MemoryPath),
		RemoteURL:      c.RemoteURL,
		RemoteAPIKey:   c.RemoteAPIKey,
		Zenzai: engine.ZenzaiConfig{
			InferenceLimit: c.ZenzaiInferenceLimit,
			WeightPath:     engine.ExpandHome(c.ZenzaiWeightPath),
			ModelDir:       c.ZenzaiModelDir,
		},
	}
	if c.ZenzaiEnabled != nil {
		cfg.Zenzai.Enabled = *c.ZenzaiEnabled
	} else {
		cfg.Zenzai.Enabled = engine.ModelExists(c.ZenzaiModelDir)
	}
	cfg.Zenzai.Resolve()
	return cfg
}

// UpdateFromFlags applies the global flags. Flags take precedence over
// config files and environment variables.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads .env files; .env.local does not override .env values
// already set, and the process environment always wins.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

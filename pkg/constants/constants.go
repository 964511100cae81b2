// Package constants provides shared constants used throughout henkan:
// scoring steps, Zenzai model defaults, timeouts, limits and file permissions.
package constants

import "time"

// Scoring constants
const (
	// CostStep is the cost added per rank when candidates are written to a segment.
	// The first candidate costs 0, the second CostStep, and so on.
	CostStep = 100
)

// Zenzai neural model constants
const (
	// ZenzaiModelFile is the file name of the bundled Zenzai weights.
	ZenzaiModelFile = "ggml-model-Q5_K_M.gguf"

	// ZenzaiModelVersion identifies the model the weights belong to.
	ZenzaiModelVersion = "zenz-v3.1-small"

	// DefaultZenzaiInferenceLimit bounds neural inference steps per conversion.
	DefaultZenzaiInferenceLimit = 10

	// DefaultModelDir is where the model file is looked up when none is configured.
	DefaultModelDir = "~/.henkan/models"
)

// Timeout constants
const (
	// DefaultHTTPTimeout is the timeout for requests to a remote engine
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout bounds the remote engine's health probe during Initialize
	DefaultTimeout = 10 * time.Second

	// ShutdownTimeout bounds graceful server shutdown
	ShutdownTimeout = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants
const (
	// MaxRequestBodySize caps JSON request bodies accepted by the server (1 MiB)
	MaxRequestBodySize = 1 << 20

	// MaxReadingLength is the longest reading, in characters, the server converts
	MaxReadingLength = 256

	// MaxSegments is the largest number of conversion segments accepted per request
	MaxSegments = 64

	// WebSocketReadLimit caps a single websocket message
	WebSocketReadLimit = 64 * 1024
)

// Network constants
const (
	// DefaultHost is the address the server binds when none is configured
	DefaultHost = "localhost"

	// DefaultPort is the port the server listens on when none is configured
	DefaultPort = 8080

	// DefaultPathPrefix is the API path prefix
	DefaultPathPrefix = "/api/v1"
)

// Path constants
const (
	// DefaultConfigFile is the config file name looked up in $HOME and the working directory
	DefaultConfigFile = ".henkan"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "HENKAN"
)

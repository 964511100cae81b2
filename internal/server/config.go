package server

import (
	"time"

	"github.com/agentstation/henkan/pkg/constants"
)

// Config controls the henkan API server.
type Config struct {
	Host       string
	Port       int
	PathPrefix string // mount point of the API routes, e.g. /api/v1

	CORSEnabled bool
	CORSOrigins []string // empty allows any origin

	// AuthEnabled requires APIKey in AuthHeader (or as a bearer token)
	// on every non-public route.
	AuthEnabled bool
	AuthHeader  string
	APIKey      string

	RateLimit int // requests per minute per client IP, 0 disables

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig listens on localhost:8080 under /api/v1 with auth and
// CORS off.
func DefaultConfig() Config {
	return Config{
		Host:         constants.DefaultHost,
		Port:         constants.DefaultPort,
		PathPrefix:   constants.DefaultPathPrefix,
		CORSOrigins:  []string{},
		AuthHeader:   "X-API-Key",
		RateLimit:    600,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}
}

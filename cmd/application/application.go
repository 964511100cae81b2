// Package application provides the application interface for henkan commands
// and the HTTP server.
//
// Commands and the server accept this interface instead of the concrete App,
// so they can be tested with Mock:
//
//	mock := &application.Mock{
//	    ConverterFunc: func() (henkan.Converter, error) {
//	        return henkan.New(henkan.WithEngine(memory.New()))
//	    },
//	}
//	cmd := convert.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/henkan"
	"github.com/agentstation/henkan/pkg/candidates"
	"github.com/agentstation/henkan/pkg/engine"
)

// Application provides what commands need from the application.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Converter returns the shared converter, creating it lazily.
	Converter() (henkan.Converter, error)

	// CandidateFormat returns the blob layout the engine answers with.
	CandidateFormat() candidates.Format

	// EngineConfig returns the engine configuration the converter is built with.
	EngineConfig() *engine.Config

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string
}

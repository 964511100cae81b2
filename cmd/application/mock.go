package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/henkan"
	"github.com/agentstation/henkan/pkg/candidates"
	"github.com/agentstation/henkan/pkg/engine"
)

var _ Application = (*Mock)(nil)

// Mock implements Application for tests. Nil function fields return zero values.
type Mock struct {
	ConverterFunc       func() (henkan.Converter, error)
	CandidateFormatFunc func() candidates.Format
	EngineConfigFunc    func() *engine.Config
	LoggerFunc          func() *zerolog.Logger
	OutputFormatFunc    func() string
	VersionFunc         func() string
}

// Converter returns a converter using the mock function or nil.
func (m *Mock) Converter() (henkan.Converter, error) {
	if m.ConverterFunc != nil {
		return m.ConverterFunc()
	}
	return nil, nil
}

// CandidateFormat returns the candidate format using the mock function or the structured format.
func (m *Mock) CandidateFormat() candidates.Format {
	if m.CandidateFormatFunc != nil {
		return m.CandidateFormatFunc()
	}
	return candidates.FormatStructured
}

// EngineConfig returns the engine configuration using the mock function or the default.
func (m *Mock) EngineConfig() *engine.Config {
	if m.EngineConfigFunc != nil {
		return m.EngineConfigFunc()
	}
	return engine.DefaultConfig()
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

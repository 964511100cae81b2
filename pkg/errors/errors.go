// Package errors defines the typed errors returned across henkan.
//
// Every failure in the conversion core is local and recoverable. Callers
// branch on the category with the Is* helpers rather than on messages:
//
//	if errors.IsEngineUnavailable(err) {
//		// fall back to another converter
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// New is errors.New, re-exported so callers need a single import.
var New = errors.New

// Categories matched by errors.Is against the typed errors below.
var (
	// ErrEngineUnavailable: the engine could not be loaded, started or reached.
	ErrEngineUnavailable = errors.New("engine unavailable")
	// ErrInvalidState: an operation ran without its precondition, such as a
	// resized-segment conversion before any segments exist.
	ErrInvalidState = errors.New("invalid state")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	// ErrUnauthorized: a remote server rejected the credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// IsEngineUnavailable reports whether err means the engine cannot serve requests.
func IsEngineUnavailable(err error) bool { return errors.Is(err, ErrEngineUnavailable) }

// IsInvalidState reports whether err is a violated precondition.
func IsInvalidState(err error) bool { return errors.Is(err, ErrInvalidState) }

// IsValidationError reports whether err was caused by bad input.
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsNotFound reports whether err names a missing resource.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsUnauthorized reports whether err is a rejected credential.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// causeText returns err's message, or "" for nil.
func causeText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// EngineError is a failure at the engine boundary. It always matches
// ErrEngineUnavailable.
type EngineError struct {
	Engine    string // "memory", "remote", ...
	Operation string // "initialize", "get_candidates", "shutdown", ...
	Message   string
	Err       error
}

func (e *EngineError) Error() string {
	who := "engine"
	if e.Engine != "" {
		who += " " + e.Engine
	}
	msg := e.Message
	if msg == "" {
		msg = causeText(e.Err)
	}
	return fmt.Sprintf("%s: %s failed: %s", who, e.Operation, msg)
}

func (e *EngineError) Unwrap() error { return e.Err }

func (e *EngineError) Is(target error) bool { return target == ErrEngineUnavailable }

// NewEngineError reports a failed engine operation.
func NewEngineError(engine, operation, message string, err error) *EngineError {
	return &EngineError{Engine: engine, Operation: operation, Message: message, Err: err}
}

// WrapEngine returns nil for a nil err.
func WrapEngine(engine, operation string, err error) error {
	if err == nil {
		return nil
	}
	return NewEngineError(engine, operation, "", err)
}

// StateError is a violated precondition on caller-owned state.
type StateError struct {
	Operation string
	Message   string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid state for %s: %s", e.Operation, e.Message)
}

func (e *StateError) Is(target error) bool { return target == ErrInvalidState }

func NewStateError(operation, message string) *StateError {
	return &StateError{Operation: operation, Message: message}
}

// NotFoundError names a missing resource, e.g. "segment 3 not found".
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string { return e.Resource + " " + e.ID + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError rejects caller input. Value holds the offending input.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// WrapValidation turns err into a ValidationError on field.
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// ConfigError is an unusable configuration value.
type ConfigError struct {
	Component string // "engine", "zenzai", "server", ...
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// APIError is a failed call to a remote henkan server. A StatusCode of
// zero means the request never got a response.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("API error from %s: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is maps the status onto categories. Transport failures and 5xx make the
// engine unavailable; 4xx responses do not.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrEngineUnavailable:
		return e.StatusCode == 0 || e.StatusCode >= http.StatusInternalServerError
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrInvalidInput:
		return e.StatusCode == http.StatusBadRequest
	default:
		return false
	}
}

func NewAPIError(endpoint string, statusCode int, message string) *APIError {
	return &APIError{Endpoint: endpoint, StatusCode: statusCode, Message: message}
}

// ParseError is undecodable input in a named format ("json", "yaml").
type ParseError struct {
	Format  string
	File    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
	}
	return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// WrapParse returns nil for a nil err.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// IOError is a failed read, write, open or close.
type IOError struct {
	Operation string
	Path      string
	Message   string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
}

func (e *IOError) Unwrap() error { return e.Err }

func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Message: causeText(err), Err: err}
}

// WrapIO returns nil for a nil err.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// ResourceError is a lifecycle failure of a converter, engine or server.
type ResourceError struct {
	Operation string // "create", "load", "start", "close"
	Resource  string
	ID        string
	Message   string
	Err       error
}

func (e *ResourceError) Error() string {
	target := e.Resource
	if e.ID != "" {
		target += " " + e.ID
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, target, e.Message)
}

func (e *ResourceError) Unwrap() error { return e.Err }

func NewResourceError(operation, resource, id string, err error) *ResourceError {
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Message: causeText(err), Err: err}
}

// WrapResource returns nil for a nil err.
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

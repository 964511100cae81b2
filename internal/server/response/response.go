// Package response writes the JSON envelope shared by every henkan API
// endpoint: {"data": ..., "error": null} on success and
// {"data": null, "error": {...}} on failure.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/henkan/pkg/errors"
)

// Response is the envelope.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error carries a stable machine-readable Code next to the human message.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error codes.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeConflict         = "CONFLICT"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL_ERROR"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
)

func Success(data any) Response { return Response{Data: data} }

func Fail(code, message, details string) Response {
	return Response{Error: &Error{Code: code, Message: message, Details: details}}
}

// JSON writes resp with status. Encoding errors are ignored because the
// status line is already out.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(resp)
}

func OK(w http.ResponseWriter, data any) { JSON(w, http.StatusOK, Success(data)) }

func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail(CodeBadRequest, message, details))
}

func Unauthorized(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusUnauthorized, Fail(CodeUnauthorized, message, details))
}

func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail(CodeNotFound, message, details))
}

func MethodNotAllowed(w http.ResponseWriter, method string) {
	JSON(w, http.StatusMethodNotAllowed, Fail(CodeMethodNotAllowed, "Method not allowed",
		"Method "+method+" is not supported for this endpoint"))
}

func Conflict(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusConflict, Fail(CodeConflict, message, details))
}

func RateLimited(w http.ResponseWriter, details string) {
	JSON(w, http.StatusTooManyRequests, Fail(CodeRateLimited, "Rate limit exceeded", details))
}

// InternalError never exposes err to the client.
func InternalError(w http.ResponseWriter, _ error) {
	JSON(w, http.StatusInternalServerError, Fail(CodeInternal, "Internal server error", "An unexpected error occurred"))
}

func ServiceUnavailable(w http.ResponseWriter, details string) {
	JSON(w, http.StatusServiceUnavailable, Fail(CodeUnavailable, "Service unavailable", details))
}

// Classify maps a henkan error onto an HTTP status and error code.
// Unrecognized errors are internal.
func Classify(err error) (int, string) {
	switch {
	case errors.IsValidationError(err):
		return http.StatusBadRequest, CodeBadRequest
	case errors.IsInvalidState(err):
		return http.StatusConflict, CodeConflict
	case errors.IsNotFound(err):
		return http.StatusNotFound, CodeNotFound
	case errors.IsUnauthorized(err):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.IsEngineUnavailable(err):
		return http.StatusServiceUnavailable, CodeUnavailable
	}
	return http.StatusInternalServerError, CodeInternal
}

// ErrorFromType writes err with the status Classify picks. Internal
// errors are masked.
func ErrorFromType(w http.ResponseWriter, err error) {
	status, code := Classify(err)
	switch code {
	case CodeInternal:
		InternalError(w, err)
	case CodeUnavailable:
		ServiceUnavailable(w, err.Error())
	default:
		JSON(w, status, Fail(code, err.Error(), ""))
	}
}

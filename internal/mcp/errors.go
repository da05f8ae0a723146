package mcp

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for transport mapping.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindToolExecution
	KindRateLimit
	KindInternal
)

// String returns the wire-facing name of the failure kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	case KindToolExecution:
		return "ToolExecutionError"
	case KindRateLimit:
		return "RateLimitExceeded"
	default:
		return "InternalError"
	}
}

// Error is a typed failure moving through the dispatch core. Details carries
// structured context (offending field, invalid value) for the discrete
// transport's error envelope.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
}

func (e *Error) Error() string { return e.Message }

// ValidationErr reports malformed or missing input. Field and value identify
// the offending argument.
func ValidationErr(field string, value any, format string, args ...any) *Error {
	details := map[string]any{}
	if field != "" {
		details["field"] = field
	}
	if value != nil {
		details["value"] = value
	}
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...), Details: details}
}

// NotFoundErr reports an unknown tool, resource, or prompt.
func NotFoundErr(kind, name string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s %q not found", kind, name),
		Details: map[string]any{"name": name},
	}
}

// ExecutionErr wraps a collaborator failure as tool-level data.
func ExecutionErr(tool string, cause error) *Error {
	return &Error{
		Kind:    KindToolExecution,
		Message: fmt.Sprintf("tool %q execution failed: %v", tool, cause),
		Details: map[string]any{"tool": tool},
	}
}

// RateLimitErr reports quota exhaustion for a client key.
func RateLimitErr() *Error {
	return &Error{Kind: KindRateLimit, Message: "rate limit exceeded"}
}

// InternalErr is the catch-all for defects in the dispatcher itself.
func InternalErr(cause error) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf("internal error: %v", cause)}
}

// AsError coerces any error into an *Error, treating unclassified errors as
// internal. A nil input returns nil.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return InternalErr(err)
}

// JSON-RPC error codes used by both transports. The -32601/-32602/-32603
// values are the JSON-RPC 2.0 reserved codes; -32000/-32001 are the
// server-defined range.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeToolExecution  = -32000
	CodeRateLimited    = -32001
)

// HTTPStatus maps a failure kind to its discrete-transport status code. The
// mapping is total and transport-independent.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindToolExecution:
		return http.StatusUnprocessableEntity
	case KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// RPCCode maps a failure kind to its JSON-RPC error code.
func (k Kind) RPCCode() int {
	switch k {
	case KindValidation:
		return CodeInvalidParams
	case KindNotFound:
		return CodeMethodNotFound
	case KindToolExecution:
		return CodeToolExecution
	case KindRateLimit:
		return CodeRateLimited
	default:
		return CodeInternalError
	}
}

package shared

import "errors"

// ErrorKind classifies domain errors by how a caller should react to them
type ErrorKind int

const (
	// KindInternal is an error the caller cannot fix
	KindInternal ErrorKind = iota
	// KindInvalidArgument is a client-fixable precondition failure
	KindInvalidArgument
	// KindNotFound means the addressed resource is absent
	KindNotFound
	// KindIndeterminate means a peer service failed after retries were exhausted
	KindIndeterminate
	// KindUnauthorized means the credentials or token were missing or rejected
	KindUnauthorized
)

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindNotFound:
		return "NotFound"
	case KindIndeterminate:
		return "IndeterminateFailure"
	case KindUnauthorized:
		return "Unauthorized"
	default:
		return "Internal"
	}
}

// Error codes
const (
	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
)

var codeKinds = map[string]ErrorKind{
	CodeNotFound:            KindNotFound,
	CodeAlreadyExists:       KindInvalidArgument,
	CodeInvalidInput:        KindInvalidArgument,
	CodeUnauthorized:        KindUnauthorized,
	CodeInvalidCredentials:  KindUnauthorized,
	CodeUpstreamUnavailable: KindIndeterminate,
}

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches domain errors by code so that errors.Is(err, ErrNotFound)
// holds for any NOT_FOUND error regardless of its message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Kind returns the classification of the error code
func (e *DomainError) Kind() ErrorKind {
	if k, ok := codeKinds[e.Code]; ok {
		return k
	}
	return KindInternal
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that keeps the underlying cause
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// KindOf returns the kind of err, or KindInternal if it is not a domain error
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind()
	}
	return KindInternal
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrInvalidCredentials  = NewDomainError(CodeInvalidCredentials, "Invalid email or password")
	ErrUpstreamUnavailable = NewDomainError(CodeUpstreamUnavailable, "Dependent service is unavailable")
)

package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeInvalidMediaType Code = "INVALID_MEDIA_TYPE"
	CodeNotFound         Code = "NOT_FOUND"
	CodeConflict         Code = "CONFLICT"
	CodeIdempotency      Code = "IDEMPOTENCY_KEY_REUSED"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeDependency       Code = "DEPENDENCY_ERROR"
)

// Metadata drives how a code is rendered over HTTP. ExposeMessage lets the
// error's own message reach the client; otherwise PublicMessage is used.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
	ExposeMessage  bool
}

// clientFault is the metadata shape shared by caller-caused failures.
func clientFault(status int, public string) Metadata {
	return Metadata{HTTPStatus: status, PublicMessage: public, DetailsAllowed: true, ExposeMessage: true}
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:       clientFault(http.StatusUnprocessableEntity, "validation failed"),
	CodeInvalidMediaType: clientFault(http.StatusUnprocessableEntity, "unsupported media type"),
	CodeConflict:         clientFault(http.StatusConflict, "conflict detected"),
	CodeIdempotency:      clientFault(http.StatusConflict, "idempotency key reused"),
	CodeNotFound:         {HTTPStatus: http.StatusNotFound, PublicMessage: "resource not found", ExposeMessage: true},
	CodeInternal:         {HTTPStatus: http.StatusInternalServerError, Retryable: true, PublicMessage: "internal server error"},
	CodeDependency:       {HTTPStatus: http.StatusServiceUnavailable, Retryable: true, PublicMessage: "dependency unavailable", DetailsAllowed: true},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

// Newf builds an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// NotFound reports a missing row or object by its resource label, e.g.
// "Hero not found".
func NotFound(resource string) *Error {
	return New(CodeNotFound, resource+" not found")
}

// Conflict reports a unique-field collision, naming the field and the value
// that is already taken. cause may be nil.
func Conflict(cause error, resource, field, value string) *Error {
	return Wrap(CodeConflict, cause, fmt.Sprintf("%s with %s '%s' already exists.", resource, field, value)).
		WithDetails(map[string]string{"field": field, "value": value})
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

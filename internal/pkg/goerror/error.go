// Package goerror is the error taxonomy shared by the use cases and the
// router: every client-visible failure is an *Error whose code picks the
// HTTP status and whose message is written verbatim.
package goerror

import (
	"errors"
	"log/slog"
	"net/http"
)

var (
	// ErrNotFound indicates that the requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates that the request could not be completed due to a conflict.
	ErrConflict = errors.New("resource conflict")
)

// Type is the broad origin of an error.
type Type int

const (
	TypeServer Type = iota
	TypeBusiness
	TypeValidation
)

var typeNames = [...]string{
	TypeServer:     "server",
	TypeBusiness:   "business",
	TypeValidation: "validation",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return typeNames[TypeServer]
	}
	return typeNames[t]
}

// Code selects the HTTP status of an error.
type Code int

const (
	CodeInternal Code = iota
	// CodeInvalidFormat is an unreadable request body.
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	// CodeConflict covers duplicates and requests already in flight.
	CodeConflict
	// CodeUnauthorized is a missing or unusable credential.
	CodeUnauthorized
	// CodeForbidden means the caller's role may not use the endpoint.
	CodeForbidden
	// CodeUnavailable is a delivery channel that is missing or failed.
	CodeUnavailable
)

var codes = [...]struct {
	name   string
	status int
}{
	CodeInternal:      {"internal", http.StatusInternalServerError},
	CodeInvalidFormat: {"invalid_format", http.StatusBadRequest},
	CodeInvalidInput:  {"invalid_input", http.StatusBadRequest},
	CodeNotFound:      {"not_found", http.StatusNotFound},
	// duplicates reach clients as plain bad requests
	CodeConflict:     {"conflict", http.StatusBadRequest},
	CodeUnauthorized: {"unauthorized", http.StatusUnauthorized},
	CodeForbidden:    {"forbidden", http.StatusForbidden},
	CodeUnavailable:  {"unavailable", http.StatusInternalServerError},
}

func (c Code) valid() bool { return c >= 0 && int(c) < len(codes) }

func (c Code) String() string {
	if !c.valid() {
		return codes[CodeInternal].name
	}
	return codes[c].name
}

// Error is a structured error used across the application.
//
// msg is what the client sees; err, when set, is the cause kept for logs.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}

	if e.msg != "" {
		return e.msg
	}

	return e.errType.String() + " error"
}

// LogValue implements slog.LogValuer so logged errors keep their taxonomy.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", e.errType.String()),
		slog.String("code", e.code.String()),
		slog.String("msg", e.msg),
	}
	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(attrs...)
}

// Msg is the client-facing message.
func (e *Error) Msg() string {
	return e.msg
}

func (e *Error) Type() Type {
	return e.errType
}

func (e *Error) Code() Code {
	return e.code
}

// Fields holds per-field validation messages, if any.
func (e *Error) Fields() map[string]string {
	return e.fields
}

func (e *Error) Unwrap() error {
	return e.err
}

// StatusCode is the HTTP status for the error's code.
func (e *Error) StatusCode() int {
	if !e.code.valid() {
		return http.StatusInternalServerError
	}
	return codes[e.code].status
}

func new(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer creates a server-type error with the provided error.
func NewServer(err error) error {
	return new(err, "Internal server error", TypeServer, CodeInternal)
}

// NewBusiness creates a business-type error with the specified message and code.
func NewBusiness(msg string, code Code) error {
	return new(nil, msg, TypeBusiness, code)
}

// NewDelivery reports a channel that failed to deliver. The client sees msg,
// logs see err.
func NewDelivery(msg string, err error) error {
	return new(err, msg, TypeBusiness, CodeUnavailable)
}

// NewInvalidInput creates a validation error. With err nil, kv pairs become
// the field messages.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return new(err, "Validation error", TypeValidation, CodeInvalidInput)
	}

	if len(kv)%2 != 0 {
		return new(nil, "Invalid request body", TypeValidation, CodeInvalidFormat)
	}

	fields := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}

	return &Error{msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput, fields: fields}
}

// NewInvalidInputMsg creates a validation error carrying a client-facing message.
func NewInvalidInputMsg(msg string, err error) error {
	return new(err, msg, TypeValidation, CodeInvalidInput)
}

// NewInvalidFormat creates a validation error for an invalid request body format.
func NewInvalidFormat(msgs ...string) error {
	if len(msgs) == 0 {
		return new(nil, "Invalid request body", TypeValidation, CodeInvalidFormat)
	}
	return new(nil, msgs[0], TypeValidation, CodeInvalidFormat)
}

package booking

import (
	"errors"
	"fmt"
)

// Kind classifies failures so transports can map them without string matching.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindAuth        Kind = "auth"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindUpstream    Kind = "upstream"
	KindPersistence Kind = "persistence"
)

// Error is the tagged error returned by booking, payment and content operations.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: KindNotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func newError(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func ValidationError(format string, args ...interface{}) *Error {
	return newError(KindValidation, nil, format, args...)
}

func AuthError(format string, args ...interface{}) *Error {
	return newError(KindAuth, nil, format, args...)
}

func NotFoundError(format string, args ...interface{}) *Error {
	return newError(KindNotFound, nil, format, args...)
}

func ConflictError(format string, args ...interface{}) *Error {
	return newError(KindConflict, nil, format, args...)
}

func UpstreamError(err error, format string, args ...interface{}) *Error {
	return newError(KindUpstream, err, format, args...)
}

func PersistenceError(err error, format string, args ...interface{}) *Error {
	return newError(KindPersistence, err, format, args...)
}

// KindOf returns the kind of err, or "" when err is not tagged.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

package store

import (
	"errors"
	"strings"
)

// ErrorKind classifies why a fetch failed.
type ErrorKind string

const (
	KindUnknown    ErrorKind = "unknown"
	KindTransport  ErrorKind = "transport"
	KindServer     ErrorKind = "server"
	KindValidation ErrorKind = "validation"
	KindDecode     ErrorKind = "decode"
)

// FetchError is the structured cause carried by an error slice.
type FetchError struct {
	Kind    ErrorKind
	Message string
	// Status is the HTTP status for server errors, zero otherwise.
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Message) == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// E builds a FetchError.
func E(kind ErrorKind, message string) *FetchError {
	return &FetchError{Kind: kind, Message: message}
}

// Wrap builds a FetchError that keeps err as its underlying cause.
func Wrap(kind ErrorKind, message string, err error) *FetchError {
	return &FetchError{Kind: kind, Message: message, Err: err}
}

// CauseOf converts any error into a FetchError. Errors that already are (or wrap)
// a FetchError are returned as-is; anything else is classified as unknown.
func CauseOf(err error) *FetchError {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) && fe != nil {
		return fe
	}
	return Wrap(KindUnknown, err.Error(), err)
}

// IsKind reports whether err is a FetchError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *FetchError
	if !errors.As(err, &fe) || fe == nil {
		return false
	}
	return fe.Kind == kind
}

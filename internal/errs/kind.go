package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that must react to it (HTTP status, CLI message).
type Kind string

const (
	KindUnknown      Kind = ""
	KindValidation   Kind = "validation"
	KindInvalidState Kind = "invalid_state"
	KindNotFound     Kind = "not_found"
	KindCycleClosed  Kind = "cycle_closed"
)

// Error is a classified error. Cause, when set, stays reachable through errors.Is/As.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// E builds a classified error with a formatted message.
func E(kind Kind, cause error, format string, args ...any) error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

func Validation(format string, args ...any) error {
	return E(KindValidation, nil, format, args...)
}

func InvalidState(cause error, format string, args ...any) error {
	return E(KindInvalidState, cause, format, args...)
}

func NotFound(cause error, format string, args ...any) error {
	return E(KindNotFound, cause, format, args...)
}

func CycleClosed(cause error, format string, args ...any) error {
	return E(KindCycleClosed, cause, format, args...)
}

// KindOf returns the kind of the outermost classified error in the chain.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

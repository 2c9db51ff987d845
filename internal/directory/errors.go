package directory

import (
	"errors"
	"fmt"
)

// Kind classifies a directory failure.
type Kind int

const (
	KindProvider Kind = iota
	KindNotFound
	KindAlreadyExists
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "provider"
	}
}

// Error codes surfaced to API callers. They follow the identity provider's
// own "auth/..." naming so clients keep working across backends.
const (
	CodeUserNotFound       = "auth/user-not-found"
	CodeEmailAlreadyExists = "auth/email-already-exists"
	CodeUIDAlreadyExists   = "auth/uid-already-exists"
	CodePhoneAlreadyExists = "auth/phone-number-already-exists"
	CodeInvalidArgument    = "auth/invalid-argument"
	CodeInsufficientAccess = "auth/insufficient-permission"
	CodeUnauthenticated    = "auth/unauthenticated"
	CodeServiceUnavailable = "auth/service-unavailable"
	CodeInternalError      = "auth/internal-error"
)

// Error is a classified provider failure. Code and Message are passed to the
// caller verbatim.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound builds a KindNotFound error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeUserNotFound, Message: message}
}

// AsError extracts a *Error from err. Unclassified errors are reported as
// provider errors with an internal-error code.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return &Error{Kind: KindProvider, Code: CodeInternalError, Message: err.Error(), Err: err}
}

// IsNotFound reports whether err means the account does not exist.
func IsNotFound(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == KindNotFound
}

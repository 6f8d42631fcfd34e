package backend

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed backend call.
type ErrorKind string

const (
	// KindUnavailable covers transport failures, timeouts and non-2xx statuses on read calls.
	KindUnavailable ErrorKind = "BACKEND_UNAVAILABLE"
	// KindMalformed means the payload could not be decoded into the expected shape.
	KindMalformed ErrorKind = "MALFORMED_RESPONSE"
	// KindPaymentRejected means payment creation answered with a status other than 200.
	KindPaymentRejected ErrorKind = "PAYMENT_REJECTED"
)

// Sentinels for errors.Is checks against *Error values.
var (
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrMalformedResponse  = errors.New("malformed backend response")
	ErrPaymentRejected    = errors.New("payment rejected")
)

// Error is a typed backend failure.
type Error struct {
	Kind    ErrorKind
	Op      string // client operation, e.g. "list_tariffs"
	Status  int    // HTTP status, 0 when no response was received
	Message string // backend-supplied message, if any
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Op)
	if e.Status != 0 {
		msg += fmt.Sprintf(": status %d", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel that corresponds to the error kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrBackendUnavailable:
		return e.Kind == KindUnavailable
	case ErrMalformedResponse:
		return e.Kind == KindMalformed
	case ErrPaymentRejected:
		return e.Kind == KindPaymentRejected
	}
	return false
}

func unavailable(op string, status int, cause error) *Error {
	return &Error{Kind: KindUnavailable, Op: op, Status: status, Cause: cause}
}

func malformed(op string, status int, cause error) *Error {
	return &Error{Kind: KindMalformed, Op: op, Status: status, Cause: cause}
}

// KindOf returns the kind of a backend error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

package errors

import (
	"errors"
	"fmt"
)

// Failure taxonomy of the retrieval pipeline. Transient errors are retried
// with backoff; everything else is surfaced to the caller immediately.
var (
	ErrInvalidURL         = errors.New("invalid post url")
	ErrNoMedia            = errors.New("no media found")
	ErrNotFound           = errors.New("post not found")
	ErrRateLimited        = errors.New("rate limited by upstream")
	ErrUnauthorized       = errors.New("temporarily unauthorized")
	ErrCheckpointRequired = errors.New("checkpoint required")
	ErrTryAgain           = errors.New("temporary upstream failure")
	ErrDownloadFailed     = errors.New("media download failed")
)

// Error is a wrapping error carrying an optional short code for logs.
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsTransient reports whether the error is a transient upstream failure
// worth retrying: rate limiting, a temporary auth hiccup, or a checkpoint
// challenge. Not-found, invalid-URL and no-media are terminal.
func IsTransient(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrCheckpointRequired) ||
		errors.Is(err, ErrTryAgain)
}

// IsNotFound returns true if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited returns true if the error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsNoMedia returns true if resolution found no downloadable media
func IsNoMedia(err error) bool {
	return errors.Is(err, ErrNoMedia)
}

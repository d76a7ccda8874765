package marketplace

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured    = errors.New("marketplace: account not configured")
	ErrAdapterNotFound  = errors.New("marketplace: no adapter registered for code")
	ErrCapabilityAbsent = errors.New("marketplace: capability not offered by this marketplace")
	ErrRecordNotFound   = errors.New("marketplace: record not found")
)

// ErrorKind classifies a failed marketplace call. The crawler's retry policy
// keys off this classification; adapters themselves never retry.
type ErrorKind string

const (
	// KindUnauthorized means credentials were rejected. Fatal to the run.
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	// KindRateLimited means the marketplace throttled the call. Retryable.
	KindRateLimited ErrorKind = "RATE_LIMITED"
	// KindNotFound means the requested resource does not exist.
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindTransient covers timeouts, 5xx responses and connection failures. Retryable.
	KindTransient ErrorKind = "TRANSIENT"
	// KindMalformed means the payload could not be decoded. Not retryable.
	KindMalformed ErrorKind = "MALFORMED"
)

// AdapterError wraps a transport or decoding failure with its classification.
type AdapterError struct {
	Kind ErrorKind
	Code Code
	Err  error
}

// Error implements the error interface
func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s adapter: %s: %v", e.Code, e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *AdapterError) Unwrap() error {
	return e.Err
}

// NewAdapterError creates a classified adapter error.
func NewAdapterError(code Code, kind ErrorKind, err error) *AdapterError {
	return &AdapterError{Kind: kind, Code: code, Err: err}
}

// KindOf returns the classification of err, or KindTransient if err is not an
// AdapterError. Unclassified failures are treated as retryable on the
// assumption that misclassifying a permanent error costs a few wasted
// attempts, while misclassifying a transient one loses data.
func KindOf(err error) ErrorKind {
	var ae *AdapterError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindTransient
}

// IsRetryable reports whether the crawler may retry the same page after err.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindTransient, KindRateLimited:
		return true
	default:
		return false
	}
}

// IsUnauthorized reports whether err is a credential failure.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

// IsRateLimited reports whether err is a marketplace throttle response.
func IsRateLimited(err error) bool {
	return KindOf(err) == KindRateLimited
}

// IsMalformed reports whether err is a payload decoding failure.
func IsMalformed(err error) bool {
	return KindOf(err) == KindMalformed
}

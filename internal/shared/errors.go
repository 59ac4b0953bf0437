// Package shared contains common error types and utilities.
package shared

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
)

// Common errors used to classify operation failures
var (
	// ErrTransient indicates a failure that may succeed on a later attempt
	ErrTransient = errors.New("transient failure")

	// ErrPermanent indicates a failure that will not go away by retrying
	ErrPermanent = errors.New("permanent failure")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrValidation indicates that input validation failed
	ErrValidation = errors.New("validation failed")
)

// Kind represents a category of error for easier classification and handling.
type Kind int

const (
	// KindUnknown represents an unclassified error
	KindUnknown Kind = iota
	// KindTransient represents retryable failures
	KindTransient
	// KindPermanent represents failures that must not be retried
	KindPermanent
	// KindTimeout represents timeout errors
	KindTimeout
	// KindCanceled represents context cancellation
	KindCanceled
	// KindValidation represents input validation errors
	KindValidation
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "Transient"
	case KindPermanent:
		return "Permanent"
	case KindTimeout:
		return "Timeout"
	case KindCanceled:
		return "Canceled"
	case KindValidation:
		return "Validation"
	default:
		return "Unknown"
	}
}

var kindToSentinel = map[Kind]error{
	KindTransient:  ErrTransient,
	KindPermanent:  ErrPermanent,
	KindTimeout:    ErrTimeout,
	KindValidation: ErrValidation,
}

// KindOf classifies err. Checks run in priority order: canceled, permanent,
// validation, timeout, transient. A permanent mark wins over a timeout so
// callers can opt out of retrying specific timeouts.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case IsCanceled(err):
		return KindCanceled
	case errors.Is(err, ErrPermanent):
		return KindPermanent
	case errors.Is(err, ErrValidation):
		return KindValidation
	case IsTimeout(err):
		return KindTimeout
	case errors.Is(err, ErrTransient):
		return KindTransient
	default:
		return KindUnknown
	}
}

// HasKind reports whether the given error has the specified kind.
func HasKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// MarkKind wraps err with the sentinel for kind, keeping err in the chain.
// Marking with a kind err already has, KindUnknown or KindCanceled returns err
// unchanged. A nil err yields the bare sentinel.
//
// Example:
//
//	if resp.StatusCode >= 500 {
//	    return shared.MarkKind(err, shared.KindTransient)
//	}
//	return shared.MarkKind(err, shared.KindPermanent)
func MarkKind(err error, kind Kind) error {
	sentinel := kindToSentinel[kind]
	if err == nil {
		return sentinel
	}
	if sentinel == nil || KindOf(err) == kind {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Transient marks err as retryable.
func Transient(err error) error { return MarkKind(err, KindTransient) }

// Permanent marks err as not retryable.
func Permanent(err error) error { return MarkKind(err, KindPermanent) }

// Wrap wraps an error with additional context.
// If err is nil, Wrap returns nil.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	if context == "" {
		return err
	}
	return fmt.Errorf("%s: %w", context, err)
}

// IsCanceled reports whether the error indicates a canceled context.
func IsCanceled(err error) bool {
	return err != nil && errors.Is(err, context.Canceled)
}

// IsTimeout reports whether the error indicates a timeout.
// It checks for context.DeadlineExceeded, ErrTimeout and net.Error timeouts,
// which includes per-attempt timeouts from pkg/retry.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Retryable is a retry predicate. Timeouts, transient marks and dropped
// connections are retried; cancellation, permanent and validation failures
// and anything unrecognised are not.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindTimeout, KindTransient:
		return true
	case KindUnknown:
		return isConnectionFailure(err)
	default:
		return false
	}
}

func isConnectionFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsTemporary {
		return true
	}

	var syscallErr *os.SyscallError
	if errors.As(err, &syscallErr) {
		switch syscallErr.Err {
		case syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ECONNABORTED,
			syscall.ENETDOWN, syscall.ENETUNREACH, syscall.EPIPE,
			syscall.EHOSTUNREACH, syscall.ETIMEDOUT:
			return true
		}
	}
	return false
}

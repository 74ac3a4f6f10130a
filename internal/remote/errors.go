package remote

import (
	"context"
	"errors"
	"fmt"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

// ErrNotFound is returned when an id passed to Update or Download does not
// resolve to an object.
var ErrNotFound = errors.New("remote: object not found")

// StatusError carries the numeric status class the remote store reported
// for a failed operation. The transfer engine switches on it instead of
// re-parsing vendor exception types.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote: status %d: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("remote: status %d", e.Code)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// Transient reports whether the status belongs to the server-side error
// class that is worth retrying with backoff.
func (e *StatusError) Transient() bool {
	switch e.Code {
	case 500, 502, 503, 504:
		return true
	}
	return false
}

// IsTransient classifies an operation error for the retry loops.
//
// Retryable: the designated transient status codes, and any fault with no
// status at all (connectivity loss, timeouts). Not retryable: other status
// codes, context cancellation, and the local bounds errors, which surface
// before a request is even made.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Transient()
	}
	if errors.Is(err, ErrNotFound) {
		return false
	}
	// No status class: a transport-level connectivity fault.
	return true
}

// wrapStatus attaches a StatusError to errors that carry an HTTP response,
// so callers can classify without importing the SDK. Other errors pass
// through unchanged.
func wrapStatus(err error) error {
	if err == nil {
		return nil
	}
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		return &StatusError{Code: re.HTTPStatusCode(), Err: err}
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		// An API error without an HTTP response; treat service faults
		// as a generic server error so they stay retryable.
		if ae.ErrorFault() == smithy.FaultServer {
			return &StatusError{Code: 500, Err: err}
		}
	}
	return err
}

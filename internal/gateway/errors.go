package gateway

import (
	"errors"
	"fmt"
)

// Failure reasons carried by RemoteError. Backends map their native errors
// onto these.
const (
	ReasonTransport     = "transport"
	ReasonAuthorization = "authorization"
	ReasonConstraint    = "constraint"
	ReasonInternal      = "internal"
)

// RemoteError wraps any failure reported by a remote gateway call. The
// engine never retries these; they propagate to the caller unchanged.
type RemoteError struct {
	Reason string
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("remote %s failure", e.Reason)
	}
	return fmt.Sprintf("remote %s failure: %v", e.Reason, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Remote wraps err as a RemoteError with the given reason. A nil err is
// passed through.
func Remote(reason string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteError{Reason: reason, Err: err}
}

// IsRemote reports whether err is (or wraps) a RemoteError.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

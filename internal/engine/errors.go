package engine

import (
	"errors"
	"fmt"
)

// NotFoundError is raised locally when a duplication source is absent from
// the cached graph. It is checked before any network call is made; no other
// operation validates against the local cache.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found in local graph", e.Kind, e.ID)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

package sqlite

import (
	"strings"

	"github.com/nordfjell/anbud/internal/gateway"
)

// mapError wraps a database error as a gateway.RemoteError. SQLite reports
// constraint failures by message text; everything else is classified as an
// internal store failure.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "constraint") {
		return gateway.Remote(gateway.ReasonConstraint, err)
	}
	return gateway.Remote(gateway.ReasonInternal, err)
}

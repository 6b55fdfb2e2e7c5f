package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nordfjell/anbud/internal/gateway"
)

// mapError wraps a pgx error as a gateway.RemoteError, classifying the
// failure reason from the PostgreSQL error code. Every error leaving this
// package goes through here.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return gateway.Remote(gateway.ReasonTransport, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		// Network-level failures carry no error code.
		return gateway.Remote(gateway.ReasonTransport, err)
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation,
		pgerrcode.ForeignKeyViolation,
		pgerrcode.CheckViolation,
		pgerrcode.NotNullViolation:
		return gateway.Remote(gateway.ReasonConstraint, err)

	case pgerrcode.InsufficientPrivilege,
		pgerrcode.InvalidAuthorizationSpecification,
		pgerrcode.InvalidPassword:
		return gateway.Remote(gateway.ReasonAuthorization, err)

	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.CannotConnectNow,
		pgerrcode.QueryCanceled,
		pgerrcode.AdminShutdown,
		pgerrcode.CrashShutdown:
		return gateway.Remote(gateway.ReasonTransport, err)

	default:
		return gateway.Remote(gateway.ReasonInternal, err)
	}
}

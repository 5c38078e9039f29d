package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/kitty/internal/metrics"
)

// ErrTxAborted is reported when a unit of work could not be completed and
// was rolled back as a whole. None of its effects are visible.
var ErrTxAborted = errors.New("operation failed, retry")

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
)

const (
	retryAttempts        = 3
	retryInitialInterval = 20 * time.Millisecond
)

// IsRetryable reports whether err is a transient abort that re-running the
// whole unit of work can resolve.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected
}

// IsUniqueViolation reports whether err was raised by a unique constraint,
// optionally restricted to the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeUniqueViolation {
		return false
	}

	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsForeignKeyViolation reports whether err was raised by a foreign key.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation
}

// Retry runs fn, re-running it from scratch while it fails with a retryable
// error. Any other error is returned unchanged on the first occurrence.
func Retry(ctx context.Context, op string, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval

	attempt := 0

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++

		err := fn()
		if err == nil {
			return struct{}{}, nil
		}

		if !IsRetryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}

		if attempt < retryAttempts {
			metrics.TxRetries.WithLabelValues(op).Inc()
			slog.WarnContext(ctx, "retrying unit of work", "operation", op, "attempt", attempt, "error", err)
		}

		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(retryAttempts))

	return err
}

// Aborted wraps a storage failure of a unit of work so callers can tell it
// apart from domain rejections.
func Aborted(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTxAborted, err)
}

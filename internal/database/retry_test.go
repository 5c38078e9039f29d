package database_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kitty/internal/database"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "SerializationFailure", err: &pgconn.PgError{Code: "40001"}, want: true},
		{name: "Deadlock", err: fmt.Errorf("locking: %w", &pgconn.PgError{Code: "40P01"}), want: true},
		{name: "UniqueViolation", err: &pgconn.PgError{Code: "23505"}, want: false},
		{name: "Plain", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, database.IsRetryable(tt.err))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "ledger_members_single_owner"})

	assert.True(t, database.IsUniqueViolation(err, ""))
	assert.True(t, database.IsUniqueViolation(err, "ledger_members_single_owner"))
	assert.False(t, database.IsUniqueViolation(err, "categories_user_id_type_name_key"))
	assert.False(t, database.IsUniqueViolation(errors.New("nope"), ""))
}

func TestRetry_RetriesTransientAborts(t *testing.T) {
	calls := 0

	err := database.Retry(context.Background(), "test", func() error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: "40001"}
		}

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_GivesUpAfterAttempts(t *testing.T) {
	calls := 0

	err := database.Retry(context.Background(), "test", func() error {
		calls++
		return &pgconn.PgError{Code: "40P01"}
	})

	require.Error(t, err)
	assert.True(t, database.IsRetryable(err))
	assert.Equal(t, 3, calls)
}

func TestRetry_DoesNotRetryOtherErrors(t *testing.T) {
	sentinel := errors.New("category not found")
	calls := 0

	err := database.Retry(context.Background(), "test", func() error {
		calls++
		return sentinel
	})

	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestAborted(t *testing.T) {
	cause := errors.New("connection reset")
	err := database.Aborted("reallocate", cause)

	assert.ErrorIs(t, err, database.ErrTxAborted)
	assert.ErrorIs(t, err, cause)
}

//go:build integration

// Package databasetest starts a disposable, migrated Postgres for store tests.
package databasetest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/MrJamesThe3rd/kitty/internal/database"
)

const dbName = "kitty_test"

// New returns a connection to a fresh migrated database. The container is
// terminated when the test finishes.
func New(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.New(ctx, connStr, database.Options{MaxOpenConns: 10})
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, dbName))

	return db
}

// Exec runs a fixture statement and fails the test on error.
func Exec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()

	_, err := db.ExecContext(context.Background(), query, args...)
	require.NoError(t, err)
}

// InsertID runs an INSERT ... RETURNING id fixture statement.
func InsertID(t *testing.T, db *sql.DB, query string, args ...any) int64 {
	t.Helper()

	var id int64
	require.NoError(t, db.QueryRowContext(context.Background(), query, args...).Scan(&id))

	return id
}

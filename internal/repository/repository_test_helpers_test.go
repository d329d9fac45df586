package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"labtrack/internal/clock"
	"labtrack/internal/database"
)

// openTestDB поднимает sqlite в памяти с настоящей схемой.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, "sqlite"))
	return db
}

// fixedTime — метка с точностью до секунды, как в хранилище.
func fixedTime(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := clock.Parse(value)
	require.NoError(t, err)
	return parsed
}

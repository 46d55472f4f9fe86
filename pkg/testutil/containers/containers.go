//go:build integration

// Package containers starts the Postgres instance shared by integration suites.
package containers

import (
	"database/sql"
	"io/fs"
	"sync"
	"testing"
)

var (
	sharedMu sync.Mutex
	shared   *PostgresContainer
)

// Postgres returns the container shared by every suite in the test binary,
// starting it on first use. A failed start is retried by the next caller.
func Postgres(t *testing.T) *PostgresContainer {
	t.Helper()

	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared == nil {
		shared = NewPostgresContainer(t)
	}
	return shared
}

// ServiceDB is a migrated database for one service inside the shared container.
func ServiceDB(t *testing.T, name string, migrations fs.FS) *sql.DB {
	t.Helper()
	return Postgres(t).Database(t, name, migrations)
}

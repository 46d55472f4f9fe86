//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"net/url"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"storefront/internal/platform/database"
)

// PostgresContainer wraps a testcontainers Postgres instance. Each service
// gets its own database inside it, migrated with that service's migrations,
// mirroring the one-database-per-service deployment.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB

	mu        sync.Mutex
	databases map[string]*sql.DB
}

// NewPostgresContainer starts a new Postgres container.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("storefront"),
		postgres.WithPassword("storefront_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	// No t.Cleanup: the container is shared across suites and Ryuk
	// removes it when the test process exits.
	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
		databases: make(map[string]*sql.DB),
	}
}

// Database returns a connection to the named database, creating it and
// applying migrations on first use.
func (p *PostgresContainer) Database(t *testing.T, name string, migrations fs.FS) *sql.DB {
	t.Helper()

	p.mu.Lock()
	defer p.mu.Unlock()

	if db, ok := p.databases[name]; ok {
		return db
	}

	ctx := context.Background()
	if _, err := p.DB.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %q", name)); err != nil {
		t.Fatalf("create database %s: %v", name, err)
	}

	dsn, err := withDatabase(p.DSN, name)
	if err != nil {
		t.Fatalf("build dsn for %s: %v", name, err)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("connect to %s: %v", name, err)
	}
	if err := database.Migrate(ctx, db, migrations); err != nil {
		_ = db.Close()
		t.Fatalf("migrate %s: %v", name, err)
	}

	p.databases[name] = db
	return db
}

func withDatabase(dsn, name string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	u.Path = "/" + name
	return u.String(), nil
}

// TruncateTables clears all data from the specified tables of db.
// Use between tests to ensure isolation without restarting the container.
func TruncateTables(ctx context.Context, db *sql.DB, tables ...string) error {
	for _, table := range tables {
		if _, err := db.ExecContext(ctx, "TRUNCATE TABLE "+table+" RESTART IDENTITY CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

package postgresqltest

import (
	"context"
	"fmt"
	"os"

	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/database"
)

// TestDatabaseSetup holds the connection used by repository integration tests
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL. ok is false when the variable is unset.
func NewTestDatabase(ctx context.Context) (setup *TestDatabaseSetup, ok bool, err error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, false, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	if err != nil {
		return nil, true, fmt.Errorf("failed to connect to test database: %w", err)
	}

	return &TestDatabaseSetup{DB: db}, true, nil
}

// schema is the subset of the HRIS tables the window repository reads
var schema = []string{
	`CREATE TABLE IF NOT EXISTS branches (
		id         UUID PRIMARY KEY,
		company_id UUID NOT NULL,
		name       TEXT NOT NULL,
		timezone   TEXT NOT NULL DEFAULT 'Asia/Jakarta'
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id         UUID PRIMARY KEY,
		company_id UUID NOT NULL,
		branch_id  UUID REFERENCES branches(id),
		full_name  TEXT NOT NULL,
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS attendances (
		id                     UUID PRIMARY KEY,
		employee_id            UUID NOT NULL REFERENCES employees(id),
		company_id             UUID NOT NULL,
		date                   DATE NOT NULL,
		clock_in               TIMESTAMPTZ,
		clock_out              TIMESTAMPTZ,
		status                 TEXT NOT NULL DEFAULT 'on_time',
		late_checkout_approved BOOLEAN NOT NULL DEFAULT FALSE,
		created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (employee_id, date)
	)`,
}

// Migrate creates the tables if they do not exist
func (t *TestDatabaseSetup) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := t.DB.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// TruncateAllTables deletes every row from the test tables
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"attendances",
		"employees",
		"branches",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}

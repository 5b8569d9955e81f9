// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/akarpov87/homehistory/internal/dbx"
	"github.com/akarpov87/homehistory/internal/server/migrations"
	"github.com/akarpov87/homehistory/internal/server/repositories/access"
	"github.com/akarpov87/homehistory/internal/server/repositories/attachments"
	"github.com/akarpov87/homehistory/internal/server/repositories/homes"
	"github.com/akarpov87/homehistory/internal/server/repositories/records"
	"github.com/akarpov87/homehistory/internal/server/repositories/refreshtokens"
	"github.com/akarpov87/homehistory/internal/server/repositories/reminders"
	"github.com/akarpov87/homehistory/internal/server/repositories/users"
	"github.com/akarpov87/homehistory/internal/server/repositories/warranties"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Homes returns a homes.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Homes(db dbx.DBTX) homes.Repository {
	return homes.NewPostgresRepository(db)
}

// Access returns an access.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Access(db dbx.DBTX) access.Repository {
	return access.NewPostgresRepository(db)
}

// Records returns a records.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Records(db dbx.DBTX) records.Repository {
	return records.NewPostgresRepository(db)
}

// Reminders returns a reminders.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Reminders(db dbx.DBTX) reminders.Repository {
	return reminders.NewPostgresRepository(db)
}

// Warranties returns a warranties.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Warranties(db dbx.DBTX) warranties.Repository {
	return warranties.NewPostgresRepository(db)
}

// Attachments returns an attachments.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Attachments(db dbx.DBTX) attachments.Repository {
	return attachments.NewPostgresRepository(db)
}

// RefreshTokens returns a refreshtokens.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

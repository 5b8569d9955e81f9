// Package access provides a PostgreSQL-backed repository for per-home
// delegated access grants.
package access

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akarpov87/homehistory/internal/common"
	"github.com/akarpov87/homehistory/internal/dbx"
	"github.com/akarpov87/homehistory/internal/server/models"
)

// PostgresRepository implements grant storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the grant for (homeID, userID), or common.ErrNotFound.
func (r *PostgresRepository) Get(ctx context.Context, homeID, userID string) (*models.AccessGrant, error) {
	query := `
		SELECT id, home_id, user_id, role, migrated_at
		FROM home_access
		WHERE home_id = $1 AND user_id = $2
	`
	grant := &models.AccessGrant{}
	var migratedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, homeID, userID).Scan(
		&grant.ID, &grant.HomeID, &grant.UserID, &grant.Role, &migratedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if migratedAt.Valid {
		t := migratedAt.Time
		grant.MigratedAt = &t
	}
	return grant, nil
}

// Upsert creates the grant for (homeID, userID) or updates its role.
// At most one grant per pair is enforced by the unique constraint.
func (r *PostgresRepository) Upsert(ctx context.Context, homeID, userID, role string) error {
	query := `
		INSERT INTO home_access (home_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (home_id, user_id)
		DO UPDATE SET role = EXCLUDED.role
	`
	if _, err := r.db.ExecContext(ctx, query, homeID, userID, role); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SetMigratedAt stamps the grant's migrated_at with the current time,
// creating an owner grant first if one does not exist yet.
func (r *PostgresRepository) SetMigratedAt(ctx context.Context, homeID, userID string) error {
	query := `
		INSERT INTO home_access (home_id, user_id, role, migrated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (home_id, user_id)
		DO UPDATE SET migrated_at = EXCLUDED.migrated_at
	`
	if _, err := r.db.ExecContext(ctx, query, homeID, userID, models.GrantRoleOwner, time.Now()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

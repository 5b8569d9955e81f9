// Package warranties provides a PostgreSQL-backed repository for home
// warranties.
package warranties

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akarpov87/homehistory/internal/common"
	"github.com/akarpov87/homehistory/internal/dbx"
	"github.com/akarpov87/homehistory/internal/server/models"
)

// PostgresRepository implements warranty storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByHome returns all warranties for homeID, soonest expiry first.
func (r *PostgresRepository) ListByHome(ctx context.Context, homeID string) ([]*models.Warranty, error) {
	query := `
		SELECT id, home_id, item, provider, policy_no, expires_at, created_at
		FROM warranties
		WHERE home_id = $1
		ORDER BY expires_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, homeID)
	if err != nil {
		return nil, fmt.Errorf("failed to select warranties: %w", err)
	}
	defer rows.Close()

	var result []*models.Warranty
	for rows.Next() {
		var item models.Warranty
		var expires sql.NullTime
		if err := rows.Scan(&item.ID, &item.HomeID, &item.Item, &item.Provider,
			&item.PolicyNo, &expires, &item.CreatedAt); err != nil {
			return nil, err
		}
		if expires.Valid {
			t := expires.Time
			item.ExpiresAt = &t
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns the warranty with the given id, or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Warranty, error) {
	query := `
		SELECT id, home_id, item, provider, policy_no, expires_at, created_at
		FROM warranties
		WHERE id = $1
	`
	item := &models.Warranty{}
	var expires sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.HomeID, &item.Item, &item.Provider, &item.PolicyNo,
		&expires, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if expires.Valid {
		t := expires.Time
		item.ExpiresAt = &t
	}
	return item, nil
}

// Create inserts a new warranty and returns it with the generated id.
func (r *PostgresRepository) Create(ctx context.Context, warranty *models.Warranty) (*models.Warranty, error) {
	query := `
		INSERT INTO warranties (home_id, item, provider, policy_no, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	var expires sql.NullTime
	if warranty.ExpiresAt != nil {
		expires = sql.NullTime{Time: *warranty.ExpiresAt, Valid: true}
	}
	err := r.db.QueryRowContext(ctx, query,
		warranty.HomeID, warranty.Item, warranty.Provider, warranty.PolicyNo,
		expires).Scan(&warranty.ID, &warranty.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return warranty, nil
}

// Delete removes the warranty. The warranty must belong to homeID,
// otherwise common.ErrNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id, homeID string) error {
	query := `DELETE FROM warranties WHERE id = $1 AND home_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, homeID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

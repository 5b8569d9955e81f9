// Package homes provides a PostgreSQL-backed repository for homes.
package homes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akarpov87/homehistory/internal/common"
	"github.com/akarpov87/homehistory/internal/dbx"
	"github.com/akarpov87/homehistory/internal/server/models"
)

// PostgresRepository implements home storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new home and returns it with the generated id.
func (r *PostgresRepository) Create(ctx context.Context, home *models.Home) (*models.Home, error) {
	query := `
		INSERT INTO homes (owner_id, address, city, state, zip)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		home.OwnerID, home.Address, home.City, home.State, home.Zip).Scan(&home.ID, &home.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return home, nil
}

// GetByID returns the home with the given id, or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Home, error) {
	query := `
		SELECT id, owner_id, address, city, state, zip, data_source, created_at
		FROM homes
		WHERE id = $1
	`
	home := &models.Home{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&home.ID, &home.OwnerID, &home.Address, &home.City, &home.State, &home.Zip,
		&home.DataSource, &home.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return home, nil
}

// FindByOwnerAddress returns the home the owner already registered at the
// exact address, or common.ErrNotFound.
func (r *PostgresRepository) FindByOwnerAddress(ctx context.Context, ownerID, address, city, state, zip string) (*models.Home, error) {
	query := `
		SELECT id, owner_id, address, city, state, zip, data_source, created_at
		FROM homes
		WHERE owner_id = $1 AND address = $2 AND city = $3 AND state = $4 AND zip = $5
	`
	home := &models.Home{}
	err := r.db.QueryRowContext(ctx, query, ownerID, address, city, state, zip).Scan(
		&home.ID, &home.OwnerID, &home.Address, &home.City, &home.State, &home.Zip,
		&home.DataSource, &home.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return home, nil
}

// SetDataSource marks where the home's history originated (e.g. "Local").
func (r *PostgresRepository) SetDataSource(ctx context.Context, homeID, source string) error {
	query := `UPDATE homes SET data_source = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, homeID, source); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Package records provides a PostgreSQL-backed repository for home
// history records.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akarpov87/homehistory/internal/common"
	"github.com/akarpov87/homehistory/internal/dbx"
	"github.com/akarpov87/homehistory/internal/server/models"
)

// PostgresRepository implements record storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByHome returns all records for homeID, newest date first.
func (r *PostgresRepository) ListByHome(ctx context.Context, homeID string) ([]*models.Record, error) {
	query := `
		SELECT id, home_id, title, note, kind, vendor, cost, date, created_by, created_at
		FROM records
		WHERE home_id = $1
		ORDER BY date DESC
	`
	rows, err := r.db.QueryContext(ctx, query, homeID)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []*models.Record
	for rows.Next() {
		var item models.Record
		var cost sql.NullFloat64
		if err := rows.Scan(&item.ID, &item.HomeID, &item.Title, &item.Note, &item.Kind,
			&item.Vendor, &cost, &item.Date, &item.CreatedBy, &item.CreatedAt); err != nil {
			return nil, err
		}
		if cost.Valid {
			v := cost.Float64
			item.Cost = &v
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns the record with the given id, or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	query := `
		SELECT id, home_id, title, note, kind, vendor, cost, date, created_by, created_at
		FROM records
		WHERE id = $1
	`
	item := &models.Record{}
	var cost sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.HomeID, &item.Title, &item.Note, &item.Kind,
		&item.Vendor, &cost, &item.Date, &item.CreatedBy, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if cost.Valid {
		v := cost.Float64
		item.Cost = &v
	}
	return item, nil
}

// Create inserts a new record and returns it with the generated id.
func (r *PostgresRepository) Create(ctx context.Context, record *models.Record) (*models.Record, error) {
	query := `
		INSERT INTO records (home_id, title, note, kind, vendor, cost, date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	var cost sql.NullFloat64
	if record.Cost != nil {
		cost = sql.NullFloat64{Float64: *record.Cost, Valid: true}
	}
	err := r.db.QueryRowContext(ctx, query,
		record.HomeID, record.Title, record.Note, record.Kind, record.Vendor,
		cost, record.Date, record.CreatedBy).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return record, nil
}

// Update applies a partial update; nil params keep the stored value.
// The record must belong to homeID, otherwise common.ErrNotFound.
func (r *PostgresRepository) Update(ctx context.Context, id, homeID string, p UpdateParams) error {
	query := `
		UPDATE records SET
			title = COALESCE($3, title),
			note = COALESCE($4, note),
			kind = COALESCE($5, kind),
			date = COALESCE($6, date)
		WHERE id = $1 AND home_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, homeID, p.Title, p.Note, p.Kind, p.Date)
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

// Delete removes the record. The record must belong to homeID, otherwise
// common.ErrNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id, homeID string) error {
	query := `DELETE FROM records WHERE id = $1 AND home_id = $2`
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

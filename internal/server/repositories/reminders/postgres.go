// Package reminders provides a PostgreSQL-backed repository for home
// reminders.
package reminders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akarpov87/homehistory/internal/common"
	"github.com/akarpov87/homehistory/internal/dbx"
	"github.com/akarpov87/homehistory/internal/server/models"
)

// PostgresRepository implements reminder storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByHome returns all reminders for homeID, soonest due first.
func (r *PostgresRepository) ListByHome(ctx context.Context, homeID string) ([]*models.Reminder, error) {
	query := `
		SELECT id, home_id, title, due_at, created_by, created_at
		FROM reminders
		WHERE home_id = $1
		ORDER BY due_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, homeID)
	if err != nil {
		return nil, fmt.Errorf("failed to select reminders: %w", err)
	}
	defer rows.Close()

	var result []*models.Reminder
	for rows.Next() {
		var item models.Reminder
		if err := rows.Scan(&item.ID, &item.HomeID, &item.Title, &item.DueAt,
			&item.CreatedBy, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns the reminder with the given id, or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Reminder, error) {
	query := `
		SELECT id, home_id, title, due_at, created_by, created_at
		FROM reminders
		WHERE id = $1
	`
	item := &models.Reminder{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.HomeID, &item.Title, &item.DueAt, &item.CreatedBy, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// Create inserts a new reminder and returns it with the generated id.
func (r *PostgresRepository) Create(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error) {
	query := `
		INSERT INTO reminders (home_id, title, due_at, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		reminder.HomeID, reminder.Title, reminder.DueAt, reminder.CreatedBy).Scan(&reminder.ID, &reminder.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return reminder, nil
}

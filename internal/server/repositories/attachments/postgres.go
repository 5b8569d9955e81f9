// Package attachments provides a PostgreSQL-backed repository for
// attachment metadata rows.
package attachments

import (
	"context"
	"fmt"

	"github.com/akarpov87/homehistory/internal/dbx"
	"github.com/akarpov87/homehistory/internal/server/models"
)

// PostgresRepository implements attachment storage over a dbx.DBTX
// (*sql.DB or *sql.Tx). Run CreateBatch inside dbx.WithTx to get the
// all-or-nothing semantics the upload flow requires.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// entityColumn maps an entity kind to the attachment FK column holding it.
func entityColumn(kind models.EntityKind) (string, error) {
	switch kind {
	case models.KindRecord:
		return "record_id", nil
	case models.KindReminder:
		return "reminder_id", nil
	case models.KindWarranty:
		return "warranty_id", nil
	default:
		return "", fmt.Errorf("unknown entity kind: %s", kind)
	}
}

// CreateBatch inserts one row per item and returns the number inserted.
// Each storage key is unique by construction, so no conflict handling
// is needed.
func (r *PostgresRepository) CreateBatch(ctx context.Context, items []*models.Attachment) (int, error) {
	count := 0
	for _, item := range items {
		col, err := entityColumn(item.Entity.Kind)
		if err != nil {
			return count, err
		}
		query := fmt.Sprintf(`
			INSERT INTO attachments (home_id, %s, storage_key, url, filename, mime_type, size, uploaded_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, col)
		if _, err := r.db.ExecContext(ctx, query,
			item.HomeID, item.Entity.ID, item.StorageKey, item.URL,
			item.Filename, item.MimeType, item.Size, item.UploadedBy); err != nil {
			return count, fmt.Errorf("db error: %w", err)
		}
		count++
	}
	return count, nil
}

// ListByEntity returns the attachments registered for one record,
// reminder, or warranty, oldest first.
func (r *PostgresRepository) ListByEntity(ctx context.Context, ref models.EntityRef) ([]*models.Attachment, error) {
	col, err := entityColumn(ref.Kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT id, home_id, storage_key, url, filename, mime_type, size, uploaded_by, created_at
		FROM attachments
		WHERE %s = $1
		ORDER BY created_at ASC
	`, col)
	rows, err := r.db.QueryContext(ctx, query, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to select attachments: %w", err)
	}
	defer rows.Close()

	var result []*models.Attachment
	for rows.Next() {
		item := models.Attachment{Entity: ref}
		if err := rows.Scan(&item.ID, &item.HomeID, &item.StorageKey, &item.URL,
			&item.Filename, &item.MimeType, &item.Size, &item.UploadedBy, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

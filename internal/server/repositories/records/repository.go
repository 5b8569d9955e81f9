package records

import (
	"context"
	"time"

	"github.com/akarpov87/homehistory/internal/server/models"
)

// UpdateParams carries the optional fields of a partial record update.
// Nil fields are left unchanged.
type UpdateParams struct {
	Title *string
	Note  *string
	Kind  *string
	Date  *time.Time
}

type Repository interface {
	ListByHome(ctx context.Context, homeID string) ([]*models.Record, error)
	GetByID(ctx context.Context, id string) (*models.Record, error)
	Create(ctx context.Context, record *models.Record) (*models.Record, error)
	Update(ctx context.Context, id, homeID string, p UpdateParams) error
	Delete(ctx context.Context, id, homeID string) error
}

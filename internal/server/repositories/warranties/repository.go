package warranties

import (
	"context"

	"github.com/akarpov87/homehistory/internal/server/models"
)

type Repository interface {
	ListByHome(ctx context.Context, homeID string) ([]*models.Warranty, error)
	GetByID(ctx context.Context, id string) (*models.Warranty, error)
	Create(ctx context.Context, warranty *models.Warranty) (*models.Warranty, error)
	Delete(ctx context.Context, id, homeID string) error
}

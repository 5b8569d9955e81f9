package homes

import (
	"context"

	"github.com/akarpov87/homehistory/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, home *models.Home) (*models.Home, error)
	GetByID(ctx context.Context, id string) (*models.Home, error)
	FindByOwnerAddress(ctx context.Context, ownerID, address, city, state, zip string) (*models.Home, error)
	SetDataSource(ctx context.Context, homeID, source string) error
}

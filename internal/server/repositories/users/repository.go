package users

import (
	"context"

	"github.com/akarpov87/homehistory/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	SetLastHome(ctx context.Context, userID, homeID string) error
}

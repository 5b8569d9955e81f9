package reminders

import (
	"context"

	"github.com/akarpov87/homehistory/internal/server/models"
)

type Repository interface {
	ListByHome(ctx context.Context, homeID string) ([]*models.Reminder, error)
	GetByID(ctx context.Context, id string) (*models.Reminder, error)
	Create(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error)
}

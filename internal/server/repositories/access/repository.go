package access

import (
	"context"

	"github.com/akarpov87/homehistory/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, homeID, userID string) (*models.AccessGrant, error)
	Upsert(ctx context.Context, homeID, userID, role string) error
	SetMigratedAt(ctx context.Context, homeID, userID string) error
}

package attachments

import (
	"context"

	"github.com/akarpov87/homehistory/internal/server/models"
)

type Repository interface {
	CreateBatch(ctx context.Context, items []*models.Attachment) (int, error)
	ListByEntity(ctx context.Context, ref models.EntityRef) ([]*models.Attachment, error)
}

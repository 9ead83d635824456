package comment_repository

import (
	"context"

	model "community-feed-service/internal/domain/models"
)

type Repository interface {
	Create(ctx context.Context, comment *model.Comment) (*model.Comment, error)
	ListByItem(ctx context.Context, kind model.ContentKind, itemID int64) ([]*model.Comment, error)
	CountByItem(ctx context.Context, kind model.ContentKind, itemID int64) (int, error)
}

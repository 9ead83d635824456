package like_repository

import (
	"context"

	model "community-feed-service/internal/domain/models"
)

type Repository interface {
	Insert(ctx context.Context, kind model.ContentKind, userID, itemID int64) error
	// Delete reports whether a like row existed.
	Delete(ctx context.Context, kind model.ContentKind, userID, itemID int64) (bool, error)
	CountByItem(ctx context.Context, kind model.ContentKind, itemID int64) (int, error)
	ListItemIDsByUser(ctx context.Context, kind model.ContentKind, userID int64) ([]int64, error)
}

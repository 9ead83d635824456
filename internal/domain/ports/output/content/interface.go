package content_repository

import (
	"context"

	model "community-feed-service/internal/domain/models"
)

type Repository interface {
	Create(ctx context.Context, item *model.ContentItem) (*model.ContentItem, error)
	GetByID(ctx context.Context, kind model.ContentKind, id int64) (*model.ContentItem, error)
	// GetForUpdate reads the item and locks its row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, kind model.ContentKind, id int64) (*model.ContentItem, error)
	ListIDsByUser(ctx context.Context, kind model.ContentKind, userID int64) ([]int64, error)
	ListIDs(ctx context.Context, kind model.ContentKind, page model.Page) ([]int64, error)
	Delete(ctx context.Context, kind model.ContentKind, id, userID int64) error
	SetCount(ctx context.Context, kind model.ContentKind, id int64, counter model.Counter, value int) error
	// AddToCount applies delta atomically in the store, never going below zero, and returns the new value.
	AddToCount(ctx context.Context, kind model.ContentKind, id int64, counter model.Counter, delta int) (int, error)
}

package content_service

import (
	"context"

	model "community-feed-service/internal/domain/models"
)

type Service interface {
	CreateItem(ctx context.Context, dto *model.CreateContentDTO) (*model.ContentItem, error)
	DeleteItem(ctx context.Context, kind model.ContentKind, userID, id int64) error
	GetItem(ctx context.Context, kind model.ContentKind, id int64) (*model.ContentItem, error)
	Like(ctx context.Context, kind model.ContentKind, userID, itemID int64) (*model.Interaction, error)
	Unlike(ctx context.Context, kind model.ContentKind, userID, itemID int64) (*model.Interaction, error)
	AddComment(ctx context.Context, kind model.ContentKind, userID, itemID int64, text string) (*model.Interaction, error)
	GetComments(ctx context.Context, kind model.ContentKind, itemID int64) ([]*model.Comment, error)
	GetFullItem(ctx context.Context, kind model.ContentKind, itemID int64) (*model.FullItem, error)
	GetAllFullItemsForUser(ctx context.Context, kind model.ContentKind, userID int64) (*model.FullItemBatch, error)
	HydrateItems(ctx context.Context, kind model.ContentKind, ids []int64) *model.FullItemBatch
	GetLikedItems(ctx context.Context, kind model.ContentKind, userID int64) (*model.FullItemBatch, error)
}

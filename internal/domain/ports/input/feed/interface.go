package feed_service

import (
	"context"

	model "community-feed-service/internal/domain/models"
)

type Service interface {
	GetAllFeedItems(ctx context.Context, page model.Page) (*model.Feed, error)
	GetFollowingFeed(ctx context.Context, userID int64) (*model.Feed, error)
	GetUserContent(ctx context.Context, userID int64) (*model.UserContent, error)
}

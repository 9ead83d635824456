package social_service

import (
	"context"

	model "community-feed-service/internal/domain/models"
)

type Service interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, update *model.UpdateProfileDTO) (*model.User, error)
	ViewProfile(ctx context.Context, viewerID, userID int64) (*model.ProfileView, error)

	Follow(ctx context.Context, followerID, followingID int64) error
	Unfollow(ctx context.Context, followerID, followingID int64) error
	ListFollowers(ctx context.Context, userID int64) ([]*model.UserSummary, error)
	ListFollowing(ctx context.Context, userID int64) ([]*model.UserSummary, error)

	SendMessage(ctx context.Context, senderID, recipientID int64, body string) (*model.Message, error)
	ListReceivedMessages(ctx context.Context, recipientID int64) ([]*model.Message, error)
	ListExchange(ctx context.Context, userID, otherUserID int64) (*model.MessageExchange, error)
}

package distance_service

import (
	"context"

	model "community-feed-service/internal/domain/models"
)

type Service interface {
	GetDistanceBetweenUsers(ctx context.Context, userID, otherUserID int64) (*model.Proximity, error)
	GetEventDistance(ctx context.Context, userID, eventID int64) (*model.Proximity, error)
	GetUrgentPostDistance(ctx context.Context, userID, urgentPostID int64) (*model.Proximity, error)
	ValidateAddress(ctx context.Context, address string) error
}

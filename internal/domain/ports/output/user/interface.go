package user_repository

import (
	"context"

	model "community-feed-service/internal/domain/models"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ListSummaries(ctx context.Context, ids []int64) ([]*model.UserSummary, error)
	UpdateProfile(ctx context.Context, id int64, update *model.UpdateProfileDTO) (*model.User, error)
}

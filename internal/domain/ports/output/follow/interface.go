package follow_repository

import "context"

type Repository interface {
	Create(ctx context.Context, followerID, followingID int64) error
	Delete(ctx context.Context, followerID, followingID int64) error
	ListFollowingIDs(ctx context.Context, followerID int64) ([]int64, error)
	ListFollowerIDs(ctx context.Context, followingID int64) ([]int64, error)
}

package memory

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"community-feed-service/internal/domain/custom_errors"
	ports "community-feed-service/internal/domain/ports/output"
)

type FollowRepository struct {
	log   ports.Logger
	store *Store
}

func NewFollowRepository(store *Store, log ports.Logger) *FollowRepository {
	return &FollowRepository{store: store, log: log}
}

func (r *FollowRepository) Create(ctx context.Context, followerID, followingID int64) error {
	r.log.Debug("Creating follow edge (memory impl)", slog.Int64("follower_id", followerID), slog.Int64("following_id", followingID))
	if followerID == followingID {
		return custom_errors.ErrSelfFollow
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := followKey{followerID: followerID, followingID: followingID}
	if _, ok := r.store.follows[key]; ok {
		return custom_errors.ErrAlreadyFollowing
	}
	if _, ok := r.store.users[followerID]; !ok {
		return custom_errors.ErrUserNotFound
	}
	if _, ok := r.store.users[followingID]; !ok {
		return custom_errors.ErrUserNotFound
	}
	r.store.follows[key] = time.Now()
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID int64) error {
	r.log.Debug("Deleting follow edge (memory impl)", slog.Int64("follower_id", followerID), slog.Int64("following_id", followingID))

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := followKey{followerID: followerID, followingID: followingID}
	if _, ok := r.store.follows[key]; !ok {
		return custom_errors.ErrFollowNotFound
	}
	delete(r.store.follows, key)
	return nil
}

func (r *FollowRepository) ListFollowingIDs(ctx context.Context, followerID int64) ([]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := make([]int64, 0)
	for key := range r.store.follows {
		if key.followerID == followerID {
			ids = append(ids, key.followingID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *FollowRepository) ListFollowerIDs(ctx context.Context, followingID int64) ([]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := make([]int64, 0)
	for key := range r.store.follows {
		if key.followingID == followingID {
			ids = append(ids, key.followerID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

package memory

import (
	"context"
	"log/slog"
	"sort"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
)

type UserRepository struct {
	log   ports.Logger
	store *Store
}

func NewUserRepository(store *Store, log ports.Logger) *UserRepository {
	return &UserRepository{store: store, log: log}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		r.log.Debug("User not found by id (memory impl)", slog.Int64("id", id))
		return nil, custom_errors.ErrUserNotFound
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, user := range r.store.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	r.log.Debug("User not found by username (memory impl)", slog.String("username", username))
	return nil, custom_errors.ErrUserNotFound
}

func (r *UserRepository) ListSummaries(ctx context.Context, ids []int64) ([]*model.UserSummary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	summaries := make([]*model.UserSummary, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		user, ok := r.store.users[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		summaries = append(summaries, &model.UserSummary{ID: user.ID, Username: user.Username})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Username != summaries[j].Username {
			return summaries[i].Username < summaries[j].Username
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, update *model.UpdateProfileDTO) (*model.User, error) {
	r.log.Debug("Updating user profile (memory impl)", slog.Int64("id", id))

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, custom_errors.ErrUserNotFound
	}
	if update.Bio != nil {
		user.Bio = update.Bio
	}
	if update.Address != nil {
		user.Address = *update.Address
	}
	if update.ProfilePictureURL != nil {
		user.ProfilePictureURL = update.ProfilePictureURL
	}
	if update.CoverPhotoURL != nil {
		user.CoverPhotoURL = update.CoverPhotoURL
	}
	r.store.users[id] = user
	return &user, nil
}

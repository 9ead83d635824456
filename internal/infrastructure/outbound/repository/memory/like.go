package memory

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
)

type LikeRepository struct {
	log     ports.Logger
	store   *Store
	journal *journal
}

func NewLikeRepository(store *Store, log ports.Logger) *LikeRepository {
	return &LikeRepository{store: store, log: log}
}

func checkLikeable(kind model.ContentKind) error {
	if err := kind.IsValid(); err != nil {
		return err
	}
	if !kind.Likeable() {
		return custom_errors.ErrLikesUnsupported
	}
	return nil
}

func (r *LikeRepository) Insert(ctx context.Context, kind model.ContentKind, userID, itemID int64) error {
	r.log.Debug("Inserting like (memory impl)", slog.String("kind", string(kind)), slog.Int64("user_id", userID), slog.Int64("item_id", itemID))
	if err := checkLikeable(kind); err != nil {
		return err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := likeKey{kind: kind, userID: userID, itemID: itemID}
	if _, ok := s.likes[key]; ok {
		return custom_errors.ErrAlreadyLiked
	}
	if _, ok := s.users[userID]; !ok {
		return custom_errors.ErrUserNotFound
	}
	if _, ok := s.items[kind][itemID]; !ok {
		return custom_errors.ErrContentNotFound
	}

	s.likes[key] = time.Now()
	r.journal.record(func() { delete(s.likes, key) })
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, kind model.ContentKind, userID, itemID int64) (bool, error) {
	r.log.Debug("Deleting like (memory impl)", slog.String("kind", string(kind)), slog.Int64("user_id", userID), slog.Int64("item_id", itemID))
	if err := checkLikeable(kind); err != nil {
		return false, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := likeKey{kind: kind, userID: userID, itemID: itemID}
	at, ok := s.likes[key]
	if !ok {
		return false, nil
	}
	delete(s.likes, key)
	r.journal.record(func() { s.likes[key] = at })
	return true, nil
}

func (r *LikeRepository) CountByItem(ctx context.Context, kind model.ContentKind, itemID int64) (int, error) {
	if err := checkLikeable(kind); err != nil {
		return 0, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for key := range r.store.likes {
		if key.kind == kind && key.itemID == itemID {
			count++
		}
	}
	return count, nil
}

func (r *LikeRepository) ListItemIDsByUser(ctx context.Context, kind model.ContentKind, userID int64) ([]int64, error) {
	if err := checkLikeable(kind); err != nil {
		return nil, err
	}

	type liked struct {
		itemID int64
		at     time.Time
	}

	r.store.mu.RLock()
	likes := make([]liked, 0)
	for key, at := range r.store.likes {
		if key.kind == kind && key.userID == userID {
			likes = append(likes, liked{itemID: key.itemID, at: at})
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(likes, func(i, j int) bool {
		return newerFirst(likes[i].at, likes[j].at, likes[i].itemID, likes[j].itemID)
	})

	ids := make([]int64, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.itemID)
	}
	return ids, nil
}

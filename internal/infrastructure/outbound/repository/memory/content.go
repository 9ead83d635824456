package memory

import (
	"context"
	"log/slog"
	"time"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
)

type ContentRepository struct {
	log     ports.Logger
	store   *Store
	journal *journal
}

func NewContentRepository(store *Store, log ports.Logger) *ContentRepository {
	return &ContentRepository{store: store, log: log}
}

func (r *ContentRepository) Create(ctx context.Context, item *model.ContentItem) (*model.ContentItem, error) {
	r.log.Debug("Creating content item (memory impl)", slog.String("kind", string(item.Kind)), slog.Int64("user_id", item.UserID))
	if err := item.Kind.IsValid(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[item.UserID]; !ok {
		return nil, custom_errors.ErrUserNotFound
	}

	created := model.ContentItem{
		ID:        s.nextItemID[item.Kind],
		Kind:      item.Kind,
		UserID:    item.UserID,
		Body:      item.Body,
		ImageURL:  item.ImageURL,
		CreatedAt: now(),
	}
	if item.Kind.HasLocation() {
		created.Location = item.Location
	}
	s.nextItemID[item.Kind]++
	s.items[item.Kind][created.ID] = created
	r.journal.record(func() { delete(s.items[item.Kind], created.ID) })

	r.log.Debug("Successfully created content item (memory impl)", slog.String("kind", string(item.Kind)), slog.Int64("id", created.ID))
	return &created, nil
}

func (r *ContentRepository) GetByID(ctx context.Context, kind model.ContentKind, id int64) (*model.ContentItem, error) {
	if err := kind.IsValid(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.items[kind][id]
	if !ok {
		r.log.Debug("Content item not found by id (memory impl)", slog.String("kind", string(kind)), slog.Int64("id", id))
		return nil, custom_errors.ErrContentNotFound
	}
	return &item, nil
}

// GetForUpdate needs no row lock: the unit of work already serialises transactions.
func (r *ContentRepository) GetForUpdate(ctx context.Context, kind model.ContentKind, id int64) (*model.ContentItem, error) {
	return r.GetByID(ctx, kind, id)
}

func (r *ContentRepository) ListIDsByUser(ctx context.Context, kind model.ContentKind, userID int64) ([]int64, error) {
	return r.listIDs(kind, func(item model.ContentItem) bool { return item.UserID == userID }, model.Page{})
}

func (r *ContentRepository) ListIDs(ctx context.Context, kind model.ContentKind, page model.Page) ([]int64, error) {
	return r.listIDs(kind, func(model.ContentItem) bool { return true }, page)
}

func (r *ContentRepository) listIDs(kind model.ContentKind, match func(model.ContentItem) bool, page model.Page) ([]int64, error) {
	if err := kind.IsValid(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	items := make([]model.ContentItem, 0, len(r.store.items[kind]))
	for _, item := range r.store.items[kind] {
		if match(item) {
			items = append(items, item)
		}
	}
	r.store.mu.RUnlock()

	sortItemsNewestFirst(items)

	if page.Offset > 0 {
		if page.Offset >= len(items) {
			items = nil
		} else {
			items = items[page.Offset:]
		}
	}
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids, nil
}

func (r *ContentRepository) Delete(ctx context.Context, kind model.ContentKind, id, userID int64) error {
	r.log.Debug("Deleting content item (memory impl)", slog.String("kind", string(kind)), slog.Int64("id", id), slog.Int64("user_id", userID))
	if err := kind.IsValid(); err != nil {
		return err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[kind][id]
	if !ok || item.UserID != userID {
		return custom_errors.ErrContentNotFound
	}
	delete(s.items[kind], id)

	removedComments := make([]model.Comment, 0)
	for commentID, comment := range s.comments {
		if comment.Kind == kind && comment.ItemID == id {
			removedComments = append(removedComments, comment)
			delete(s.comments, commentID)
		}
	}
	removedLikes := make(map[likeKey]time.Time)
	for key, at := range s.likes {
		if key.kind == kind && key.itemID == id {
			removedLikes[key] = at
			delete(s.likes, key)
		}
	}

	r.journal.record(func() {
		s.items[kind][id] = item
		for _, comment := range removedComments {
			s.comments[comment.ID] = comment
		}
		for key, at := range removedLikes {
			s.likes[key] = at
		}
	})
	return nil
}

func (r *ContentRepository) SetCount(ctx context.Context, kind model.ContentKind, id int64, counter model.Counter, value int) error {
	_, err := r.update(kind, id, counter, func(int) int { return value })
	return err
}

func (r *ContentRepository) AddToCount(ctx context.Context, kind model.ContentKind, id int64, counter model.Counter, delta int) (int, error) {
	return r.update(kind, id, counter, func(current int) int { return max(current+delta, 0) })
}

func (r *ContentRepository) update(kind model.ContentKind, id int64, counter model.Counter, next func(int) int) (int, error) {
	if err := kind.IsValid(); err != nil {
		return 0, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[kind][id]
	if !ok {
		return 0, custom_errors.ErrContentNotFound
	}

	previous := item.StoredCount(counter)
	value := next(previous)
	setCount(&item, counter, value)
	s.items[kind][id] = item

	r.journal.record(func() {
		if current, ok := s.items[kind][id]; ok {
			setCount(&current, counter, previous)
			s.items[kind][id] = current
		}
	})

	r.log.Debug("Stored count updated (memory impl)", slog.String("kind", string(kind)), slog.Int64("id", id), slog.String("counter", string(counter)), slog.Int("value", value))
	return value, nil
}

func setCount(item *model.ContentItem, counter model.Counter, value int) {
	if counter == model.CounterLikes {
		item.NumLikes = value
		return
	}
	item.NumComments = value
}

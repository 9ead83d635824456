package memory

import (
	"context"
	"log/slog"
	"sort"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
)

type CommentRepository struct {
	log     ports.Logger
	store   *Store
	journal *journal
}

func NewCommentRepository(store *Store, log ports.Logger) *CommentRepository {
	return &CommentRepository{store: store, log: log}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	r.log.Debug("Creating comment (memory impl)", slog.String("kind", string(comment.Kind)), slog.Int64("item_id", comment.ItemID))
	if err := comment.Kind.IsValid(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[comment.UserID]; !ok {
		return nil, custom_errors.ErrUserNotFound
	}
	if _, ok := s.items[comment.Kind][comment.ItemID]; !ok {
		return nil, custom_errors.ErrContentNotFound
	}

	created := model.Comment{
		ID:        s.nextCommentID,
		Kind:      comment.Kind,
		ItemID:    comment.ItemID,
		UserID:    comment.UserID,
		Text:      comment.Text,
		CreatedAt: now(),
	}
	s.nextCommentID++
	s.comments[created.ID] = created
	r.journal.record(func() { delete(s.comments, created.ID) })

	return &created, nil
}

func (r *CommentRepository) ListByItem(ctx context.Context, kind model.ContentKind, itemID int64) ([]*model.Comment, error) {
	if err := kind.IsValid(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	comments := make([]*model.Comment, 0)
	for _, comment := range r.store.comments {
		if comment.Kind == kind && comment.ItemID == itemID {
			c := comment
			comments = append(comments, &c)
		}
	}

	sort.Slice(comments, func(i, j int) bool {
		return newerFirst(comments[j].CreatedAt.Time, comments[i].CreatedAt.Time, comments[j].ID, comments[i].ID)
	})
	return comments, nil
}

func (r *CommentRepository) CountByItem(ctx context.Context, kind model.ContentKind, itemID int64) (int, error) {
	if err := kind.IsValid(); err != nil {
		return 0, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, comment := range r.store.comments {
		if comment.Kind == kind && comment.ItemID == itemID {
			count++
		}
	}
	return count, nil
}

package content_service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	counter_service "community-feed-service/internal/application/service/counter"
	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
	comment_repository "community-feed-service/internal/domain/ports/output/comment"
	content_repository "community-feed-service/internal/domain/ports/output/content"
	like_repository "community-feed-service/internal/domain/ports/output/like"
	user_repository "community-feed-service/internal/domain/ports/output/user"
)

const defaultFanoutLimit = 16

type ContentService struct {
	contentRepo content_repository.Repository
	commentRepo comment_repository.Repository
	likeRepo    like_repository.Repository
	userRepo    user_repository.Repository
	uow         ports.UnitOfWork
	reconciler  *counter_service.Reconciler
	log         ports.Logger
	metrics     ports.MetricsProvider
	fanoutLimit int
}

func NewContentService(
	contentRepo content_repository.Repository,
	commentRepo comment_repository.Repository,
	likeRepo like_repository.Repository,
	userRepo user_repository.Repository,
	uow ports.UnitOfWork,
	log ports.Logger,
	metrics ports.MetricsProvider,
	fanoutLimit int,
) *ContentService {
	if fanoutLimit <= 0 {
		fanoutLimit = defaultFanoutLimit
	}
	return &ContentService{
		contentRepo: contentRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		userRepo:    userRepo,
		uow:         uow,
		reconciler:  counter_service.NewReconciler(contentRepo, commentRepo, likeRepo, log, metrics),
		log:         log,
		metrics:     metrics,
		fanoutLimit: fanoutLimit,
	}
}

func (s *ContentService) record(kind model.ContentKind, operation string, err error) {
	s.metrics.IncrementContentOperations(string(kind), operation, err == nil)
}

// inTransaction runs fn inside one unit of work and commits when fn succeeds.
func (s *ContentService) inTransaction(ctx context.Context, fn func(tx ports.Transaction) error) error {
	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}

	var txCommitted bool
	defer func() {
		if !txCommitted {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				s.log.Error("Failed to rollback transaction", slog.String("error", rollbackErr.Error()))
			}
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	txCommitted = true
	return nil
}

func (s *ContentService) requireUser(ctx context.Context, userID int64) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("User not found", slog.Int64("user_id", userID))
		}
		return err
	}
	return nil
}

func requireLikeable(kind model.ContentKind) error {
	if err := kind.IsValid(); err != nil {
		return err
	}
	if !kind.Likeable() {
		return custom_errors.ErrLikesUnsupported
	}
	return nil
}

func (s *ContentService) CreateItem(ctx context.Context, dto *model.CreateContentDTO) (result *model.ContentItem, err error) {
	defer func() { s.record(dto.Kind, "create", err) }()

	if err := dto.Kind.IsValid(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(dto.Body) == "" {
		return nil, custom_errors.ErrEmptyBody
	}
	if dto.Kind.HasLocation() && (dto.Location == nil || strings.TrimSpace(*dto.Location) == "") {
		return nil, custom_errors.ErrLocationRequired
	}
	if err := s.requireUser(ctx, dto.UserID); err != nil {
		return nil, err
	}

	item := &model.ContentItem{
		Kind:     dto.Kind,
		UserID:   dto.UserID,
		Body:     dto.Body,
		ImageURL: dto.ImageURL,
	}
	if dto.Kind.HasLocation() {
		item.Location = dto.Location
	}

	created, err := s.contentRepo.Create(ctx, item)
	if err != nil {
		s.log.Error("Failed to create content item", slog.String("kind", string(dto.Kind)), slog.String("error", err.Error()))
		return nil, err
	}

	s.log.Info("Content item created", slog.String("kind", string(created.Kind)), slog.Int64("id", created.ID), slog.Int64("user_id", created.UserID))
	return created, nil
}

func (s *ContentService) DeleteItem(ctx context.Context, kind model.ContentKind, userID, id int64) (err error) {
	defer func() { s.record(kind, "delete", err) }()

	if err := kind.IsValid(); err != nil {
		return err
	}
	if err := s.contentRepo.Delete(ctx, kind, id, userID); err != nil {
		s.log.Debug("Failed to delete content item", slog.String("kind", string(kind)), slog.Int64("id", id), slog.String("error", err.Error()))
		return err
	}

	s.log.Info("Content item deleted", slog.String("kind", string(kind)), slog.Int64("id", id), slog.Int64("user_id", userID))
	return nil
}

func (s *ContentService) GetItem(ctx context.Context, kind model.ContentKind, id int64) (*model.ContentItem, error) {
	if err := kind.IsValid(); err != nil {
		return nil, err
	}
	return s.contentRepo.GetByID(ctx, kind, id)
}

func (s *ContentService) Like(ctx context.Context, kind model.ContentKind, userID, itemID int64) (result *model.Interaction, err error) {
	defer func() { s.record(kind, "like", err) }()

	if err := requireLikeable(kind); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var item *model.ContentItem
	err = s.inTransaction(ctx, func(tx ports.Transaction) error {
		contentRepo := tx.ContentRepository()

		item, err = contentRepo.GetForUpdate(ctx, kind, itemID)
		if err != nil {
			return err
		}
		if _, err := s.reconciler.InTransaction(tx).Reconcile(ctx, kind, itemID, model.CounterLikes); err != nil {
			return err
		}
		if err := tx.LikeRepository().Insert(ctx, kind, userID, itemID); err != nil {
			return err
		}
		item.NumLikes, err = contentRepo.AddToCount(ctx, kind, itemID, model.CounterLikes, 1)
		return err
	})
	if err != nil {
		s.log.Debug("Like failed", slog.String("kind", string(kind)), slog.Int64("item_id", itemID), slog.Int64("user_id", userID), slog.String("error", err.Error()))
		return nil, err
	}

	return &model.Interaction{
		Message: fmt.Sprintf("%s has liked a %s", user.Username, kind.Label()),
		Item:    item,
	}, nil
}

func (s *ContentService) Unlike(ctx context.Context, kind model.ContentKind, userID, itemID int64) (result *model.Interaction, err error) {
	defer func() { s.record(kind, "unlike", err) }()

	if err := requireLikeable(kind); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	var item *model.ContentItem
	err = s.inTransaction(ctx, func(tx ports.Transaction) error {
		contentRepo := tx.ContentRepository()

		item, err = contentRepo.GetForUpdate(ctx, kind, itemID)
		if err != nil {
			return err
		}
		item.NumLikes, err = s.reconciler.InTransaction(tx).Reconcile(ctx, kind, itemID, model.CounterLikes)
		if err != nil {
			return err
		}
		deleted, err := tx.LikeRepository().Delete(ctx, kind, userID, itemID)
		if err != nil || !deleted {
			return err
		}
		item.NumLikes, err = contentRepo.AddToCount(ctx, kind, itemID, model.CounterLikes, -1)
		return err
	})
	if err != nil {
		s.log.Debug("Unlike failed", slog.String("kind", string(kind)), slog.Int64("item_id", itemID), slog.Int64("user_id", userID), slog.String("error", err.Error()))
		return nil, err
	}

	label := kind.Label()
	return &model.Interaction{
		Message: strings.ToUpper(label[:1]) + label[1:] + " unliked",
		Item:    item,
	}, nil
}

func (s *ContentService) AddComment(ctx context.Context, kind model.ContentKind, userID, itemID int64, text string) (result *model.Interaction, err error) {
	defer func() { s.record(kind, "comment", err) }()

	if err := kind.IsValid(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, custom_errors.ErrEmptyComment
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	var (
		item    *model.ContentItem
		comment *model.Comment
	)
	err = s.inTransaction(ctx, func(tx ports.Transaction) error {
		contentRepo := tx.ContentRepository()

		item, err = contentRepo.GetForUpdate(ctx, kind, itemID)
		if err != nil {
			return err
		}
		if _, err := s.reconciler.InTransaction(tx).Reconcile(ctx, kind, itemID, model.CounterComments); err != nil {
			return err
		}
		comment, err = tx.CommentRepository().Create(ctx, &model.Comment{Kind: kind, ItemID: itemID, UserID: userID, Text: text})
		if err != nil {
			return err
		}
		item.NumComments, err = contentRepo.AddToCount(ctx, kind, itemID, model.CounterComments, 1)
		return err
	})
	if err != nil {
		s.log.Debug("Comment failed", slog.String("kind", string(kind)), slog.Int64("item_id", itemID), slog.Int64("user_id", userID), slog.String("error", err.Error()))
		return nil, err
	}

	return &model.Interaction{Message: "Comment added", Item: item, Comment: comment}, nil
}

func (s *ContentService) GetComments(ctx context.Context, kind model.ContentKind, itemID int64) ([]*model.Comment, error) {
	if err := kind.IsValid(); err != nil {
		return nil, err
	}
	if _, err := s.contentRepo.GetByID(ctx, kind, itemID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByItem(ctx, kind, itemID)
}

// GetFullItem returns the item with both counters reconciled and its comments
// attached. The row stays locked while counting and listing, so the counters
// and the comments come from the same state. Any failing step fails the whole call.
func (s *ContentService) GetFullItem(ctx context.Context, kind model.ContentKind, itemID int64) (*model.FullItem, error) {
	if err := kind.IsValid(); err != nil {
		return nil, err
	}

	var full *model.FullItem
	err := s.inTransaction(ctx, func(tx ports.Transaction) error {
		item, err := tx.ContentRepository().GetForUpdate(ctx, kind, itemID)
		if err != nil {
			return err
		}

		reconciler := s.reconciler.InTransaction(tx)
		item.NumComments, err = reconciler.Reconcile(ctx, kind, itemID, model.CounterComments)
		if err != nil {
			return err
		}
		item.NumLikes, err = reconciler.Reconcile(ctx, kind, itemID, model.CounterLikes)
		if err != nil {
			return err
		}

		comments, err := tx.CommentRepository().ListByItem(ctx, kind, itemID)
		if err != nil {
			return err
		}
		full = &model.FullItem{Item: item, Comments: comments}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return full, nil
}

// HydrateItems builds full items for ids concurrently. The result keeps the
// order of ids; items that fail are left out and reported in Failures.
func (s *ContentService) HydrateItems(ctx context.Context, kind model.ContentKind, ids []int64) *model.FullItemBatch {
	items := make([]*model.FullItem, len(ids))
	errs := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(s.fanoutLimit)
	for i, id := range ids {
		g.Go(func() error {
			items[i], errs[i] = s.GetFullItem(ctx, kind, id)
			return nil
		})
	}
	_ = g.Wait()

	batch := &model.FullItemBatch{Items: make([]*model.FullItem, 0, len(ids))}
	for i, id := range ids {
		if errs[i] != nil {
			s.metrics.IncrementHydrationFailures(string(kind))
			s.log.Warn("Failed to hydrate content item",
				slog.String("kind", string(kind)),
				slog.Int64("item_id", id),
				slog.String("error", errs[i].Error()))
			batch.Failures = append(batch.Failures, &model.HydrationFailure{Kind: kind, ItemID: id, Reason: errs[i].Error()})
			continue
		}
		batch.Items = append(batch.Items, items[i])
	}
	return batch
}

func (s *ContentService) GetAllFullItemsForUser(ctx context.Context, kind model.ContentKind, userID int64) (*model.FullItemBatch, error) {
	if err := kind.IsValid(); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	ids, err := s.contentRepo.ListIDsByUser(ctx, kind, userID)
	if err != nil {
		return nil, err
	}

	batch := s.HydrateItems(ctx, kind, ids)
	for _, failure := range batch.Failures {
		failure.OwnerID = userID
	}
	return batch, nil
}

func (s *ContentService) GetLikedItems(ctx context.Context, kind model.ContentKind, userID int64) (*model.FullItemBatch, error) {
	if err := requireLikeable(kind); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	ids, err := s.likeRepo.ListItemIDsByUser(ctx, kind, userID)
	if err != nil {
		return nil, err
	}
	return s.HydrateItems(ctx, kind, ids), nil
}

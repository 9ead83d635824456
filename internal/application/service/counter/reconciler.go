package counter_service

import (
	"context"
	"log/slog"

	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
	comment_repository "community-feed-service/internal/domain/ports/output/comment"
	content_repository "community-feed-service/internal/domain/ports/output/content"
	like_repository "community-feed-service/internal/domain/ports/output/like"
)

// Reconciler brings the denormalised like and comment counters of an item back
// in line with its child rows.
type Reconciler struct {
	contentRepo content_repository.Repository
	commentRepo comment_repository.Repository
	likeRepo    like_repository.Repository
	log         ports.Logger
	metrics     ports.MetricsProvider
}

func NewReconciler(
	contentRepo content_repository.Repository,
	commentRepo comment_repository.Repository,
	likeRepo like_repository.Repository,
	log ports.Logger,
	metrics ports.MetricsProvider,
) *Reconciler {
	return &Reconciler{
		contentRepo: contentRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		log:         log,
		metrics:     metrics,
	}
}

// InTransaction returns a reconciler whose reads and writes go through tx.
func (r *Reconciler) InTransaction(tx ports.Transaction) *Reconciler {
	return NewReconciler(tx.ContentRepository(), tx.CommentRepository(), tx.LikeRepository(), r.log, r.metrics)
}

// Reconcile returns the actual number of child rows for counter and, when the
// stored value differs, overwrites it. The stored value is assigned, never
// incremented, so repeated calls converge. Callers that race with writers must
// use InTransaction after locking the item row.
func (r *Reconciler) Reconcile(ctx context.Context, kind model.ContentKind, itemID int64, counter model.Counter) (int, error) {
	item, err := r.contentRepo.GetByID(ctx, kind, itemID)
	if err != nil {
		return 0, err
	}
	stored := item.StoredCount(counter)

	if counter == model.CounterLikes && !kind.Likeable() {
		return stored, nil
	}

	var actual int
	if counter == model.CounterLikes {
		actual, err = r.likeRepo.CountByItem(ctx, kind, itemID)
	} else {
		actual, err = r.commentRepo.CountByItem(ctx, kind, itemID)
	}
	if err != nil {
		r.log.Error("Failed to count child rows",
			slog.String("kind", string(kind)),
			slog.Int64("item_id", itemID),
			slog.String("counter", string(counter)),
			slog.String("error", err.Error()))
		return 0, err
	}

	drifted := actual != stored
	r.metrics.IncrementCounterReconciliations(string(kind), string(counter), drifted)
	if !drifted {
		return actual, nil
	}

	r.log.Info("Stored counter drifted, correcting",
		slog.String("kind", string(kind)),
		slog.Int64("item_id", itemID),
		slog.String("counter", string(counter)),
		slog.Int("stored", stored),
		slog.Int("actual", actual))

	if err := r.contentRepo.SetCount(ctx, kind, itemID, counter, actual); err != nil {
		r.log.Error("Failed to correct stored counter",
			slog.String("kind", string(kind)),
			slog.Int64("item_id", itemID),
			slog.String("error", err.Error()))
		return 0, err
	}
	return actual, nil
}

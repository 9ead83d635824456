package comment_repository_postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
	"community-feed-service/internal/infrastructure/outbound/repository/postgres/db"
)

type CommentRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewCommentRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *CommentRepository {
	return &CommentRepository{db: db, log: log, metrics: metrics}
}

func (r *CommentRepository) record(queryType string, start time.Time, success bool) {
	r.metrics.IncrementDatabaseQueries(queryType, success)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	start := time.Now()
	r.log.Debug("Creating comment",
		slog.String("kind", string(comment.Kind)),
		slog.Int64("item_id", comment.ItemID),
		slog.Int64("user_id", comment.UserID))

	t, err := db.TablesFor(comment.Kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO comments (user_id, %s, comment)
		VALUES (@user_id, @item_id, @comment)
		RETURNING id, user_id, comment, created_at`, t.CommentColumn)
	args := pgx.NamedArgs{
		"user_id": comment.UserID,
		"item_id": comment.ItemID,
		"comment": comment.Text,
	}

	created := &model.Comment{Kind: comment.Kind, ItemID: comment.ItemID}
	err = r.db.QueryRow(ctx, query, args).Scan(&created.ID, &created.UserID, &created.Text, &created.CreatedAt)
	if err != nil {
		r.record("comment_create", start, false)
		if db.IsForeignKeyViolation(err) {
			r.log.Debug("Comment references missing row",
				slog.String("constraint", db.ConstraintName(err)),
				slog.Int64("item_id", comment.ItemID))
			if db.ConstraintName(err) == "comments_user_id_fkey" {
				return nil, custom_errors.ErrUserNotFound
			}
			return nil, custom_errors.ErrContentNotFound
		}
		r.log.Error("Error creating comment", slog.Int64("item_id", comment.ItemID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.record("comment_create", start, true)
	r.log.Debug("Successfully created comment", slog.Int64("id", created.ID))
	return created, nil
}

func (r *CommentRepository) ListByItem(ctx context.Context, kind model.ContentKind, itemID int64) ([]*model.Comment, error) {
	start := time.Now()
	r.log.Debug("Listing comments by item", slog.String("kind", string(kind)), slog.Int64("item_id", itemID))

	t, err := db.TablesFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, comment, created_at
		FROM comments WHERE %s = @item_id
		ORDER BY created_at ASC, id ASC`, t.CommentColumn)

	rows, err := r.db.Query(ctx, query, pgx.NamedArgs{"item_id": itemID})
	if err != nil {
		r.record("comment_list_by_item", start, false)
		r.log.Error("Error listing comments", slog.Int64("item_id", itemID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	comments := make([]*model.Comment, 0)
	for rows.Next() {
		comment := &model.Comment{Kind: kind, ItemID: itemID}
		if err := rows.Scan(&comment.ID, &comment.UserID, &comment.Text, &comment.CreatedAt); err != nil {
			r.record("comment_list_by_item", start, false)
			r.log.Error("Error scanning comment", slog.Int64("item_id", itemID), slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseQuery
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		r.record("comment_list_by_item", start, false)
		r.log.Error("Error iterating comment rows", slog.Int64("item_id", itemID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.record("comment_list_by_item", start, true)
	return comments, nil
}

func (r *CommentRepository) CountByItem(ctx context.Context, kind model.ContentKind, itemID int64) (int, error) {
	start := time.Now()

	t, err := db.TablesFor(kind)
	if err != nil {
		return 0, err
	}

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM comments WHERE %s = @item_id`, t.CommentColumn)
	if err := r.db.QueryRow(ctx, query, pgx.NamedArgs{"item_id": itemID}).Scan(&count); err != nil {
		r.record("comment_count_by_item", start, false)
		r.log.Error("Error counting comments", slog.Int64("item_id", itemID), slog.String("error", err.Error()))
		return 0, custom_errors.ErrDatabaseQuery
	}

	r.record("comment_count_by_item", start, true)
	return count, nil
}

package like_repository_postgres

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

type LikeRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewLikeRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *LikeRepository {
	return &LikeRepository{db: db, log: log, metrics: metrics}
}

func (r *LikeRepository) record(queryType string, start time.Time, success bool) {
	r.metrics.IncrementDatabaseQueries(queryType, success)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func likeTables(kind model.ContentKind) (db.Tables, error) {
	t, err := db.TablesFor(kind)
	if err != nil {
		return db.Tables{}, err
	}
	if t.Likes == "" {
		return db.Tables{}, custom_errors.ErrLikesUnsupported
	}
	return t, nil
}

func (r *LikeRepository) Insert(ctx context.Context, kind model.ContentKind, userID, itemID int64) error {
	start := time.Now()
	r.log.Debug("Inserting like", slog.String("kind", string(kind)), slog.Int64("user_id", userID), slog.Int64("item_id", itemID))

	t, err := likeTables(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (user_id, %s) VALUES (@user_id, @item_id)`, t.Likes, t.LikeColumn)
	if _, err := r.db.Exec(ctx, query, pgx.NamedArgs{"user_id": userID, "item_id": itemID}); err != nil {
		r.record("like_insert", start, false)
		switch {
		case db.IsUniqueViolation(err):
			r.log.Debug("Duplicate like rejected", slog.Int64("user_id", userID), slog.Int64("item_id", itemID))
			return custom_errors.ErrAlreadyLiked
		case db.IsForeignKeyViolation(err):
			if db.ConstraintName(err) == t.Likes+"_user_id_fkey" {
				return custom_errors.ErrUserNotFound
			}
			return custom_errors.ErrContentNotFound
		}
		r.log.Error("Error inserting like", slog.Int64("item_id", itemID), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}

	r.record("like_insert", start, true)
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, kind model.ContentKind, userID, itemID int64) (bool, error) {
	start := time.Now()
	r.log.Debug("Deleting like", slog.String("kind", string(kind)), slog.Int64("user_id", userID), slog.Int64("item_id", itemID))

	t, err := likeTables(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = @user_id AND %s = @item_id`, t.Likes, t.LikeColumn)
	result, err := r.db.Exec(ctx, query, pgx.NamedArgs{"user_id": userID, "item_id": itemID})
	if err != nil {
		r.record("like_delete", start, false)
		r.log.Error("Error deleting like", slog.Int64("item_id", itemID), slog.String("error", err.Error()))
		return false, custom_errors.ErrDatabaseQuery
	}

	r.record("like_delete", start, true)
	return result.RowsAffected() > 0, nil
}

func (r *LikeRepository) CountByItem(ctx context.Context, kind model.ContentKind, itemID int64) (int, error) {
	start := time.Now()

	t, err := likeTables(kind)
	if err != nil {
		return 0, err
	}

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = @item_id`, t.Likes, t.LikeColumn)
	if err := r.db.QueryRow(ctx, query, pgx.NamedArgs{"item_id": itemID}).Scan(&count); err != nil {
		r.record("like_count_by_item", start, false)
		r.log.Error("Error counting likes", slog.Int64("item_id", itemID), slog.String("error", err.Error()))
		return 0, custom_errors.ErrDatabaseQuery
	}

	r.record("like_count_by_item", start, true)
	return count, nil
}

func (r *LikeRepository) ListItemIDsByUser(ctx context.Context, kind model.ContentKind, userID int64) ([]int64, error) {
	start := time.Now()
	r.log.Debug("Listing liked items", slog.String("kind", string(kind)), slog.Int64("user_id", userID))

	t, err := likeTables(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = @user_id ORDER BY created_at DESC`, t.LikeColumn, t.Likes)
	rows, err := r.db.Query(ctx, query, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		r.record("like_list_by_user", start, false)
		r.log.Error("Error listing liked items", slog.Int64("user_id", userID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		r.record("like_list_by_user", start, false)
		r.log.Error("Error scanning liked items", slog.Int64("user_id", userID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.record("like_list_by_user", start, true)
	return ids, nil
}

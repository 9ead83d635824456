package follow_repository_postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"community-feed-service/internal/domain/custom_errors"
	ports "community-feed-service/internal/domain/ports/output"
	"community-feed-service/internal/infrastructure/outbound/repository/postgres/db"
)

type FollowRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewFollowRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *FollowRepository {
	return &FollowRepository{db: db, log: log, metrics: metrics}
}

func (r *FollowRepository) record(queryType string, start time.Time, success bool) {
	r.metrics.IncrementDatabaseQueries(queryType, success)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func (r *FollowRepository) Create(ctx context.Context, followerID, followingID int64) error {
	start := time.Now()
	r.log.Debug("Creating follow edge", slog.Int64("follower_id", followerID), slog.Int64("following_id", followingID))

	_, err := r.db.Exec(ctx, `
		INSERT INTO followers (follower_id, following_id)
		VALUES (@follower_id, @following_id)`,
		pgx.NamedArgs{"follower_id": followerID, "following_id": followingID})
	if err != nil {
		r.record("follow_create", start, false)
		switch {
		case db.IsUniqueViolation(err):
			return custom_errors.ErrAlreadyFollowing
		case db.IsCheckViolation(err):
			return custom_errors.ErrSelfFollow
		case db.IsForeignKeyViolation(err):
			r.log.Debug("Follow references missing user", slog.String("constraint", db.ConstraintName(err)))
			return custom_errors.ErrUserNotFound
		}
		r.log.Error("Error creating follow edge", slog.Int64("follower_id", followerID), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}

	r.record("follow_create", start, true)
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID int64) error {
	start := time.Now()
	r.log.Debug("Deleting follow edge", slog.Int64("follower_id", followerID), slog.Int64("following_id", followingID))

	result, err := r.db.Exec(ctx, `
		DELETE FROM followers
		WHERE follower_id = @follower_id AND following_id = @following_id`,
		pgx.NamedArgs{"follower_id": followerID, "following_id": followingID})
	if err != nil {
		r.record("follow_delete", start, false)
		r.log.Error("Error deleting follow edge", slog.Int64("follower_id", followerID), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if result.RowsAffected() == 0 {
		r.record("follow_delete", start, false)
		return custom_errors.ErrFollowNotFound
	}

	r.record("follow_delete", start, true)
	return nil
}

func (r *FollowRepository) ListFollowingIDs(ctx context.Context, followerID int64) ([]int64, error) {
	return r.listIDs(ctx, "follow_list_following",
		`SELECT following_id FROM followers WHERE follower_id = @id ORDER BY following_id`, followerID)
}

func (r *FollowRepository) ListFollowerIDs(ctx context.Context, followingID int64) ([]int64, error) {
	return r.listIDs(ctx, "follow_list_followers",
		`SELECT follower_id FROM followers WHERE following_id = @id ORDER BY follower_id`, followingID)
}

func (r *FollowRepository) listIDs(ctx context.Context, queryType, query string, id int64) ([]int64, error) {
	start := time.Now()
	r.log.Debug("Listing follow edges", slog.String("query_type", queryType), slog.Int64("user_id", id))

	rows, err := r.db.Query(ctx, query, pgx.NamedArgs{"id": id})
	if err != nil {
		r.record(queryType, start, false)
		r.log.Error("Error listing follow edges", slog.Int64("user_id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		r.record(queryType, start, false)
		r.log.Error("Error scanning follow edges", slog.Int64("user_id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.record(queryType, start, true)
	return ids, nil
}

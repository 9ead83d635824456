package user_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
	"community-feed-service/internal/infrastructure/outbound/repository/postgres/db"
)

const userColumns = "id, username, COALESCE(address, ''), bio, profile_picture_url, cover_photo_url"

type UserRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewUserRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *UserRepository {
	return &UserRepository{db: db, log: log, metrics: metrics}
}

func (r *UserRepository) record(queryType string, start time.Time, success bool) {
	r.metrics.IncrementDatabaseQueries(queryType, success)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func scanUser(row pgx.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Address,
		&user.Bio,
		&user.ProfilePictureURL,
		&user.CoverPhotoURL,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, "user_get_by_id", `SELECT `+userColumns+` FROM users WHERE id = @id`, pgx.NamedArgs{"id": id})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, "user_get_by_username", `SELECT `+userColumns+` FROM users WHERE username = @username`, pgx.NamedArgs{"username": username})
}

func (r *UserRepository) getOne(ctx context.Context, queryType, query string, args pgx.NamedArgs) (*model.User, error) {
	start := time.Now()
	r.log.Debug("Getting user", slog.String("query_type", queryType), slog.Any("args", args))

	user, err := scanUser(r.db.QueryRow(ctx, query, args))
	if err != nil {
		r.record(queryType, start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Debug("User not found", slog.String("query_type", queryType), slog.Any("args", args))
			return nil, custom_errors.ErrUserNotFound
		}
		r.log.Error("Error getting user", slog.String("query_type", queryType), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.record(queryType, start, true)
	return user, nil
}

func (r *UserRepository) ListSummaries(ctx context.Context, ids []int64) ([]*model.UserSummary, error) {
	start := time.Now()
	r.log.Debug("Listing user summaries", slog.Int("count", len(ids)))

	if len(ids) == 0 {
		return []*model.UserSummary{}, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, username FROM users
		WHERE id = ANY(@ids)
		ORDER BY username ASC, id ASC`, pgx.NamedArgs{"ids": ids})
	if err != nil {
		r.record("user_list_summaries", start, false)
		r.log.Error("Error listing user summaries", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	summaries, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[model.UserSummary])
	if err != nil {
		r.record("user_list_summaries", start, false)
		r.log.Error("Error scanning user summaries", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.record("user_list_summaries", start, true)
	return summaries, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, update *model.UpdateProfileDTO) (*model.User, error) {
	start := time.Now()
	r.log.Debug("Updating user profile", slog.Int64("id", id))

	query := `
		UPDATE users SET
			bio = COALESCE(@bio, bio),
			address = COALESCE(@address, address),
			profile_picture_url = COALESCE(@profile_picture_url, profile_picture_url),
			cover_photo_url = COALESCE(@cover_photo_url, cover_photo_url)
		WHERE id = @id
		RETURNING ` + userColumns
	args := pgx.NamedArgs{
		"id":                  id,
		"bio":                 update.Bio,
		"address":             update.Address,
		"profile_picture_url": update.ProfilePictureURL,
		"cover_photo_url":     update.CoverPhotoURL,
	}

	user, err := scanUser(r.db.QueryRow(ctx, query, args))
	if err != nil {
		r.record("user_update_profile", start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Debug("User not found during profile update", slog.Int64("id", id))
			return nil, custom_errors.ErrUserNotFound
		}
		r.log.Error("Error updating user profile", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.record("user_update_profile", start, true)
	r.log.Debug("Successfully updated user profile", slog.Int64("id", id))
	return user, nil
}

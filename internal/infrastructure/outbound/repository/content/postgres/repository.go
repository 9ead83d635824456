package content_repository_postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
	"community-feed-service/internal/infrastructure/outbound/repository/postgres/db"
)

type ContentRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewContentRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *ContentRepository {
	return &ContentRepository{db: db, log: log, metrics: metrics}
}

func (r *ContentRepository) record(queryType string, start time.Time, success bool) {
	r.metrics.IncrementDatabaseQueries(queryType, success)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func selectColumns(t db.Tables) string {
	return fmt.Sprintf("id, user_id, body, image_url, %s AS location, num_likes, num_comments, created_at", t.Location)
}

func scanItem(row pgx.Row, kind model.ContentKind) (*model.ContentItem, error) {
	item := &model.ContentItem{Kind: kind}
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Body,
		&item.ImageURL,
		&item.Location,
		&item.NumLikes,
		&item.NumComments,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *ContentRepository) Create(ctx context.Context, item *model.ContentItem) (*model.ContentItem, error) {
	start := time.Now()
	queryType := string(item.Kind) + "_create"
	r.log.Debug("Creating content item", slog.String("kind", string(item.Kind)), slog.Int64("user_id", item.UserID))

	t, err := db.TablesFor(item.Kind)
	if err != nil {
		return nil, err
	}

	args := pgx.NamedArgs{
		"user_id":   item.UserID,
		"body":      item.Body,
		"image_url": item.ImageURL,
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, body, image_url)
		VALUES (@user_id, @body, @image_url)
		RETURNING %s`, t.Items, selectColumns(t))
	if item.Kind.HasLocation() {
		args["location"] = item.Location
		query = fmt.Sprintf(`
		INSERT INTO %s (user_id, body, image_url, location)
		VALUES (@user_id, @body, @image_url, @location)
		RETURNING %s`, t.Items, selectColumns(t))
	}

	created, err := scanItem(r.db.QueryRow(ctx, query, args), item.Kind)
	if err != nil {
		r.record(queryType, start, false)
		if db.IsForeignKeyViolation(err) {
			r.log.Debug("Owner not found during create", slog.Int64("user_id", item.UserID))
			return nil, custom_errors.ErrUserNotFound
		}
		r.log.Error("Error creating content item", slog.String("kind", string(item.Kind)), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.record(queryType, start, true)
	r.log.Debug("Successfully created content item", slog.String("kind", string(item.Kind)), slog.Int64("id", created.ID))
	return created, nil
}

func (r *ContentRepository) GetByID(ctx context.Context, kind model.ContentKind, id int64) (*model.ContentItem, error) {
	return r.get(ctx, kind, id, false)
}

func (r *ContentRepository) GetForUpdate(ctx context.Context, kind model.ContentKind, id int64) (*model.ContentItem, error) {
	return r.get(ctx, kind, id, true)
}

func (r *ContentRepository) get(ctx context.Context, kind model.ContentKind, id int64, lock bool) (*model.ContentItem, error) {
	start := time.Now()
	queryType := string(kind) + "_get_by_id"
	r.log.Debug("Getting content item by ID", slog.String("kind", string(kind)), slog.Int64("id", id), slog.Bool("lock", lock))

	t, err := db.TablesFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = @id`, selectColumns(t), t.Items)
	if lock {
		query += " FOR UPDATE"
	}

	item, err := scanItem(r.db.QueryRow(ctx, query, pgx.NamedArgs{"id": id}), kind)
	if err != nil {
		r.record(queryType, start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Debug("Content item not found by id", slog.String("kind", string(kind)), slog.Int64("id", id))
			return nil, custom_errors.ErrContentNotFound
		}
		r.log.Error("Error getting content item by id", slog.String("kind", string(kind)), slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.record(queryType, start, true)
	return item, nil
}

func (r *ContentRepository) ListIDsByUser(ctx context.Context, kind model.ContentKind, userID int64) ([]int64, error) {
	t, err := db.TablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id FROM %s WHERE user_id = @user_id ORDER BY created_at DESC, id DESC`, t.Items)
	return r.listIDs(ctx, string(kind)+"_list_ids_by_user", query, pgx.NamedArgs{"user_id": userID})
}

func (r *ContentRepository) ListIDs(ctx context.Context, kind model.ContentKind, page model.Page) ([]int64, error) {
	t, err := db.TablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id FROM %s ORDER BY created_at DESC, id DESC LIMIT @limit OFFSET @offset`, t.Items)
	return r.listIDs(ctx, string(kind)+"_list_ids", query, pgx.NamedArgs{"limit": page.Limit, "offset": page.Offset})
}

func (r *ContentRepository) listIDs(ctx context.Context, queryType, query string, args pgx.NamedArgs) ([]int64, error) {
	start := time.Now()
	r.log.Debug("Listing content ids", slog.String("query_type", queryType), slog.Any("args", args))

	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		r.record(queryType, start, false)
		r.log.Error("Error listing content ids", slog.String("query_type", queryType), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		r.record(queryType, start, false)
		r.log.Error("Error scanning content ids", slog.String("query_type", queryType), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.record(queryType, start, true)
	r.log.Debug("Listed content ids", slog.String("query_type", queryType), slog.Int("count", len(ids)))
	return ids, nil
}

func (r *ContentRepository) Delete(ctx context.Context, kind model.ContentKind, id, userID int64) error {
	start := time.Now()
	queryType := string(kind) + "_delete"
	r.log.Debug("Deleting content item", slog.String("kind", string(kind)), slog.Int64("id", id), slog.Int64("user_id", userID))

	t, err := db.TablesFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = @id AND user_id = @user_id`, t.Items)
	result, err := r.db.Exec(ctx, query, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		r.record(queryType, start, false)
		r.log.Error("Error deleting content item", slog.Int64("id", id), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if result.RowsAffected() == 0 {
		r.record(queryType, start, false)
		r.log.Debug("Content item not found for owner during deletion", slog.Int64("id", id), slog.Int64("user_id", userID))
		return custom_errors.ErrContentNotFound
	}

	r.record(queryType, start, true)
	r.log.Debug("Successfully deleted content item", slog.String("kind", string(kind)), slog.Int64("id", id))
	return nil
}

func (r *ContentRepository) SetCount(ctx context.Context, kind model.ContentKind, id int64, counter model.Counter, value int) error {
	start := time.Now()
	queryType := string(kind) + "_set_" + string(counter)

	t, err := db.TablesFor(kind)
	if err != nil {
		return err
	}

	column := db.CounterColumn(counter)
	query := fmt.Sprintf(`UPDATE %s SET %s = @value WHERE id = @id`, t.Items, column)
	result, err := r.db.Exec(ctx, query, pgx.NamedArgs{"id": id, "value": value})
	if err != nil {
		r.record(queryType, start, false)
		r.log.Error("Error setting stored count", slog.Int64("id", id), slog.String("counter", string(counter)), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}
	if result.RowsAffected() == 0 {
		r.record(queryType, start, false)
		return custom_errors.ErrContentNotFound
	}

	r.record(queryType, start, true)
	r.log.Debug("Stored count set", slog.String("kind", string(kind)), slog.Int64("id", id), slog.String("counter", string(counter)), slog.Int("value", value))
	return nil
}

func (r *ContentRepository) AddToCount(ctx context.Context, kind model.ContentKind, id int64, counter model.Counter, delta int) (int, error) {
	start := time.Now()
	queryType := string(kind) + "_add_" + string(counter)

	t, err := db.TablesFor(kind)
	if err != nil {
		return 0, err
	}

	column := db.CounterColumn(counter)
	query := fmt.Sprintf(`UPDATE %s SET %s = GREATEST(%s + @delta, 0) WHERE id = @id RETURNING %s`, t.Items, column, column, column)

	var value int
	err = r.db.QueryRow(ctx, query, pgx.NamedArgs{"id": id, "delta": delta}).Scan(&value)
	if err != nil {
		r.record(queryType, start, false)
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, custom_errors.ErrContentNotFound
		}
		r.log.Error("Error adjusting stored count", slog.Int64("id", id), slog.String("counter", string(counter)), slog.String("error", err.Error()))
		return 0, custom_errors.ErrDatabaseQuery
	}

	r.record(queryType, start, true)
	r.log.Debug("Stored count adjusted", slog.String("kind", string(kind)), slog.Int64("id", id), slog.Int("delta", delta), slog.Int("value", value))
	return value, nil
}

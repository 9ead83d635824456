package message_repository_postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
	"community-feed-service/internal/infrastructure/outbound/repository/postgres/db"
)

type MessageRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewMessageRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *MessageRepository {
	return &MessageRepository{db: db, log: log, metrics: metrics}
}

func (r *MessageRepository) record(queryType string, start time.Time, success bool) {
	r.metrics.IncrementDatabaseQueries(queryType, success)
	r.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func (r *MessageRepository) Create(ctx context.Context, message *model.Message) (*model.Message, error) {
	start := time.Now()
	r.log.Debug("Creating message", slog.Int64("sender_id", message.SenderID), slog.Int64("recipient_id", message.RecipientID))

	created := &model.Message{}
	err := r.db.QueryRow(ctx, `
		INSERT INTO messages (sender_id, recipient_id, body)
		VALUES (@sender_id, @recipient_id, @body)
		RETURNING id, sender_id, recipient_id, body, created_at`,
		pgx.NamedArgs{
			"sender_id":    message.SenderID,
			"recipient_id": message.RecipientID,
			"body":         message.Body,
		}).Scan(&created.ID, &created.SenderID, &created.RecipientID, &created.Body, &created.CreatedAt)
	if err != nil {
		r.record("message_create", start, false)
		if db.IsForeignKeyViolation(err) {
			return nil, custom_errors.ErrUserNotFound
		}
		r.log.Error("Error creating message", slog.Int64("sender_id", message.SenderID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.record("message_create", start, true)
	return created, nil
}

func (r *MessageRepository) ListByRecipient(ctx context.Context, recipientID int64) ([]*model.Message, error) {
	return r.list(ctx, "message_list_by_recipient", `
		SELECT id, sender_id, recipient_id, body, created_at FROM messages
		WHERE recipient_id = @recipient_id
		ORDER BY created_at DESC, id DESC`,
		pgx.NamedArgs{"recipient_id": recipientID})
}

func (r *MessageRepository) ListFromTo(ctx context.Context, senderID, recipientID int64) ([]*model.Message, error) {
	return r.list(ctx, "message_list_from_to", `
		SELECT id, sender_id, recipient_id, body, created_at FROM messages
		WHERE sender_id = @sender_id AND recipient_id = @recipient_id
		ORDER BY created_at DESC, id DESC`,
		pgx.NamedArgs{"sender_id": senderID, "recipient_id": recipientID})
}

func (r *MessageRepository) list(ctx context.Context, queryType, query string, args pgx.NamedArgs) ([]*model.Message, error) {
	start := time.Now()
	r.log.Debug("Listing messages", slog.String("query_type", queryType), slog.Any("args", args))

	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		r.record(queryType, start, false)
		r.log.Error("Error listing messages", slog.String("query_type", queryType), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	messages, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[model.Message])
	if err != nil {
		r.record(queryType, start, false)
		r.log.Error("Error scanning messages", slog.String("query_type", queryType), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	r.record(queryType, start, true)
	return messages, nil
}

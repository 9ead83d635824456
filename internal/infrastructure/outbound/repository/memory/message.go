package memory

import (
	"context"
	"log/slog"
	"sort"

	"community-feed-service/internal/domain/custom_errors"
	model "community-feed-service/internal/domain/models"
	ports "community-feed-service/internal/domain/ports/output"
)

type MessageRepository struct {
	log   ports.Logger
	store *Store
}

func NewMessageRepository(store *Store, log ports.Logger) *MessageRepository {
	return &MessageRepository{store: store, log: log}
}

func (r *MessageRepository) Create(ctx context.Context, message *model.Message) (*model.Message, error) {
	r.log.Debug("Creating message (memory impl)", slog.Int64("sender_id", message.SenderID), slog.Int64("recipient_id", message.RecipientID))

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[message.SenderID]; !ok {
		return nil, custom_errors.ErrUserNotFound
	}
	if _, ok := r.store.users[message.RecipientID]; !ok {
		return nil, custom_errors.ErrUserNotFound
	}

	created := model.Message{
		ID:          r.store.nextMessageID,
		SenderID:    message.SenderID,
		RecipientID: message.RecipientID,
		Body:        message.Body,
		CreatedAt:   now(),
	}
	r.store.nextMessageID++
	r.store.messages[created.ID] = created
	return &created, nil
}

func (r *MessageRepository) ListByRecipient(ctx context.Context, recipientID int64) ([]*model.Message, error) {
	return r.list(func(m model.Message) bool { return m.RecipientID == recipientID }), nil
}

func (r *MessageRepository) ListFromTo(ctx context.Context, senderID, recipientID int64) ([]*model.Message, error) {
	return r.list(func(m model.Message) bool {
		return m.SenderID == senderID && m.RecipientID == recipientID
	}), nil
}

func (r *MessageRepository) list(match func(model.Message) bool) []*model.Message {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	messages := make([]*model.Message, 0)
	for _, message := range r.store.messages {
		if match(message) {
			m := message
			messages = append(messages, &m)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return newerFirst(messages[i].CreatedAt.Time, messages[j].CreatedAt.Time, messages[i].ID, messages[j].ID)
	})
	return messages
}

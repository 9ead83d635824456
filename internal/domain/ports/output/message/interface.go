package message_repository

import (
	"context"

	model "community-feed-service/internal/domain/models"
)

type Repository interface {
	Create(ctx context.Context, message *model.Message) (*model.Message, error)
	ListByRecipient(ctx context.Context, recipientID int64) ([]*model.Message, error)
	ListFromTo(ctx context.Context, senderID, recipientID int64) ([]*model.Message, error)
}

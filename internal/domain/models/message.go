package model

import "github.com/jackc/pgx/v5/pgtype"

type Message struct {
	ID          int64              `json:"id"`
	SenderID    int64              `json:"sender_id"`
	RecipientID int64              `json:"recipient_id"`
	Body        string             `json:"body"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

// MessageExchange holds both directions between two users. It is not a thread:
// each side is ordered on its own.
type MessageExchange struct {
	Sent     []*Message `json:"sent"`
	Received []*Message `json:"received"`
}

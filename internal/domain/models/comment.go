package model

import "github.com/jackc/pgx/v5/pgtype"

type Comment struct {
	ID        int64              `json:"id"`
	Kind      ContentKind        `json:"kind"`
	ItemID    int64              `json:"item_id"`
	UserID    int64              `json:"user_id"`
	Text      string             `json:"comment"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

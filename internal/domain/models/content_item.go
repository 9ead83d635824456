package model

import "github.com/jackc/pgx/v5/pgtype"

type ContentItem struct {
	ID          int64              `json:"id"`
	Kind        ContentKind        `json:"kind"`
	UserID      int64              `json:"user_id"`
	Body        string             `json:"body"`
	ImageURL    *string            `json:"image_url,omitempty"`
	Location    *string            `json:"location,omitempty"`
	NumLikes    int                `json:"num_likes"`
	NumComments int                `json:"num_comments"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

// StoredCount returns the denormalized value of the given counter.
func (c *ContentItem) StoredCount(counter Counter) int {
	if counter == CounterLikes {
		return c.NumLikes
	}
	return c.NumComments
}

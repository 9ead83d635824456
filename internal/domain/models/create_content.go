package model

type CreateContentDTO struct {
	Kind     ContentKind `json:"kind"`
	UserID   int64       `json:"user_id"`
	Body     string      `json:"body"`
	ImageURL *string     `json:"image_url,omitempty"`
	Location *string     `json:"location,omitempty"`
}

package db

import (
	model "community-feed-service/internal/domain/models"
)

// Tables names the relations backing one content kind. Values are constants and
// safe to splice into SQL text.
type Tables struct {
	Items         string
	Location      string
	Likes         string
	LikeColumn    string
	CommentColumn string
}

var tables = map[model.ContentKind]Tables{
	model.KindPost: {
		Items:         "posts",
		Location:      "NULL::text",
		Likes:         "posts_liked",
		LikeColumn:    "post_id",
		CommentColumn: "post_id",
	},
	model.KindEvent: {
		Items:         "events",
		Location:      "location",
		Likes:         "events_liked",
		LikeColumn:    "event_id",
		CommentColumn: "event_id",
	},
	model.KindUrgentPost: {
		Items:         "urgent_posts",
		Location:      "location",
		CommentColumn: "urgent_post_id",
	},
}

func TablesFor(kind model.ContentKind) (Tables, error) {
	t, ok := tables[kind]
	if !ok {
		return Tables{}, kind.IsValid()
	}
	return t, nil
}

// CounterColumn maps a counter to its column on the item table.
func CounterColumn(counter model.Counter) string {
	if counter == model.CounterLikes {
		return "num_likes"
	}
	return "num_comments"
}

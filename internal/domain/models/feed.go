package model

type Feed struct {
	Posts       []*FullItem         `json:"posts"`
	Events      []*FullItem         `json:"events"`
	UrgentPosts []*FullItem         `json:"urgent_posts"`
	Failures    []*HydrationFailure `json:"failures,omitempty"`
}

// Items returns the slot of the feed that holds kind.
func (f *Feed) Items(kind ContentKind) *[]*FullItem {
	switch kind {
	case KindEvent:
		return &f.Events
	case KindUrgentPost:
		return &f.UrgentPosts
	default:
		return &f.Posts
	}
}

func NewFeed() *Feed {
	return &Feed{
		Posts:       []*FullItem{},
		Events:      []*FullItem{},
		UrgentPosts: []*FullItem{},
	}
}

type Page struct {
	Limit  int `form:"limit" validate:"omitempty,gt=0,lte=200"`
	Offset int `form:"offset" validate:"omitempty,gte=0"`
}

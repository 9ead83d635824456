package model

import (
	"fmt"

	"community-feed-service/internal/domain/custom_errors"
)

type ContentKind string

const (
	KindPost       ContentKind = "post"
	KindUrgentPost ContentKind = "urgent_post"
	KindEvent      ContentKind = "event"
)

// AllKinds is the fixed ordering used whenever every kind is walked.
var AllKinds = []ContentKind{KindPost, KindEvent, KindUrgentPost}

func (k ContentKind) IsValid() error {
	switch k {
	case KindPost, KindUrgentPost, KindEvent:
		return nil
	}
	return fmt.Errorf("%w: %s", custom_errors.ErrInvalidContentKind, k)
}

// Likeable reports whether the kind has a like table.
func (k ContentKind) Likeable() bool {
	return k == KindPost || k == KindEvent
}

// HasLocation reports whether items of the kind carry a location string.
func (k ContentKind) HasLocation() bool {
	return k == KindUrgentPost || k == KindEvent
}

// Slug is the URL path segment for the kind.
func (k ContentKind) Slug() string {
	switch k {
	case KindUrgentPost:
		return "urgent-posts"
	case KindEvent:
		return "events"
	default:
		return "posts"
	}
}

// Label is the human readable name used in confirmation messages.
func (k ContentKind) Label() string {
	switch k {
	case KindUrgentPost:
		return "urgent post"
	case KindEvent:
		return "event"
	default:
		return "post"
	}
}

func (k *ContentKind) UnmarshalText(text []byte) error {
	kind := ContentKind(text)
	if err := kind.IsValid(); err != nil {
		return err
	}
	*k = kind
	return nil
}

type Counter string

const (
	CounterComments Counter = "comments"
	CounterLikes    Counter = "likes"
)

package model

// FullItem is an item hydrated with its comments and reconciled counters.
type FullItem struct {
	Item     *ContentItem `json:"item"`
	Comments []*Comment   `json:"comments"`
}

// HydrationFailure marks a sub-fetch that failed while building a batch or feed.
type HydrationFailure struct {
	Kind    ContentKind `json:"kind"`
	OwnerID int64       `json:"owner_id,omitempty"`
	ItemID  int64       `json:"item_id,omitempty"`
	Reason  string      `json:"reason"`
}

type FullItemBatch struct {
	Items    []*FullItem         `json:"items"`
	Failures []*HydrationFailure `json:"failures,omitempty"`
}

// Interaction is the confirmation payload of like, unlike and comment operations.
type Interaction struct {
	Message string       `json:"message"`
	Item    *ContentItem `json:"item,omitempty"`
	Comment *Comment     `json:"comment,omitempty"`
}

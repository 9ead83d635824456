package model

type User struct {
	ID                int64   `json:"id"`
	Username          string  `json:"username"`
	Address           string  `json:"address,omitempty"`
	Bio               *string `json:"bio,omitempty"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
	CoverPhotoURL     *string `json:"cover_photo_url,omitempty"`
}

type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type UpdateProfileDTO struct {
	Bio               *string `json:"bio,omitempty"`
	Address           *string `json:"address,omitempty"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
	CoverPhotoURL     *string `json:"cover_photo_url,omitempty"`
}

// Principal is the identity carried by a verified credential.
type Principal struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// UserContent is everything a single user has authored.
type UserContent struct {
	Posts       *FullItemBatch `json:"posts"`
	UrgentPosts *FullItemBatch `json:"urgent_posts"`
	Events      *FullItemBatch `json:"events"`
}

type ProfileView struct {
	User           *User        `json:"user"`
	Content        *UserContent `json:"content"`
	Proximity      *Proximity   `json:"proximity,omitempty"`
	ProximityError string       `json:"proximity_error,omitempty"`
}

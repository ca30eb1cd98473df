package domain

import (
	"context"
	"time"
)

// Video represents a media item uploaded by a user. The file and thumbnail
// fields are opaque object-store references consumed verbatim from the asset
// service. The owner reference is immutable after creation.
type Video struct {
	ID          int    `json:"id"`
	UserID      int    `json:"user_id" gorm:"notNull;index"`
	User        *User  `json:"owner,omitempty"`
	Title       string `json:"title" gorm:"notNull"`
	Description string `json:"description"`

	VideoFileID  string  `json:"-"`
	VideoFile    string  `json:"video_file"`
	ThumbnailID  string  `json:"-"`
	Thumbnail    string  `json:"thumbnail"`
	Duration     float64 `json:"duration"`
	Views        int     `json:"views"`
	// IsPublished must round-trip the zero value, so the published-by-default
	// policy lives in the http layer, not in a column default.
	IsPublished bool `json:"is_published"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VideoUpdate holds the video fields an owner may change after publishing.
// A nil Thumbnail leaves the current thumbnail in place.
type VideoUpdate struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Thumbnail   *AssetRef `json:"-"`
}

// VideoService is a set of methods to manipulate and work with the Video model.
// Delete cascades to the video's comments, likes and playlist memberships in
// separate best-effort steps, so readers must tolerate dangling references.
type VideoService interface {
	ByID(ctx context.Context, id int) (*Video, error)
	ByUserID(ctx context.Context, userID int, page PageRequest) (*Page[Video], error)
	Search(ctx context.Context, query string, page PageRequest) (*Page[Video], error)
	Create(ctx context.Context, video *Video) error
	Update(ctx context.Context, id int, upd *VideoUpdate) (*Video, error)
	Delete(ctx context.Context, id int) error
	TogglePublish(ctx context.Context, id int) (*Video, error)
	IncrementViews(ctx context.Context, id int) error
}

package domain

import (
	"context"
	"time"
)

// Playlist represents a named, ordered collection of videos owned by a user.
// The video sequence is caller-controlled and may contain the same video
// more than once, so membership lives in explicit PlaylistVideo rows rather
// than a plain many-to-many join.
type Playlist struct {
	ID          int    `json:"id"`
	Name        string `json:"name" gorm:"notNull"`
	Description string `json:"description"`
	UserID      int    `json:"user_id" gorm:"notNull;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlaylistVideo is a single ordered membership row. Position is the sort key
// within the playlist; new entries are appended after the current maximum.
type PlaylistVideo struct {
	ID         int `json:"id"`
	PlaylistID int `json:"playlist_id" gorm:"notNull;index"`
	VideoID    int `json:"video_id" gorm:"notNull;index"`
	Position   int `json:"position" gorm:"notNull"`

	CreatedAt time.Time `json:"created_at"`
}

// PlaylistUpdate holds the playlist fields an owner may change.
type PlaylistUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// PlaylistService is a set of methods to manipulate and work with the
// Playlist model and its membership rows.
type PlaylistService interface {
	ByID(ctx context.Context, id int) (*Playlist, error)
	ByUserID(ctx context.Context, userID int) ([]Playlist, error)
	Create(ctx context.Context, playlist *Playlist) error
	Update(ctx context.Context, id int, upd *PlaylistUpdate) (*Playlist, error)
	Delete(ctx context.Context, id int) error
	AddVideo(ctx context.Context, playlistID, videoID int) error
	RemoveVideo(ctx context.Context, playlistID, videoID int) error
}

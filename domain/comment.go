package domain

import (
	"context"
	"time"
)

// Comment represents a user's comment on a video. A comment must reference an
// existing video at creation time; once the video is deleted the comment is
// removed by the video's cascade, eventually.
type Comment struct {
	ID      int    `json:"id"`
	Content string `json:"content" gorm:"notNull"`
	VideoID int    `json:"video_id" gorm:"notNull;index"`
	UserID  int    `json:"user_id" gorm:"notNull;index"`
	User    *User  `json:"owner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentService is a set of methods to manipulate and work with the Comment model.
type CommentService interface {
	ByID(ctx context.Context, id int) (*Comment, error)
	Create(ctx context.Context, comment *Comment) error
	Update(ctx context.Context, id int, content string) (*Comment, error)
	Delete(ctx context.Context, id int) error
}

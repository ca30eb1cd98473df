package domain

import (
	"context"
	"time"
)

// Tweet represents a short text post by a user, independent of any video.
type Tweet struct {
	ID      int    `json:"id"`
	Content string `json:"content" gorm:"notNull"`
	UserID  int    `json:"user_id" gorm:"notNull;index"`
	User    *User  `json:"owner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TweetService is a set of methods to manipulate and work with the Tweet model.
type TweetService interface {
	ByID(ctx context.Context, id int) (*Tweet, error)
	ByUserID(ctx context.Context, userID int) ([]Tweet, error)
	Create(ctx context.Context, tweet *Tweet) error
	Update(ctx context.Context, id int, content string) (*Tweet, error)
	Delete(ctx context.Context, id int) error
}

package domain

import (
	"context"
	"time"
)

// Target kinds a like can point at.
const (
	TargetVideo   = "video"
	TargetComment = "comment"
	TargetTweet   = "tweet"
)

// Toggle outcomes. A toggle either creates the relation or removes it;
// there is no third state.
const (
	ToggleCreated = "created"
	ToggleRemoved = "removed"
)

// Like represents a toggle relation between a user and exactly one of a
// video, a comment or a tweet. The two unused target columns stay NULL.
// The composite unique indexes are the authoritative guarantee that a
// (user, target) pair holds at most one row, even under concurrent toggles.
type Like struct {
	ID     int `json:"id"`
	UserID int `json:"user_id" gorm:"notNull;uniqueIndex:idx_like_user_video;uniqueIndex:idx_like_user_comment;uniqueIndex:idx_like_user_tweet"`

	VideoID   *int     `json:"video_id,omitempty" gorm:"uniqueIndex:idx_like_user_video"`
	Video     *Video   `json:"video,omitempty"`
	CommentID *int     `json:"comment_id,omitempty" gorm:"uniqueIndex:idx_like_user_comment"`
	Comment   *Comment `json:"comment,omitempty"`
	TweetID   *int     `json:"tweet_id,omitempty" gorm:"uniqueIndex:idx_like_user_tweet"`
	Tweet     *Tweet   `json:"tweet,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// LikeTarget identifies the entity a like toggle points at.
type LikeTarget struct {
	Kind string `json:"kind"`
	ID   int    `json:"id"`
}

// LikeToggle reports the outcome of a like toggle. The Like is only set when
// the toggle created the relation.
type LikeToggle struct {
	State string `json:"state"`
	Like  *Like  `json:"like,omitempty"`
}

// LikeService manages like toggle relations.
type LikeService interface {
	Toggle(ctx context.Context, userID int, target LikeTarget) (*LikeToggle, error)
	Exists(ctx context.Context, userID int, target LikeTarget) (bool, error)
}

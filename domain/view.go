package domain

import (
	"context"
	"time"
)

// PublicUser is the credential-free projection of a user embedded in views.
type PublicUser struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"full_name,omitempty"`
	Avatar     string `json:"avatar"`
	CoverImage string `json:"cover_image,omitempty"`
}

// ChannelProfile is the joined channel view: the account's public fields plus
// subscription counts and, when a viewer is known, whether they subscribe.
type ChannelProfile struct {
	PublicUser
	Email             string `json:"email"`
	SubscriberCount   int64  `json:"subscriber_count"`
	SubscribedToCount int64  `json:"subscribed_to_count"`
	IsSubscribed      bool   `json:"is_subscribed"`
}

// CommentView is a comment joined to its owner's public projection.
type CommentView struct {
	ID        int        `json:"id"`
	Content   string     `json:"content"`
	VideoID   int        `json:"video_id"`
	Owner     PublicUser `json:"owner"`
	CreatedAt time.Time  `json:"created_at"`
}

// VideoView is a video joined to its owner's public projection.
type VideoView struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	VideoFile   string     `json:"video_file"`
	Thumbnail   string     `json:"thumbnail"`
	Duration    float64    `json:"duration"`
	Views       int        `json:"views"`
	IsPublished bool       `json:"is_published"`
	Owner       PublicUser `json:"owner"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LikedVideo pairs a like with its resolved video. Likes whose video no
// longer exists are dropped before this view is built.
type LikedVideo struct {
	LikeID  int       `json:"like_id"`
	LikedAt time.Time `json:"liked_at"`
	Video   VideoView `json:"video"`
}

// PlaylistView is a playlist with its video references resolved in order.
type PlaylistView struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	UserID      int         `json:"user_id"`
	Videos      []VideoView `json:"videos"`
}

// ChannelStats is the dashboard aggregate over everything a channel owns.
// All counts are computed fresh on each call.
type ChannelStats struct {
	TotalVideos   int64 `json:"total_videos"`
	TotalViews    int64 `json:"total_views"`
	TotalLikes    int64 `json:"total_likes"`
	TotalComments int64 `json:"total_comments"`
	TotalTweets   int64 `json:"total_tweets"`
}

// SubscriptionView is a subscription joined to the account on the other side
// of the relation.
type SubscriptionView struct {
	ID           int        `json:"id"`
	User         PublicUser `json:"user"`
	SubscribedAt time.Time  `json:"subscribed_at"`
}

// TweetView is a tweet joined to its owner's public projection.
type TweetView struct {
	ID        int        `json:"id"`
	Content   string     `json:"content"`
	Owner     PublicUser `json:"owner"`
	CreatedAt time.Time  `json:"created_at"`
}

// ViewService computes derived, joined views across the entity and relation
// stores. All methods are read-only and every view is assembled per call,
// never cached.
type ViewService interface {
	ChannelProfile(ctx context.Context, username string, viewerID int) (*ChannelProfile, error)
	VideoComments(ctx context.Context, videoID int, page PageRequest) (*Page[CommentView], error)
	LikedVideos(ctx context.Context, userID int) ([]LikedVideo, error)
	Playlist(ctx context.Context, playlistID, viewerID int) (*PlaylistView, error)
	UserPlaylists(ctx context.Context, ownerID int) ([]PlaylistView, error)
	ChannelStats(ctx context.Context, ownerID int) (*ChannelStats, error)
	ChannelVideos(ctx context.Context, ownerID int, page PageRequest) (*Page[Video], error)
	Subscribers(ctx context.Context, channelID int) ([]SubscriptionView, error)
	SubscribedChannels(ctx context.Context, subscriberID int) ([]SubscriptionView, error)
	UserTweets(ctx context.Context, userID int) ([]TweetView, error)
}

package crud

import (
	"gorm.io/gorm"

	"vidtube/errs"
)

// A ServicesConfig is any function that takes in a pointer to a Services
// object and returns an error. It's basically just wrapping the constructor
// method of any given crud service. It exists to be able to easily create
// the crud services using functional options in main.go.
type ServicesConfig func(*Services) error

// Services is a container object holding pointers to all the crud services.
// The crud services all share the database connection provided by Services.
type Services struct {
	db           *gorm.DB
	User         *UserService
	Video        *VideoService
	Comment      *CommentService
	Tweet        *TweetService
	Playlist     *PlaylistService
	Like         *LikeService
	Subscription *SubscriptionService
	View         *ViewService
}

// NewServices returns a new Services object, containing any crud services
// it's told to create by one of the passed in ServicesConfig functions.
// It shares the passed in database connection with any crud service it creates.
func NewServices(db *gorm.DB, cfgs ...ServicesConfig) (*Services, error) {
	s := Services{
		db: db,
	}
	for _, cfg := range cfgs {
		if err := cfg(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// WithUser wraps the constructor of UserService, NewUserService.
func WithUser(pepper string) ServicesConfig {
	return func(s *Services) error {
		s.User = NewUserService(s.db, pepper)
		return nil
	}
}

// WithVideo wraps the constructor of VideoService, NewVideoService.
func WithVideo() ServicesConfig {
	return func(s *Services) error {
		s.Video = NewVideoService(s.db)
		return nil
	}
}

// WithComment wraps the constructor of CommentService, NewCommentService.
func WithComment() ServicesConfig {
	return func(s *Services) error {
		s.Comment = NewCommentService(s.db)
		return nil
	}
}

// WithTweet wraps the constructor of TweetService, NewTweetService.
func WithTweet() ServicesConfig {
	return func(s *Services) error {
		s.Tweet = NewTweetService(s.db)
		return nil
	}
}

// WithPlaylist wraps the constructor of PlaylistService, NewPlaylistService.
func WithPlaylist() ServicesConfig {
	return func(s *Services) error {
		s.Playlist = NewPlaylistService(s.db)
		return nil
	}
}

// WithLike wraps the constructor of LikeService, NewLikeService.
func WithLike() ServicesConfig {
	return func(s *Services) error {
		s.Like = NewLikeService(s.db)
		return nil
	}
}

// WithSubscription wraps the constructor of SubscriptionService, NewSubscriptionService.
func WithSubscription() ServicesConfig {
	return func(s *Services) error {
		s.Subscription = NewSubscriptionService(s.db)
		return nil
	}
}

// WithView wraps the constructor of ViewService, NewViewService.
func WithView() ServicesConfig {
	return func(s *Services) error {
		s.View = NewViewService(s.db)
		return nil
	}
}

// dbError wraps a failed store call into an EUNAVAILABLE error carrying the
// operation name, so the caller can decide whether to retry. Record-not-found
// is not a store failure and must be handled before calling this.
func dbError(op string, err error) error {
	return errs.Errorf(errs.EUNAVAILABLE, "Store operation %s failed: %v", op, err)
}

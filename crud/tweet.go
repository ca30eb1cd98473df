package crud

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"vidtube/domain"
	"vidtube/errs"
)

// TweetService manages Tweets.
// It implements the domain.TweetService interface.
type TweetService struct {
	tweetValidator
}

// tweetValidator runs validations on incoming Tweet data.
// On success, it passes the data on to tweetGorm.
// Otherwise, it returns the error of the validation that has failed.
type tweetValidator struct {
	tweetGorm
}

// tweetGorm runs CRUD operations on the database using incoming Tweet data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type tweetGorm struct {
	db *gorm.DB
}

// NewTweetService returns an instance of TweetService.
func NewTweetService(db *gorm.DB) *TweetService {
	return &TweetService{
		tweetValidator{
			tweetGorm{
				db: db,
			},
		},
	}
}

// Ensure the TweetService struct properly implements the domain.TweetService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.TweetService = &TweetService{}

// Create runs validations needed for creating new Tweet database records.
func (tv *tweetValidator) Create(ctx context.Context, tweet *domain.Tweet) error {
	err := runTweetValFns(tweet,
		tv.ownerIdValid,
		tv.contentMinLength,
		tv.contentMaxLength)
	if err != nil {
		return err
	}
	return tv.tweetGorm.Create(ctx, tweet)
}

// Update runs validations needed for changing a Tweet's content.
func (tv *tweetValidator) Update(ctx context.Context, id int, content string) (*domain.Tweet, error) {
	tweet, err := tv.tweetGorm.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tweet.Content = content
	err = runTweetValFns(tweet,
		tv.contentMinLength,
		tv.contentMaxLength)
	if err != nil {
		return nil, err
	}
	if err := tv.tweetGorm.Update(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

// runTweetValFns runs any number of functions of type tweetValFn on the
// passed in Tweet object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runTweetValFns(tweet *domain.Tweet, fns ...tweetValFn) error {
	for _, fn := range fns {
		if err := fn(tweet); err != nil {
			return err
		}
	}
	return nil
}

// A tweetValFn is any function that takes in a pointer to a domain.Tweet
// object and returns an error.
type tweetValFn func(tweet *domain.Tweet) error

func (tv *tweetValidator) ownerIdValid(tweet *domain.Tweet) error {
	if tweet.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "Tweet owner is required.")
	}
	return nil
}

func (tv *tweetValidator) contentMinLength(tweet *domain.Tweet) error {
	if strings.TrimSpace(tweet.Content) == "" {
		return errs.Errorf(errs.EINVALID, "Tweet content must not be empty.")
	}
	return nil
}

func (tv *tweetValidator) contentMaxLength(tweet *domain.Tweet) error {
	if utf8.RuneCountInString(tweet.Content) > 280 {
		return errs.Errorf(errs.EINVALID, "Tweet content max length is 280 characters.")
	}
	return nil
}

// ByID retrieves a tweet by its ID.
func (tg *tweetGorm) ByID(ctx context.Context, id int) (*domain.Tweet, error) {
	var tweet domain.Tweet
	err := tg.db.WithContext(ctx).First(&tweet, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Tweet does not exist.")
		}
		return nil, dbError("tweet.by_id", err)
	}
	return &tweet, nil
}

// ByUserID retrieves all tweets of a user in posting order.
func (tg *tweetGorm) ByUserID(ctx context.Context, userID int) ([]domain.Tweet, error) {
	var tweets []domain.Tweet
	err := tg.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&tweets).Error
	if err != nil {
		return nil, dbError("tweet.by_user_id", err)
	}
	return tweets, nil
}

// Create stores the data from the Tweet object in a new database record.
func (tg *tweetGorm) Create(ctx context.Context, tweet *domain.Tweet) error {
	if err := tg.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return dbError("tweet.create", err)
	}
	return nil
}

// Update saves the full tweet record.
func (tg *tweetGorm) Update(ctx context.Context, tweet *domain.Tweet) error {
	if err := tg.db.WithContext(ctx).Save(tweet).Error; err != nil {
		return dbError("tweet.update", err)
	}
	return nil
}

// Delete permanently removes a tweet, then its likes best-effort.
func (tg *tweetGorm) Delete(ctx context.Context, id int) error {
	res := tg.db.WithContext(ctx).Delete(&domain.Tweet{}, "id = ?", id)
	if res.Error != nil {
		return dbError("tweet.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.Errorf(errs.ENOTFOUND, "Tweet does not exist.")
	}
	if err := tg.db.WithContext(ctx).Delete(&domain.Like{}, "tweet_id = ?", id).Error; err != nil {
		slog.Warn("tweet cascade delete failed", "tweet_id", id, "dependents", "likes", "err", err)
	}
	return nil
}

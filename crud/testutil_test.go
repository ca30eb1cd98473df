package crud

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vidtube/domain"
)

// openTestDB opens a throwaway sqlite database in a temp dir and migrates the
// full schema. TranslateError is on so unique violations surface as
// gorm.ErrDuplicatedKey, same as in production.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		domain.User{},
		domain.Video{},
		domain.Comment{},
		domain.Tweet{},
		domain.Playlist{},
		domain.PlaylistVideo{},
		domain.Like{},
		domain.Subscription{},
	))
	return db
}

// seedUser inserts a user record directly, bypassing the validator chain.
func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	user := domain.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// seedVideo inserts a video record directly, bypassing the validator chain.
func seedVideo(t *testing.T, db *gorm.DB, userID int, title string, published bool) *domain.Video {
	t.Helper()
	video := domain.Video{
		UserID:      userID,
		Title:       title,
		VideoFile:   "http://store/videos/" + title + ".mp4",
		Thumbnail:   "http://store/thumbs/" + title + ".png",
		IsPublished: published,
	}
	require.NoError(t, db.Create(&video).Error)
	return &video
}

// seedComment inserts a comment record directly.
func seedComment(t *testing.T, db *gorm.DB, userID, videoID int, content string) *domain.Comment {
	t.Helper()
	comment := domain.Comment{
		Content: content,
		VideoID: videoID,
		UserID:  userID,
	}
	require.NoError(t, db.Create(&comment).Error)
	return &comment
}

// seedTweet inserts a tweet record directly.
func seedTweet(t *testing.T, db *gorm.DB, userID int, content string) *domain.Tweet {
	t.Helper()
	tweet := domain.Tweet{
		Content: content,
		UserID:  userID,
	}
	require.NoError(t, db.Create(&tweet).Error)
	return &tweet
}

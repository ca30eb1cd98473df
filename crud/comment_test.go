package crud

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/domain"
	"vidtube/errs"
)

func TestCommentCreateRequiresExistingVideo(t *testing.T) {
	db := openTestDB(t)
	cs := NewCommentService(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")

	comment := domain.Comment{Content: "hello", VideoID: 9999, UserID: user.ID}
	err := cs.Create(ctx, &comment)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestCommentLifecycle(t *testing.T) {
	db := openTestDB(t)
	cs := NewCommentService(db)
	ls := NewLikeService(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	video := seedVideo(t, db, user.ID, "first", true)

	comment := domain.Comment{Content: "first!", VideoID: video.ID, UserID: user.ID}
	require.NoError(t, cs.Create(ctx, &comment))
	require.NotZero(t, comment.ID)

	updated, err := cs.Update(ctx, comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = cs.Update(ctx, comment.ID, "   ")
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	// A like on the comment goes away with it.
	_, err = ls.Toggle(ctx, user.ID, domain.LikeTarget{Kind: domain.TargetComment, ID: comment.ID})
	require.NoError(t, err)

	require.NoError(t, cs.Delete(ctx, comment.ID))
	_, err = cs.ByID(ctx, comment.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	var likes int64
	require.NoError(t, db.Model(&domain.Like{}).Where("comment_id = ?", comment.ID).Count(&likes).Error)
	assert.Zero(t, likes)

	err = cs.Delete(ctx, comment.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

// A failing like cascade is logged as a warning but never surfaced; the
// comment delete itself still succeeds.
func TestCommentDeleteCascadeFailureNonFatal(t *testing.T) {
	db := openTestDB(t)
	cs := NewCommentService(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	video := seedVideo(t, db, user.ID, "first", true)
	comment := seedComment(t, db, user.ID, video.ID, "doomed")

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	defer slog.SetDefault(prev)

	require.NoError(t, db.Migrator().DropTable(&domain.Like{}))

	require.NoError(t, cs.Delete(ctx, comment.ID))
	_, err := cs.ByID(ctx, comment.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	assert.Contains(t, logs.String(), "comment cascade delete failed")
}

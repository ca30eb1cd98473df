package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/domain"
	"vidtube/errs"
)

func TestPlaylistCreateValidation(t *testing.T) {
	db := openTestDB(t)
	ps := NewPlaylistService(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")

	err := ps.Create(ctx, &domain.Playlist{Name: "   ", UserID: user.ID})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	err = ps.Create(ctx, &domain.Playlist{Name: "mix"})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

func TestPlaylistOrderedMembership(t *testing.T) {
	db := openTestDB(t)
	ps := NewPlaylistService(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	v1 := seedVideo(t, db, user.ID, "one", true)
	v2 := seedVideo(t, db, user.ID, "two", true)

	playlist := domain.Playlist{Name: "mix", UserID: user.ID}
	require.NoError(t, ps.Create(ctx, &playlist))

	// The same video may appear more than once; appends keep arrival order.
	require.NoError(t, ps.AddVideo(ctx, playlist.ID, v1.ID))
	require.NoError(t, ps.AddVideo(ctx, playlist.ID, v2.ID))
	require.NoError(t, ps.AddVideo(ctx, playlist.ID, v1.ID))

	var members []domain.PlaylistVideo
	require.NoError(t, db.Where("playlist_id = ?", playlist.ID).Order("position asc").Find(&members).Error)
	require.Len(t, members, 3)
	assert.Equal(t, []int{v1.ID, v2.ID, v1.ID}, []int{members[0].VideoID, members[1].VideoID, members[2].VideoID})
	assert.Equal(t, []int{1, 2, 3}, []int{members[0].Position, members[1].Position, members[2].Position})

	// One remove drops one occurrence, the earliest one.
	require.NoError(t, ps.RemoveVideo(ctx, playlist.ID, v1.ID))
	require.NoError(t, db.Where("playlist_id = ?", playlist.ID).Order("position asc").Find(&members).Error)
	require.Len(t, members, 2)
	assert.Equal(t, v2.ID, members[0].VideoID)
	assert.Equal(t, v1.ID, members[1].VideoID)

	require.NoError(t, ps.RemoveVideo(ctx, playlist.ID, v1.ID))
	err := ps.RemoveVideo(ctx, playlist.ID, v1.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestPlaylistAddVideoValidation(t *testing.T) {
	db := openTestDB(t)
	ps := NewPlaylistService(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	video := seedVideo(t, db, user.ID, "one", true)

	playlist := domain.Playlist{Name: "mix", UserID: user.ID}
	require.NoError(t, ps.Create(ctx, &playlist))

	err := ps.AddVideo(ctx, playlist.ID, 9999)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	err = ps.AddVideo(ctx, 9999, video.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestPlaylistDeleteRemovesMembers(t *testing.T) {
	db := openTestDB(t)
	ps := NewPlaylistService(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	video := seedVideo(t, db, user.ID, "one", true)

	playlist := domain.Playlist{Name: "mix", UserID: user.ID}
	require.NoError(t, ps.Create(ctx, &playlist))
	require.NoError(t, ps.AddVideo(ctx, playlist.ID, video.ID))

	require.NoError(t, ps.Delete(ctx, playlist.ID))

	_, err := ps.ByID(ctx, playlist.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	var members int64
	require.NoError(t, db.Model(&domain.PlaylistVideo{}).Where("playlist_id = ?", playlist.ID).Count(&members).Error)
	assert.Zero(t, members)

	// The video itself is untouched.
	var found domain.Video
	require.NoError(t, db.First(&found, "id = ?", video.ID).Error)
}

func TestPlaylistUpdate(t *testing.T) {
	db := openTestDB(t)
	ps := NewPlaylistService(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	playlist := domain.Playlist{Name: "mix", Description: "old", UserID: user.ID}
	require.NoError(t, ps.Create(ctx, &playlist))

	name := "favorites"
	updated, err := ps.Update(ctx, playlist.ID, &domain.PlaylistUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "favorites", updated.Name)
	assert.Equal(t, "old", updated.Description)

	empty := " "
	_, err = ps.Update(ctx, playlist.ID, &domain.PlaylistUpdate{Name: &empty})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/domain"
	"vidtube/errs"
)

func TestChannelProfile(t *testing.T) {
	db := openTestDB(t)
	vs := NewViewService(db)
	ss := NewSubscriptionService(db)
	ctx := context.Background()

	channel := seedUser(t, db, "channel")
	fan1 := seedUser(t, db, "fan1")
	fan2 := seedUser(t, db, "fan2")
	other := seedUser(t, db, "other")

	// channel has two subscribers and subscribes to one account itself.
	_, err := ss.Toggle(ctx, fan1.ID, channel.ID)
	require.NoError(t, err)
	_, err = ss.Toggle(ctx, fan2.ID, channel.ID)
	require.NoError(t, err)
	_, err = ss.Toggle(ctx, channel.ID, other.ID)
	require.NoError(t, err)

	// The lookup is case-insensitive.
	profile, err := vs.ChannelProfile(ctx, "CHANNEL", fan1.ID)
	require.NoError(t, err)
	assert.Equal(t, channel.ID, profile.ID)
	assert.EqualValues(t, 2, profile.SubscriberCount)
	assert.EqualValues(t, 1, profile.SubscribedToCount)
	assert.True(t, profile.IsSubscribed)

	profile, err = vs.ChannelProfile(ctx, "channel", other.ID)
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)

	// Anonymous viewers get the counts without the viewer-specific flag.
	profile, err = vs.ChannelProfile(ctx, "channel", 0)
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)

	_, err = vs.ChannelProfile(ctx, "nobody", 0)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestVideoComments(t *testing.T) {
	db := openTestDB(t)
	vs := NewViewService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	commenter := seedUser(t, db, "commenter")
	video := seedVideo(t, db, owner.ID, "first", true)
	otherVideo := seedVideo(t, db, owner.ID, "second", true)

	for i := 0; i < 3; i++ {
		seedComment(t, db, commenter.ID, video.ID, "hi")
	}
	seedComment(t, db, commenter.ID, otherVideo.ID, "elsewhere")

	page, err := vs.VideoComments(ctx, video.ID, domain.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.EqualValues(t, 3, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNextPage)
	assert.Equal(t, "commenter", page.Items[0].Owner.Username)

	_, err = vs.VideoComments(ctx, 9999, domain.PageRequest{})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	_, err = vs.VideoComments(ctx, video.ID, domain.PageRequest{SortBy: "content"})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

func TestLikedVideosDropsDanglingReferences(t *testing.T) {
	db := openTestDB(t)
	vs := NewViewService(db)
	ls := NewLikeService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")
	video := seedVideo(t, db, owner.ID, "liked", true)
	comment := seedComment(t, db, owner.ID, video.ID, "hi")

	_, err := ls.Toggle(ctx, fan.ID, domain.LikeTarget{Kind: domain.TargetVideo, ID: video.ID})
	require.NoError(t, err)
	// A comment like must not show up in the video listing.
	_, err = ls.Toggle(ctx, fan.ID, domain.LikeTarget{Kind: domain.TargetComment, ID: comment.ID})
	require.NoError(t, err)
	// A like whose video is gone, left behind by a partial cascade.
	gone := 9999
	require.NoError(t, db.Create(&domain.Like{UserID: fan.ID, VideoID: &gone}).Error)

	liked, err := vs.LikedVideos(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, video.ID, liked[0].Video.ID)
	assert.Equal(t, "owner", liked[0].Video.Owner.Username)
}

func TestPlaylistViewVisibility(t *testing.T) {
	db := openTestDB(t)
	vs := NewViewService(db)
	ps := NewPlaylistService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	published := seedVideo(t, db, owner.ID, "public", true)
	draft := seedVideo(t, db, owner.ID, "draft", false)

	playlist := domain.Playlist{Name: "mix", UserID: owner.ID}
	require.NoError(t, ps.Create(ctx, &playlist))
	require.NoError(t, ps.AddVideo(ctx, playlist.ID, published.ID))
	require.NoError(t, ps.AddVideo(ctx, playlist.ID, draft.ID))
	require.NoError(t, ps.AddVideo(ctx, playlist.ID, published.ID))
	// A dangling membership row whose video is gone.
	require.NoError(t, db.Create(&domain.PlaylistVideo{PlaylistID: playlist.ID, VideoID: 9999, Position: 4}).Error)

	// The owner sees the draft, in stored order with the duplicate kept.
	view, err := vs.Playlist(ctx, playlist.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, view.Videos, 3)
	assert.Equal(t, published.ID, view.Videos[0].ID)
	assert.Equal(t, draft.ID, view.Videos[1].ID)
	assert.Equal(t, published.ID, view.Videos[2].ID)

	// Everyone else gets published videos only.
	view, err = vs.Playlist(ctx, playlist.ID, viewer.ID)
	require.NoError(t, err)
	require.Len(t, view.Videos, 2)
	assert.Equal(t, published.ID, view.Videos[0].ID)
	assert.Equal(t, published.ID, view.Videos[1].ID)

	view, err = vs.Playlist(ctx, playlist.ID, 0)
	require.NoError(t, err)
	assert.Len(t, view.Videos, 2)

	_, err = vs.Playlist(ctx, 9999, 0)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestUserPlaylistsPublishedOnly(t *testing.T) {
	db := openTestDB(t)
	vs := NewViewService(db)
	ps := NewPlaylistService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	published := seedVideo(t, db, owner.ID, "public", true)
	draft := seedVideo(t, db, owner.ID, "draft", false)

	playlist := domain.Playlist{Name: "mix", UserID: owner.ID}
	require.NoError(t, ps.Create(ctx, &playlist))
	require.NoError(t, ps.AddVideo(ctx, playlist.ID, published.ID))
	require.NoError(t, ps.AddVideo(ctx, playlist.ID, draft.ID))

	views, err := vs.UserPlaylists(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Videos, 1)
	assert.Equal(t, published.ID, views[0].Videos[0].ID)
}

func TestChannelStats(t *testing.T) {
	db := openTestDB(t)
	vs := NewViewService(db)
	ls := NewLikeService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")

	v1 := seedVideo(t, db, owner.ID, "one", true)
	v2 := seedVideo(t, db, owner.ID, "two", false)
	require.NoError(t, db.Model(&domain.Video{}).Where("id = ?", v1.ID).Update("views", 7).Error)
	require.NoError(t, db.Model(&domain.Video{}).Where("id = ?", v2.ID).Update("views", 3).Error)

	seedComment(t, db, fan.ID, v1.ID, "nice")
	seedComment(t, db, fan.ID, v2.ID, "early")
	seedTweet(t, db, owner.ID, "announcement")

	_, err := ls.Toggle(ctx, fan.ID, domain.LikeTarget{Kind: domain.TargetVideo, ID: v1.ID})
	require.NoError(t, err)
	// Likes on someone else's video don't count toward this channel.
	otherVideo := seedVideo(t, db, fan.ID, "other", true)
	_, err = ls.Toggle(ctx, owner.ID, domain.LikeTarget{Kind: domain.TargetVideo, ID: otherVideo.ID})
	require.NoError(t, err)

	stats, err := vs.ChannelStats(ctx, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalVideos)
	assert.EqualValues(t, 10, stats.TotalViews)
	assert.EqualValues(t, 1, stats.TotalLikes)
	assert.EqualValues(t, 2, stats.TotalComments)
	assert.EqualValues(t, 1, stats.TotalTweets)

	_, err = vs.ChannelStats(ctx, 9999)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestChannelVideosIncludesUnpublished(t *testing.T) {
	db := openTestDB(t)
	vs := NewViewService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	seedVideo(t, db, owner.ID, "public", true)
	seedVideo(t, db, owner.ID, "draft", false)

	page, err := vs.ChannelVideos(ctx, owner.ID, domain.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.EqualValues(t, 2, page.TotalItems)
}

func TestSubscriptionViews(t *testing.T) {
	db := openTestDB(t)
	vs := NewViewService(db)
	ss := NewSubscriptionService(db)
	ctx := context.Background()

	channel := seedUser(t, db, "channel")
	fan := seedUser(t, db, "fan")

	_, err := ss.Toggle(ctx, fan.ID, channel.ID)
	require.NoError(t, err)

	subs, err := vs.Subscribers(ctx, channel.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "fan", subs[0].User.Username)

	channels, err := vs.SubscribedChannels(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "channel", channels[0].User.Username)

	// A channel with no subscribers yields an empty list, not an error.
	subs, err = vs.Subscribers(ctx, fan.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestUserTweets(t *testing.T) {
	db := openTestDB(t)
	vs := NewViewService(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	seedTweet(t, db, user.ID, "first")
	seedTweet(t, db, user.ID, "second")

	tweets, err := vs.UserTweets(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, tweets, 2)
	assert.Equal(t, "alice", tweets[0].Owner.Username)
}

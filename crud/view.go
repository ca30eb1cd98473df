package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vidtube/domain"
	"vidtube/errs"
)

// ViewService computes the derived, joined views across the entity and
// relation tables. Every method is read-only and assembles its view fresh on
// each call: nothing here is persisted or cached. Joins resolve by primary
// key, so a to-one join takes the single (first) match; should the store
// ever hold unexpected extra rows, they are ignored rather than erroring.
// It implements the domain.ViewService interface.
type ViewService struct {
	db *gorm.DB
}

// NewViewService returns an instance of ViewService.
func NewViewService(db *gorm.DB) *ViewService {
	return &ViewService{db: db}
}

// Ensure the ViewService struct properly implements the domain.ViewService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.ViewService = &ViewService{}

// publicUser projects a user to its credential-free public fields.
// A nil user (dangling owner reference) projects to the zero value.
func publicUser(user *domain.User) domain.PublicUser {
	if user == nil {
		return domain.PublicUser{}
	}
	return domain.PublicUser{
		ID:         user.ID,
		Username:   user.Username,
		FullName:   user.FullName,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
	}
}

// videoView projects a video joined to its owner.
func videoView(video *domain.Video) domain.VideoView {
	return domain.VideoView{
		ID:          video.ID,
		Title:       video.Title,
		Description: video.Description,
		VideoFile:   video.VideoFile,
		Thumbnail:   video.Thumbnail,
		Duration:    video.Duration,
		Views:       video.Views,
		IsPublished: video.IsPublished,
		Owner:       publicUser(video.User),
		CreatedAt:   video.CreatedAt,
	}
}

// ChannelProfile resolves a channel by its case-insensitive username and
// decorates it with subscription counts. When a viewer is known (viewerID
// greater than zero) the view also reports whether that viewer subscribes.
func (vs *ViewService) ChannelProfile(ctx context.Context, username string, viewerID int) (*domain.ChannelProfile, error) {
	var user domain.User
	err := vs.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Channel does not exist.")
		}
		return nil, dbError("view.channel_profile", err)
	}

	var subscriberCount, subscribedToCount int64
	err = vs.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("channel_id = ?", user.ID).
		Count(&subscriberCount).Error
	if err != nil {
		return nil, dbError("view.subscriber_count", err)
	}
	err = vs.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("subscriber_id = ?", user.ID).
		Count(&subscribedToCount).Error
	if err != nil {
		return nil, dbError("view.subscribed_to_count", err)
	}

	profile := domain.ChannelProfile{
		PublicUser:        publicUser(&user),
		Email:             user.Email,
		SubscriberCount:   subscriberCount,
		SubscribedToCount: subscribedToCount,
	}
	if viewerID > 0 {
		var viewerSub int64
		err = vs.db.WithContext(ctx).Model(&domain.Subscription{}).
			Where("subscriber_id = ? AND channel_id = ?", viewerID, user.ID).
			Count(&viewerSub).Error
		if err != nil {
			return nil, dbError("view.is_subscribed", err)
		}
		profile.IsSubscribed = viewerSub > 0
	}
	return &profile, nil
}

// VideoComments resolves one page of a video's comments, each joined to its
// owner's public projection. Default order is insertion order.
func (vs *ViewService) VideoComments(ctx context.Context, videoID int, page domain.PageRequest) (*domain.Page[domain.CommentView], error) {
	page.Normalize()
	if err := page.Validate("created_at"); err != nil {
		return nil, err
	}
	err := vs.db.WithContext(ctx).First(&domain.Video{}, "id = ?", videoID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Video does not exist.")
		}
		return nil, dbError("view.video_exists", err)
	}

	query := vs.db.WithContext(ctx).Model(&domain.Comment{}).
		Preload("User").
		Where("video_id = ?", videoID)
	comments, err := paginate[domain.Comment](query, page)
	if err != nil {
		return nil, err
	}

	views := make([]domain.CommentView, 0, len(comments.Items))
	for i := range comments.Items {
		c := &comments.Items[i]
		views = append(views, domain.CommentView{
			ID:        c.ID,
			Content:   c.Content,
			VideoID:   c.VideoID,
			Owner:     publicUser(c.User),
			CreatedAt: c.CreatedAt,
		})
	}
	return domain.NewPage(views, page, comments.TotalItems), nil
}

// LikedVideos resolves all of a user's video likes to the liked video and
// its owner. Likes targeting comments or tweets are excluded by the filter,
// and likes whose video has since been deleted are silently dropped.
func (vs *ViewService) LikedVideos(ctx context.Context, userID int) ([]domain.LikedVideo, error) {
	var likes []domain.Like
	err := vs.db.WithContext(ctx).
		Preload("Video.User").
		Where("user_id = ? AND video_id IS NOT NULL", userID).
		Order("created_at asc").
		Find(&likes).Error
	if err != nil {
		return nil, dbError("view.liked_videos", err)
	}

	views := make([]domain.LikedVideo, 0, len(likes))
	for i := range likes {
		like := &likes[i]
		if like.Video == nil || like.Video.ID == 0 {
			// Dangling relation left behind by a partial cascade.
			continue
		}
		views = append(views, domain.LikedVideo{
			LikeID:  like.ID,
			LikedAt: like.CreatedAt,
			Video:   videoView(like.Video),
		})
	}
	return views, nil
}

// Playlist resolves a playlist's video references in their stored order,
// keeping duplicates. Unpublished videos stay visible to the playlist owner
// only; enforcing who counts as the owner is the caller's policy, this view
// just applies the viewer it is given. Dangling references are dropped.
func (vs *ViewService) Playlist(ctx context.Context, playlistID, viewerID int) (*domain.PlaylistView, error) {
	var playlist domain.Playlist
	err := vs.db.WithContext(ctx).First(&playlist, "id = ?", playlistID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Playlist does not exist.")
		}
		return nil, dbError("view.playlist", err)
	}
	includeUnpublished := viewerID == playlist.UserID
	return vs.resolvePlaylist(ctx, &playlist, includeUnpublished)
}

// UserPlaylists resolves all playlists of an owner, published videos only.
func (vs *ViewService) UserPlaylists(ctx context.Context, ownerID int) ([]domain.PlaylistView, error) {
	var playlists []domain.Playlist
	err := vs.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at asc").
		Find(&playlists).Error
	if err != nil {
		return nil, dbError("view.user_playlists", err)
	}

	views := make([]domain.PlaylistView, 0, len(playlists))
	for i := range playlists {
		view, err := vs.resolvePlaylist(ctx, &playlists[i], false)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// resolvePlaylist joins the playlist's ordered membership rows to their
// videos and each video to its owner.
func (vs *ViewService) resolvePlaylist(ctx context.Context, playlist *domain.Playlist, includeUnpublished bool) (*domain.PlaylistView, error) {
	var members []domain.PlaylistVideo
	err := vs.db.WithContext(ctx).
		Where("playlist_id = ?", playlist.ID).
		Order("position asc").
		Find(&members).Error
	if err != nil {
		return nil, dbError("view.playlist_members", err)
	}

	view := domain.PlaylistView{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		UserID:      playlist.UserID,
		Videos:      []domain.VideoView{},
	}
	if len(members) == 0 {
		return &view, nil
	}

	ids := make([]int, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.VideoID)
	}
	var videos []domain.Video
	err = vs.db.WithContext(ctx).
		Preload("User").
		Where("id IN ?", ids).
		Find(&videos).Error
	if err != nil {
		return nil, dbError("view.playlist_videos", err)
	}
	byID := make(map[int]*domain.Video, len(videos))
	for i := range videos {
		byID[videos[i].ID] = &videos[i]
	}

	for _, m := range members {
		video, ok := byID[m.VideoID]
		if !ok {
			// Dangling membership row, the video is gone.
			continue
		}
		if !video.IsPublished && !includeUnpublished {
			continue
		}
		view.Videos = append(view.Videos, videoView(video))
	}
	return &view, nil
}

// ChannelStats aggregates the dashboard numbers across everything the owner
// has published. Every count is computed fresh against the live tables;
// nothing is maintained incrementally.
func (vs *ViewService) ChannelStats(ctx context.Context, ownerID int) (*domain.ChannelStats, error) {
	err := vs.db.WithContext(ctx).First(&domain.User{}, "id = ?", ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "User does not exist.")
		}
		return nil, dbError("view.stats_owner", err)
	}

	var stats domain.ChannelStats
	err = vs.db.WithContext(ctx).Model(&domain.Video{}).
		Where("user_id = ?", ownerID).
		Count(&stats.TotalVideos).Error
	if err != nil {
		return nil, dbError("view.total_videos", err)
	}
	err = vs.db.WithContext(ctx).Model(&domain.Video{}).
		Where("user_id = ?", ownerID).
		Select("COALESCE(SUM(views), 0)").
		Scan(&stats.TotalViews).Error
	if err != nil {
		return nil, dbError("view.total_views", err)
	}
	err = vs.db.WithContext(ctx).Model(&domain.Like{}).
		Joins("JOIN videos ON videos.id = likes.video_id").
		Where("videos.user_id = ?", ownerID).
		Count(&stats.TotalLikes).Error
	if err != nil {
		return nil, dbError("view.total_likes", err)
	}
	err = vs.db.WithContext(ctx).Model(&domain.Comment{}).
		Joins("JOIN videos ON videos.id = comments.video_id").
		Where("videos.user_id = ?", ownerID).
		Count(&stats.TotalComments).Error
	if err != nil {
		return nil, dbError("view.total_comments", err)
	}
	err = vs.db.WithContext(ctx).Model(&domain.Tweet{}).
		Where("user_id = ?", ownerID).
		Count(&stats.TotalTweets).Error
	if err != nil {
		return nil, dbError("view.total_tweets", err)
	}
	return &stats, nil
}

// ChannelVideos resolves one page of the owner's videos, including
// unpublished ones; the dashboard is an owner-facing view.
func (vs *ViewService) ChannelVideos(ctx context.Context, ownerID int, page domain.PageRequest) (*domain.Page[domain.Video], error) {
	page.Normalize()
	if err := page.Validate("created_at", "views", "title"); err != nil {
		return nil, err
	}
	query := vs.db.WithContext(ctx).Model(&domain.Video{}).Where("user_id = ?", ownerID)
	return paginate[domain.Video](query, page)
}

// Subscribers lists the accounts subscribed to a channel.
func (vs *ViewService) Subscribers(ctx context.Context, channelID int) ([]domain.SubscriptionView, error) {
	var subs []domain.Subscription
	err := vs.db.WithContext(ctx).
		Preload("Subscriber").
		Where("channel_id = ?", channelID).
		Order("created_at asc").
		Find(&subs).Error
	if err != nil {
		return nil, dbError("view.subscribers", err)
	}
	views := make([]domain.SubscriptionView, 0, len(subs))
	for i := range subs {
		views = append(views, domain.SubscriptionView{
			ID:           subs[i].ID,
			User:         publicUser(subs[i].Subscriber),
			SubscribedAt: subs[i].CreatedAt,
		})
	}
	return views, nil
}

// SubscribedChannels lists the channels an account subscribes to.
func (vs *ViewService) SubscribedChannels(ctx context.Context, subscriberID int) ([]domain.SubscriptionView, error) {
	var subs []domain.Subscription
	err := vs.db.WithContext(ctx).
		Preload("Channel").
		Where("subscriber_id = ?", subscriberID).
		Order("created_at asc").
		Find(&subs).Error
	if err != nil {
		return nil, dbError("view.subscribed_channels", err)
	}
	views := make([]domain.SubscriptionView, 0, len(subs))
	for i := range subs {
		views = append(views, domain.SubscriptionView{
			ID:           subs[i].ID,
			User:         publicUser(subs[i].Channel),
			SubscribedAt: subs[i].CreatedAt,
		})
	}
	return views, nil
}

// UserTweets lists a user's tweets joined to their owner projection.
func (vs *ViewService) UserTweets(ctx context.Context, userID int) ([]domain.TweetView, error) {
	var tweets []domain.Tweet
	err := vs.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&tweets).Error
	if err != nil {
		return nil, dbError("view.user_tweets", err)
	}
	views := make([]domain.TweetView, 0, len(tweets))
	for i := range tweets {
		views = append(views, domain.TweetView{
			ID:        tweets[i].ID,
			Content:   tweets[i].Content,
			Owner:     publicUser(tweets[i].User),
			CreatedAt: tweets[i].CreatedAt,
		})
	}
	return views, nil
}

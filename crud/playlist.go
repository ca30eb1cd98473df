package crud

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"vidtube/domain"
	"vidtube/errs"
)

// PlaylistService manages Playlists and their ordered membership rows.
// It implements the domain.PlaylistService interface.
type PlaylistService struct {
	playlistValidator
}

// playlistValidator runs validations on incoming Playlist data.
// On success, it passes the data on to playlistGorm.
// Otherwise, it returns the error of the validation that has failed.
type playlistValidator struct {
	playlistGorm
}

// playlistGorm runs CRUD operations on the database using incoming Playlist data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type playlistGorm struct {
	db *gorm.DB
}

// NewPlaylistService returns an instance of PlaylistService.
func NewPlaylistService(db *gorm.DB) *PlaylistService {
	return &PlaylistService{
		playlistValidator{
			playlistGorm{
				db: db,
			},
		},
	}
}

// Ensure the PlaylistService struct properly implements the domain.PlaylistService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.PlaylistService = &PlaylistService{}

// Create runs validations needed for creating new Playlist database records.
func (pv *playlistValidator) Create(ctx context.Context, playlist *domain.Playlist) error {
	err := runPlaylistValFns(playlist,
		pv.ownerIdValid,
		pv.nameRequired)
	if err != nil {
		return err
	}
	return pv.playlistGorm.Create(ctx, playlist)
}

// Update runs validations needed for changing a Playlist's name or description.
func (pv *playlistValidator) Update(ctx context.Context, id int, upd *domain.PlaylistUpdate) (*domain.Playlist, error) {
	playlist, err := pv.playlistGorm.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		playlist.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		playlist.Description = *upd.Description
	}
	if err := runPlaylistValFns(playlist, pv.nameRequired); err != nil {
		return nil, err
	}
	if err := pv.playlistGorm.Update(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// AddVideo validates the video exists before appending it to the playlist.
// The same video may be added more than once; the order is caller-controlled
// through successive appends.
func (pv *playlistValidator) AddVideo(ctx context.Context, playlistID, videoID int) error {
	if _, err := pv.playlistGorm.ByID(ctx, playlistID); err != nil {
		return err
	}
	err := pv.db.WithContext(ctx).First(&domain.Video{}, "id = ?", videoID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "Video does not exist.")
		}
		return dbError("playlist.video_exists", err)
	}
	return pv.playlistGorm.AddVideo(ctx, playlistID, videoID)
}

// runPlaylistValFns runs any number of functions of type playlistValFn on the
// passed in Playlist object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runPlaylistValFns(playlist *domain.Playlist, fns ...playlistValFn) error {
	for _, fn := range fns {
		if err := fn(playlist); err != nil {
			return err
		}
	}
	return nil
}

// A playlistValFn is any function that takes in a pointer to a domain.Playlist
// object and returns an error.
type playlistValFn func(playlist *domain.Playlist) error

func (pv *playlistValidator) ownerIdValid(playlist *domain.Playlist) error {
	if playlist.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "Playlist owner is required.")
	}
	return nil
}

func (pv *playlistValidator) nameRequired(playlist *domain.Playlist) error {
	if strings.TrimSpace(playlist.Name) == "" {
		return errs.Errorf(errs.EINVALID, "Playlist name is required.")
	}
	return nil
}

// ByID retrieves a playlist by its ID.
func (pg *playlistGorm) ByID(ctx context.Context, id int) (*domain.Playlist, error) {
	var playlist domain.Playlist
	err := pg.db.WithContext(ctx).First(&playlist, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Playlist does not exist.")
		}
		return nil, dbError("playlist.by_id", err)
	}
	return &playlist, nil
}

// ByUserID retrieves all playlists owned by a user.
func (pg *playlistGorm) ByUserID(ctx context.Context, userID int) ([]domain.Playlist, error) {
	var playlists []domain.Playlist
	err := pg.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&playlists).Error
	if err != nil {
		return nil, dbError("playlist.by_user_id", err)
	}
	return playlists, nil
}

// Create stores the data from the Playlist object in a new database record.
func (pg *playlistGorm) Create(ctx context.Context, playlist *domain.Playlist) error {
	if err := pg.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return dbError("playlist.create", err)
	}
	return nil
}

// Update saves the full playlist record.
func (pg *playlistGorm) Update(ctx context.Context, playlist *domain.Playlist) error {
	if err := pg.db.WithContext(ctx).Save(playlist).Error; err != nil {
		return dbError("playlist.update", err)
	}
	return nil
}

// Delete removes the playlist's membership rows, then the playlist itself.
func (pg *playlistGorm) Delete(ctx context.Context, id int) error {
	res := pg.db.WithContext(ctx).Delete(&domain.Playlist{}, "id = ?", id)
	if res.Error != nil {
		return dbError("playlist.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.Errorf(errs.ENOTFOUND, "Playlist does not exist.")
	}
	err := pg.db.WithContext(ctx).Delete(&domain.PlaylistVideo{}, "playlist_id = ?", id).Error
	if err != nil {
		return dbError("playlist.delete_members", err)
	}
	return nil
}

// AddVideo appends a membership row after the playlist's current last position.
func (pg *playlistGorm) AddVideo(ctx context.Context, playlistID, videoID int) error {
	var maxPos int
	err := pg.db.WithContext(ctx).Model(&domain.PlaylistVideo{}).
		Where("playlist_id = ?", playlistID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPos).Error
	if err != nil {
		return dbError("playlist.max_position", err)
	}
	member := domain.PlaylistVideo{
		PlaylistID: playlistID,
		VideoID:    videoID,
		Position:   maxPos + 1,
	}
	if err := pg.db.WithContext(ctx).Create(&member).Error; err != nil {
		return dbError("playlist.add_video", err)
	}
	return nil
}

// RemoveVideo deletes the first membership row matching the video. When the
// playlist holds duplicates, one remove drops one occurrence.
func (pg *playlistGorm) RemoveVideo(ctx context.Context, playlistID, videoID int) error {
	var member domain.PlaylistVideo
	err := pg.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Order("position asc").
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "Video is not in this playlist.")
		}
		return dbError("playlist.find_member", err)
	}
	if err := pg.db.WithContext(ctx).Delete(&member).Error; err != nil {
		return dbError("playlist.remove_video", err)
	}
	return nil
}

package crud

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"vidtube/domain"
	"vidtube/errs"
)

// VideoService manages Videos.
// It implements the domain.VideoService interface.
type VideoService struct {
	videoValidator
}

// videoValidator runs validations on incoming Video data.
// On success, it passes the data on to videoGorm.
// Otherwise, it returns the error of the validation that has failed.
type videoValidator struct {
	videoGorm
}

// videoGorm runs CRUD operations on the database using incoming Video data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type videoGorm struct {
	db *gorm.DB
}

// NewVideoService returns an instance of VideoService.
func NewVideoService(db *gorm.DB) *VideoService {
	return &VideoService{
		videoValidator{
			videoGorm{
				db: db,
			},
		},
	}
}

// Ensure the VideoService struct properly implements the domain.VideoService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.VideoService = &VideoService{}

// Create runs validations needed for creating new Video database records.
func (vv *videoValidator) Create(ctx context.Context, video *domain.Video) error {
	err := runVideoValFns(video,
		vv.ownerIdValid,
		vv.titleRequired,
		vv.fileRequired)
	if err != nil {
		return err
	}
	return vv.videoGorm.Create(ctx, video)
}

// Update runs validations needed for updating a Video record. The owner
// reference is immutable, so only title, description and thumbnail change.
func (vv *videoValidator) Update(ctx context.Context, id int, upd *domain.VideoUpdate) (*domain.Video, error) {
	video, err := vv.videoGorm.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		video.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		video.Description = *upd.Description
	}
	if upd.Thumbnail != nil {
		video.Thumbnail = upd.Thumbnail.URL
		video.ThumbnailID = upd.Thumbnail.ReferenceID
	}
	if err := runVideoValFns(video, vv.titleRequired); err != nil {
		return nil, err
	}
	if err := vv.videoGorm.Update(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// runVideoValFns runs any number of functions of type videoValFn on the
// passed in Video object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runVideoValFns(video *domain.Video, fns ...videoValFn) error {
	for _, fn := range fns {
		if err := fn(video); err != nil {
			return err
		}
	}
	return nil
}

// A videoValFn is any function that takes in a pointer to a domain.Video
// object and returns an error.
type videoValFn func(video *domain.Video) error

func (vv *videoValidator) ownerIdValid(video *domain.Video) error {
	if video.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "Video owner is required.")
	}
	return nil
}

func (vv *videoValidator) titleRequired(video *domain.Video) error {
	if strings.TrimSpace(video.Title) == "" {
		return errs.Errorf(errs.EINVALID, "Video title is required.")
	}
	return nil
}

func (vv *videoValidator) fileRequired(video *domain.Video) error {
	if video.VideoFile == "" || video.Thumbnail == "" {
		return errs.Errorf(errs.EINVALID, "Video file and thumbnail are required.")
	}
	return nil
}

// ByID retrieves a video by its ID.
func (vg *videoGorm) ByID(ctx context.Context, id int) (*domain.Video, error) {
	var video domain.Video
	err := vg.db.WithContext(ctx).First(&video, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Video does not exist.")
		}
		return nil, dbError("video.by_id", err)
	}
	return &video, nil
}

// ByUserID retrieves one page of a user's videos.
func (vg *videoGorm) ByUserID(ctx context.Context, userID int, page domain.PageRequest) (*domain.Page[domain.Video], error) {
	page.Normalize()
	if err := page.Validate("created_at", "views", "title", "duration"); err != nil {
		return nil, err
	}
	query := vg.db.WithContext(ctx).Model(&domain.Video{}).Where("user_id = ?", userID)
	return paginate[domain.Video](query, page)
}

// Search retrieves one page of published videos whose title or description
// contains the query string.
func (vg *videoGorm) Search(ctx context.Context, query string, page domain.PageRequest) (*domain.Page[domain.Video], error) {
	page.Normalize()
	if err := page.Validate("created_at", "views", "title", "duration"); err != nil {
		return nil, err
	}
	pattern := "%" + strings.TrimSpace(query) + "%"
	q := vg.db.WithContext(ctx).Model(&domain.Video{}).
		Where("is_published = ?", true).
		Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	return paginate[domain.Video](q, page)
}

// Create stores the data from the Video object in a new database record.
func (vg *videoGorm) Create(ctx context.Context, video *domain.Video) error {
	if err := vg.db.WithContext(ctx).Create(video).Error; err != nil {
		return dbError("video.create", err)
	}
	return nil
}

// Update saves the full video record.
func (vg *videoGorm) Update(ctx context.Context, video *domain.Video) error {
	if err := vg.db.WithContext(ctx).Save(video).Error; err != nil {
		return dbError("video.update", err)
	}
	return nil
}

// Delete permanently removes a video, then cascades to its dependent records
// in separate scoped deletes keyed by the deleted video's own id. The store
// offers no multi-document transaction, so each cascade step is best-effort:
// a failure is logged as a non-fatal inconsistency and never surfaced to the
// caller, and readers tolerate whatever orphans remain.
func (vg *videoGorm) Delete(ctx context.Context, id int) error {
	res := vg.db.WithContext(ctx).Delete(&domain.Video{}, "id = ?", id)
	if res.Error != nil {
		return dbError("video.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.Errorf(errs.ENOTFOUND, "Video does not exist.")
	}

	cascades := []struct {
		name  string
		model interface{}
	}{
		{"comments", &domain.Comment{}},
		{"likes", &domain.Like{}},
		{"playlist_videos", &domain.PlaylistVideo{}},
	}
	for _, c := range cascades {
		if err := vg.db.WithContext(ctx).Delete(c.model, "video_id = ?", id).Error; err != nil {
			slog.Warn("video cascade delete failed",
				"video_id", id, "dependents", c.name, "err", err)
		}
	}
	return nil
}

// TogglePublish flips the video's published flag.
func (vg *videoGorm) TogglePublish(ctx context.Context, id int) (*domain.Video, error) {
	video, err := vg.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	video.IsPublished = !video.IsPublished
	err = vg.db.WithContext(ctx).Model(video).
		Update("is_published", video.IsPublished).Error
	if err != nil {
		return nil, dbError("video.toggle_publish", err)
	}
	return video, nil
}

// IncrementViews bumps the view counter by one in the store, so concurrent
// watchers don't lose each other's increments.
func (vg *videoGorm) IncrementViews(ctx context.Context, id int) error {
	res := vg.db.WithContext(ctx).Model(&domain.Video{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return dbError("video.increment_views", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.Errorf(errs.ENOTFOUND, "Video does not exist.")
	}
	return nil
}

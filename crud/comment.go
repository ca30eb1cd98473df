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

// CommentService manages Comments.
// It implements the domain.CommentService interface.
type CommentService struct {
	commentValidator
}

// commentValidator runs validations on incoming Comment data.
// On success, it passes the data on to commentGorm.
// Otherwise, it returns the error of the validation that has failed.
type commentValidator struct {
	commentGorm
}

// commentGorm runs CRUD operations on the database using incoming Comment data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type commentGorm struct {
	db *gorm.DB
}

// NewCommentService returns an instance of CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		commentValidator{
			commentGorm{
				db: db,
			},
		},
	}
}

// Ensure the CommentService struct properly implements the domain.CommentService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.CommentService = &CommentService{}

// Create runs validations needed for creating new Comment database records.
func (cv *commentValidator) Create(ctx context.Context, comment *domain.Comment) error {
	err := runCommentValFns(comment,
		cv.ownerIdValid,
		cv.contentRequired,
		cv.commentedVideoExists(ctx))
	if err != nil {
		return err
	}
	return cv.commentGorm.Create(ctx, comment)
}

// Update runs validations needed for changing a Comment's content.
func (cv *commentValidator) Update(ctx context.Context, id int, content string) (*domain.Comment, error) {
	comment, err := cv.commentGorm.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comment.Content = content
	if err := runCommentValFns(comment, cv.contentRequired); err != nil {
		return nil, err
	}
	if err := cv.commentGorm.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// runCommentValFns runs any number of functions of type commentValFn on the
// passed in Comment object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runCommentValFns(comment *domain.Comment, fns ...commentValFn) error {
	for _, fn := range fns {
		if err := fn(comment); err != nil {
			return err
		}
	}
	return nil
}

// A commentValFn is any function that takes in a pointer to a domain.Comment
// object and returns an error.
type commentValFn func(comment *domain.Comment) error

func (cv *commentValidator) ownerIdValid(comment *domain.Comment) error {
	if comment.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "Comment owner is required.")
	}
	return nil
}

func (cv *commentValidator) contentRequired(comment *domain.Comment) error {
	if strings.TrimSpace(comment.Content) == "" {
		return errs.Errorf(errs.EINVALID, "Comment content must not be empty.")
	}
	return nil
}

// commentedVideoExists makes sure that the video to be commented on actually exists.
func (cv *commentValidator) commentedVideoExists(ctx context.Context) commentValFn {
	return func(comment *domain.Comment) error {
		err := cv.db.WithContext(ctx).First(&domain.Video{}, "id = ?", comment.VideoID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Errorf(errs.ENOTFOUND, "The commented video does not exist.")
			}
			return dbError("comment.video_exists", err)
		}
		return nil
	}
}

// ByID retrieves a comment by its ID.
func (cg *commentGorm) ByID(ctx context.Context, id int) (*domain.Comment, error) {
	var comment domain.Comment
	err := cg.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Comment does not exist.")
		}
		return nil, dbError("comment.by_id", err)
	}
	return &comment, nil
}

// Create stores the data from the Comment object in a new database record.
func (cg *commentGorm) Create(ctx context.Context, comment *domain.Comment) error {
	if err := cg.db.WithContext(ctx).Create(comment).Error; err != nil {
		return dbError("comment.create", err)
	}
	return nil
}

// Update saves the full comment record.
func (cg *commentGorm) Update(ctx context.Context, comment *domain.Comment) error {
	if err := cg.db.WithContext(ctx).Save(comment).Error; err != nil {
		return dbError("comment.update", err)
	}
	return nil
}

// Delete permanently removes a comment. Any likes pointing at it are removed
// in a best-effort second step, same as the video cascade.
func (cg *commentGorm) Delete(ctx context.Context, id int) error {
	res := cg.db.WithContext(ctx).Delete(&domain.Comment{}, "id = ?", id)
	if res.Error != nil {
		return dbError("comment.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.Errorf(errs.ENOTFOUND, "Comment does not exist.")
	}
	if err := cg.db.WithContext(ctx).Delete(&domain.Like{}, "comment_id = ?", id).Error; err != nil {
		slog.Warn("comment cascade delete failed", "comment_id", id, "dependents", "likes", "err", err)
	}
	return nil
}

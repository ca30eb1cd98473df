package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vidtube/domain"
	"vidtube/errs"
)

// LikeService manages the like toggle relation. A toggle flips the presence
// of the single (user, target) like row: absent rows get created, present
// rows get removed. The composite unique indexes on the likes table are the
// authoritative at-most-one guarantee; the lookup below is an optimization.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming toggle requests.
// On success, it passes the request on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs the create/remove halves of the toggle on the database.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// targetColumns maps a like target kind to the likes column holding its id.
var targetColumns = map[string]string{
	domain.TargetVideo:   "video_id",
	domain.TargetComment: "comment_id",
	domain.TargetTweet:   "tweet_id",
}

// Toggle validates the actor and target, then creates or removes the like.
// Liking one's own content is permitted.
func (lv *likeValidator) Toggle(ctx context.Context, userID int, target domain.LikeTarget) (*domain.LikeToggle, error) {
	if err := lv.targetValid(target); err != nil {
		return nil, err
	}
	if err := lv.actorExists(ctx, userID); err != nil {
		return nil, err
	}
	if err := lv.targetExists(ctx, target); err != nil {
		return nil, err
	}
	return lv.likeGorm.Toggle(ctx, userID, target)
}

// Exists reports whether the (user, target) like row is currently present.
func (lv *likeValidator) Exists(ctx context.Context, userID int, target domain.LikeTarget) (bool, error) {
	if err := lv.targetValid(target); err != nil {
		return false, err
	}
	return lv.likeGorm.Exists(ctx, userID, target)
}

func (lv *likeValidator) targetValid(target domain.LikeTarget) error {
	if _, ok := targetColumns[target.Kind]; !ok {
		return errs.Errorf(errs.EINVALID, "Unknown like target kind %q.", target.Kind)
	}
	if target.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid like target id.")
	}
	return nil
}

func (lv *likeValidator) actorExists(ctx context.Context, userID int) error {
	err := lv.db.WithContext(ctx).First(&domain.User{}, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "User does not exist.")
		}
		return dbError("like.actor_exists", err)
	}
	return nil
}

// targetExists makes sure the liked entity actually exists in its collection.
func (lv *likeValidator) targetExists(ctx context.Context, target domain.LikeTarget) error {
	var model interface{}
	switch target.Kind {
	case domain.TargetVideo:
		model = &domain.Video{}
	case domain.TargetComment:
		model = &domain.Comment{}
	case domain.TargetTweet:
		model = &domain.Tweet{}
	}
	err := lv.db.WithContext(ctx).First(model, "id = ?", target.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The liked %s does not exist.", target.Kind)
		}
		return dbError("like.target_exists", err)
	}
	return nil
}

// Toggle looks up the existing like row and acts on what it finds. Two
// concurrent toggles may race between the lookup and the write; the unique
// index catches the create/create race and the delete below treats an
// already-gone row as success, so either way both callers converge.
func (lg *likeGorm) Toggle(ctx context.Context, userID int, target domain.LikeTarget) (*domain.LikeToggle, error) {
	column := targetColumns[target.Kind]

	var existing domain.Like
	err := lg.db.WithContext(ctx).
		Where("user_id = ? AND "+column+" = ?", userID, target.ID).
		First(&existing).Error
	if err == nil {
		return lg.remove(ctx, existing.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dbError("like.lookup", err)
	}

	like := domain.Like{UserID: userID}
	switch target.Kind {
	case domain.TargetVideo:
		like.VideoID = &target.ID
	case domain.TargetComment:
		like.CommentID = &target.ID
	case domain.TargetTweet:
		like.TweetID = &target.ID
	}
	if err := lg.db.WithContext(ctx).Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent toggle won the create. The relation exists, which
			// is the state this caller asked for, so report it as created.
			return &domain.LikeToggle{State: domain.ToggleCreated}, nil
		}
		return nil, dbError("like.create", err)
	}
	return &domain.LikeToggle{State: domain.ToggleCreated, Like: &like}, nil
}

// remove deletes a like row by id. Zero rows affected means a concurrent
// toggle already removed it, which is the outcome this caller wanted.
func (lg *likeGorm) remove(ctx context.Context, id int) (*domain.LikeToggle, error) {
	res := lg.db.WithContext(ctx).Delete(&domain.Like{}, "id = ?", id)
	if res.Error != nil {
		return nil, dbError("like.delete", res.Error)
	}
	return &domain.LikeToggle{State: domain.ToggleRemoved}, nil
}

// Exists checks for the presence of the (user, target) like row.
func (lg *likeGorm) Exists(ctx context.Context, userID int, target domain.LikeTarget) (bool, error) {
	column := targetColumns[target.Kind]
	var count int64
	err := lg.db.WithContext(ctx).Model(&domain.Like{}).
		Where("user_id = ? AND "+column+" = ?", userID, target.ID).
		Count(&count).Error
	if err != nil {
		return false, dbError("like.exists", err)
	}
	return count > 0, nil
}

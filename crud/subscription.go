package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vidtube/domain"
	"vidtube/errs"
)

// SubscriptionService manages the subscription toggle relation between a
// subscriber and a channel. Same toggle contract as LikeService: the unique
// index on (subscriber_id, channel_id) is the authoritative guarantee.
// It implements the domain.SubscriptionService interface.
type SubscriptionService struct {
	subscriptionValidator
}

// subscriptionValidator runs validations on incoming toggle requests.
// On success, it passes the request on to subscriptionGorm.
// Otherwise, it returns the error of the validation that has failed.
type subscriptionValidator struct {
	subscriptionGorm
}

// subscriptionGorm runs the create/remove halves of the toggle on the database.
type subscriptionGorm struct {
	db *gorm.DB
}

// NewSubscriptionService returns an instance of SubscriptionService.
func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{
		subscriptionValidator{
			subscriptionGorm{
				db: db,
			},
		},
	}
}

// Ensure the SubscriptionService struct properly implements the domain.SubscriptionService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.SubscriptionService = &SubscriptionService{}

// Toggle validates both accounts, then creates or removes the subscription.
// Subscribing to one's own channel is permitted.
func (sv *subscriptionValidator) Toggle(ctx context.Context, subscriberID, channelID int) (*domain.SubscriptionToggle, error) {
	if channelID <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Invalid channel id.")
	}
	if err := sv.userExists(ctx, subscriberID, "User"); err != nil {
		return nil, err
	}
	if err := sv.userExists(ctx, channelID, "Channel"); err != nil {
		return nil, err
	}
	return sv.subscriptionGorm.Toggle(ctx, subscriberID, channelID)
}

// Exists reports whether the subscriber currently subscribes to the channel.
func (sv *subscriptionValidator) Exists(ctx context.Context, subscriberID, channelID int) (bool, error) {
	return sv.subscriptionGorm.Exists(ctx, subscriberID, channelID)
}

func (sv *subscriptionValidator) userExists(ctx context.Context, id int, label string) error {
	err := sv.db.WithContext(ctx).First(&domain.User{}, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "%s does not exist.", label)
		}
		return dbError("subscription.user_exists", err)
	}
	return nil
}

// Toggle looks up the existing subscription row and acts on what it finds,
// with the same race convergence rules as the like toggle.
func (sg *subscriptionGorm) Toggle(ctx context.Context, subscriberID, channelID int) (*domain.SubscriptionToggle, error) {
	var existing domain.Subscription
	err := sg.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		First(&existing).Error
	if err == nil {
		res := sg.db.WithContext(ctx).Delete(&domain.Subscription{}, "id = ?", existing.ID)
		if res.Error != nil {
			return nil, dbError("subscription.delete", res.Error)
		}
		return &domain.SubscriptionToggle{State: domain.ToggleRemoved}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dbError("subscription.lookup", err)
	}

	sub := domain.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	if err := sg.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &domain.SubscriptionToggle{State: domain.ToggleCreated}, nil
		}
		return nil, dbError("subscription.create", err)
	}
	return &domain.SubscriptionToggle{State: domain.ToggleCreated, Subscription: &sub}, nil
}

// Exists checks for the presence of the (subscriber, channel) row.
func (sg *subscriptionGorm) Exists(ctx context.Context, subscriberID, channelID int) (bool, error) {
	var count int64
	err := sg.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	if err != nil {
		return false, dbError("subscription.exists", err)
	}
	return count > 0, nil
}

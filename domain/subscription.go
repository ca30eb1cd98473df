package domain

import (
	"context"
	"time"
)

// Subscription represents a toggle relation between a subscriber and the
// channel (another user) they subscribe to. The unique index keeps the pair
// at-most-once; subscribing to oneself is permitted.
type Subscription struct {
	ID           int   `json:"id"`
	SubscriberID int   `json:"subscriber_id" gorm:"notNull;uniqueIndex:idx_sub_pair"`
	Subscriber   *User `json:"subscriber,omitempty"`
	ChannelID    int   `json:"channel_id" gorm:"notNull;uniqueIndex:idx_sub_pair;index"`
	Channel      *User `json:"channel,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// SubscriptionToggle reports the outcome of a subscription toggle.
type SubscriptionToggle struct {
	State        string        `json:"state"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

// SubscriptionService manages subscription toggle relations.
type SubscriptionService interface {
	Toggle(ctx context.Context, subscriberID, channelID int) (*SubscriptionToggle, error)
	Exists(ctx context.Context, subscriberID, channelID int) (bool, error)
}

package domain

import "time"

// Subscription is an edge in the subscriber -> channel relation.
// A channel is just another user account.
type Subscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubscriberID uint      `gorm:"index;not null" json:"subscriber_id"`
	ChannelID    uint      `gorm:"index;not null" json:"channel_id"`
	CreatedAt    time.Time `json:"created_at"`
}

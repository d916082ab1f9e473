package repository

import (
	"log"

	"github.com/novatube/user-service/internal/domain"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	CountSubscribers(channelID uint) (int64, error)
	CountSubscribedTo(subscriberID uint) (int64, error)
	IsSubscribed(channelID, subscriberID uint) (bool, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) CountSubscribers(channelID uint) (int64, error) {
	var count int64

	err := r.db.Model(&domain.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	if err != nil {
		log.Printf("count subscribers error: %v", err)
		return 0, err
	}

	return count, nil
}

func (r *subscriptionRepository) CountSubscribedTo(subscriberID uint) (int64, error) {
	var count int64

	err := r.db.Model(&domain.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error
	if err != nil {
		log.Printf("count subscribed-to error: %v", err)
		return 0, err
	}

	return count, nil
}

func (r *subscriptionRepository) IsSubscribed(channelID, subscriberID uint) (bool, error) {
	var count int64

	err := r.db.Model(&domain.Subscription{}).
		Where("channel_id = ? AND subscriber_id = ?", channelID, subscriberID).
		Count(&count).Error
	if err != nil {
		log.Printf("subscription lookup error: %v", err)
		return false, err
	}

	return count > 0, nil
}

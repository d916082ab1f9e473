package domain

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Fullname     string `gorm:"not null" json:"fullname"`
	PasswordHash string `json:"-"`
	Avatar       string `json:"avatar"`
	CoverImage   string `json:"coverImage,omitempty"`

	// single active session: at most one valid refresh token per user
	RefreshToken string `json:"-"`

	WatchHistory []WatchHistoryEntry `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WatchHistoryEntry keeps the ordered list of videos a user has watched.
type WatchHistoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	VideoID   string    `gorm:"not null" json:"video_id"`
	WatchedAt time.Time `json:"watched_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Like marks a user's like on a story (PostgreSQL)
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_like_user_story"`
	StoryID   uuid.UUID `json:"story_id" gorm:"type:uuid;index;uniqueIndex:idx_like_user_story"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark marks a story saved by a user (PostgreSQL)
type Bookmark struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_bookmark_user_story"`
	StoryID   uuid.UUID `json:"story_id" gorm:"type:uuid;index;uniqueIndex:idx_bookmark_user_story"`
	CreatedAt time.Time `json:"created_at"`
}

// ViewHistory records a story detail view for analytics (PostgreSQL)
type ViewHistory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StoryID   uuid.UUID `json:"story_id" gorm:"type:uuid;index"`
	UserID    *uint     `json:"user_id,omitempty" gorm:"index"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

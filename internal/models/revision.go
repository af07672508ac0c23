package models

import (
	"time"

	"github.com/google/uuid"
)

// StoryRevision is a versioned snapshot of a story's content, appended on
// generation and on each regenerate-with-feedback pass
type StoryRevision struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	StoryID           uuid.UUID `json:"story_id" gorm:"type:uuid;index;not null"`
	UserID            uint      `json:"user_id" gorm:"index;not null"`
	Version           int       `json:"version" gorm:"not null"`
	Content           string    `json:"content" gorm:"type:text;not null"`
	Prompt            string    `json:"prompt,omitempty" gorm:"type:text"`
	Feedback          string    `json:"feedback,omitempty" gorm:"type:text"`
	ModelName         string    `json:"model_name,omitempty"`
	ProviderMessageID string    `json:"provider_message_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

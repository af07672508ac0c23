package models

import "time"

// Notification actions emitted by this service
const (
	ActionLiked         = "liked"
	ActionCommented     = "commented"
	ActionStoryApproved = "story_approved"
	ActionStoryRejected = "story_rejected"
)

// Notification represents an event record delivered to a recipient (PostgreSQL)
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID uint      `json:"recipient_id" gorm:"index;not null"`
	ActorID     *uint     `json:"actor_id,omitempty"`
	Action      string    `json:"action" gorm:"size:30;not null;index"`
	TargetType  string    `json:"target_type,omitempty" gorm:"size:20"`
	TargetID    string    `json:"target_id,omitempty"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag labels stories; attached via the story_tags join table
type Tag struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null;size:40"`
	Description string    `json:"description,omitempty"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type TagSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (t Tag) ToSummary() TagSummary {
	return TagSummary{ID: t.ID, Name: t.Name}
}

// CreateTagRequest defines the request body for creating a tag
type CreateTagRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=40"`
	Description string `json:"description,omitempty" validate:"omitempty,max=200"`
}

// UpdateTagRequest defines the request body for updating a tag
type UpdateTagRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=40"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=200"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoryStatus is the story lifecycle state. It is the single source of
// truth for visibility: a story is published exactly when its status is
// StoryStatusPublished.
type StoryStatus string

const (
	StoryStatusDraft     StoryStatus = "draft"
	StoryStatusGenerated StoryStatus = "generated"
	StoryStatusPublished StoryStatus = "published"
	StoryStatusRejected  StoryStatus = "rejected"
)

func (s StoryStatus) Valid() bool {
	switch s {
	case StoryStatusDraft, StoryStatusGenerated, StoryStatusPublished, StoryStatusRejected:
		return true
	}
	return false
}

// ContentSource records whether a story was written by a person or generated
type ContentSource string

const (
	SourceUser ContentSource = "user"
	SourceAI   ContentSource = "ai"
)

// FlagSource records who raised the current flag on a story
type FlagSource string

const (
	FlagSourceAI   FlagSource = "ai"
	FlagSourceUser FlagSource = "user"
	FlagSourceNone FlagSource = "none"
)

// Story is a piece of content, human- or AI-authored (PostgreSQL)
type Story struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uint          `json:"user_id" gorm:"index;not null"`
	Title         string        `json:"title" gorm:"not null"`
	Header        string        `json:"header,omitempty"`
	Content       string        `json:"content" gorm:"type:text;not null"`
	CoverImageURL string        `json:"cover_image_url,omitempty"`
	IsFlagged     bool          `json:"is_flagged" gorm:"default:false;index"`
	FlagSource    FlagSource    `json:"flag_source" gorm:"size:10;default:none"`
	Status        StoryStatus   `json:"status" gorm:"size:16;index"`
	Source        ContentSource `json:"source" gorm:"size:10;index"`

	Genre      string `json:"genre,omitempty" gorm:"index"`
	Tone       string `json:"tone,omitempty"`
	Summary    string `json:"summary,omitempty"`
	WordsCount int    `json:"words_count" gorm:"default:0"`

	// Generation metadata
	Prompt            string  `json:"prompt,omitempty" gorm:"type:text"`
	ModelName         string  `json:"model_name,omitempty"`
	Temperature       float64 `json:"temperature,omitempty"`
	ProviderMessageID string  `json:"provider_message_id,omitempty"`
	Version           int     `json:"version" gorm:"default:1"`
	LastFeedback      string  `json:"last_feedback,omitempty" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User      *User           `json:"-"`
	Tags      []Tag           `json:"tags,omitempty" gorm:"many2many:story_tags;"`
	Flags     []Flag          `json:"-" gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE"`
	Revisions []StoryRevision `json:"-" gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE"`
}

func (s *Story) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsPublished is derived from Status so the two can never disagree.
func (s *Story) IsPublished() bool {
	return s.Status == StoryStatusPublished
}

// UnpublishedStatus returns the state a story falls back to when its
// publication is revoked: generated for AI content, draft otherwise.
func (s *Story) UnpublishedStatus() StoryStatus {
	if s.Source == SourceAI {
		return StoryStatusGenerated
	}
	return StoryStatusDraft
}

// CreateStoryRequest defines the request body for creating a story by hand
type CreateStoryRequest struct {
	Title         string   `json:"title" validate:"required,min=1,max=200"`
	Header        string   `json:"header,omitempty" validate:"omitempty,max=300"`
	Content       string   `json:"content" validate:"required,min=1"`
	CoverImageURL string   `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	IsPublished   bool     `json:"is_published"`
	TagNames      []string `json:"tag_names,omitempty" validate:"omitempty,dive,min=1,max=40"`
}

// UpdateStoryRequest defines the request body for editing a story.
// Pointer fields distinguish "not sent" from "set to empty".
type UpdateStoryRequest struct {
	Title         *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Header        *string  `json:"header,omitempty" validate:"omitempty,max=300"`
	Content       *string  `json:"content,omitempty" validate:"omitempty,min=1"`
	CoverImageURL *string  `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	TagNames      []string `json:"tag_names,omitempty" validate:"omitempty,dive,min=1,max=40"`
}

// GenerateStoryRequest defines the request body for AI story generation
type GenerateStoryRequest struct {
	Prompt        string  `json:"prompt" validate:"required,min=1"`
	Title         string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Genre         string  `json:"genre,omitempty"`
	Tone          string  `json:"tone,omitempty"`
	LengthLabel   string  `json:"length_label,omitempty" validate:"omitempty,oneof=flash short medium long"`
	Summary       string  `json:"summary,omitempty"`
	CoverImageURL string  `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	ModelName     string  `json:"model_name,omitempty"`
	Temperature   float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	PublishNow    bool    `json:"publish_now"`
}

// RegenerateRequest carries reader feedback for an AI regeneration pass
type RegenerateRequest struct {
	Feedback string `json:"feedback" validate:"required,min=1"`
}

// StoryResponse is the enriched story representation returned by the API
type StoryResponse struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Header        string        `json:"header,omitempty"`
	Content       string        `json:"content"`
	CoverImageURL string        `json:"cover_image_url,omitempty"`
	IsPublished   bool          `json:"is_published"`
	IsFlagged     bool          `json:"is_flagged"`
	FlagSource    FlagSource    `json:"flag_source"`
	Status        StoryStatus   `json:"status"`
	Source        ContentSource `json:"source"`
	Version       int           `json:"version"`
	WordsCount    int           `json:"words_count"`
	Tags          []TagSummary  `json:"tags"`
	Author        UserSummary   `json:"author"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	IsLikedByUser      bool `json:"is_liked_by_user"`
	IsBookmarkedByUser bool `json:"is_bookmarked_by_user"`
}

func (s *Story) ToResponse() StoryResponse {
	tags := make([]TagSummary, 0, len(s.Tags))
	for _, t := range s.Tags {
		tags = append(tags, t.ToSummary())
	}
	resp := StoryResponse{
		ID:            s.ID,
		Title:         s.Title,
		Header:        s.Header,
		Content:       s.Content,
		CoverImageURL: s.CoverImageURL,
		IsPublished:   s.IsPublished(),
		IsFlagged:     s.IsFlagged,
		FlagSource:    s.FlagSource,
		Status:        s.Status,
		Source:        s.Source,
		Version:       s.Version,
		WordsCount:    s.WordsCount,
		Tags:          tags,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if s.User != nil {
		resp.Author = s.User.ToSummary()
	} else {
		resp.Author = UserSummary{ID: s.UserID}
	}
	return resp
}

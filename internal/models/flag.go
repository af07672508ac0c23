package models

import (
	"time"

	"github.com/google/uuid"
)

// FlagStatus is the closed set of flag states. Flags open, and are closed
// either one at a time by a moderator (resolved/ignored, or back to open)
// or in bulk by a story approve/reject decision (approved/rejected).
type FlagStatus string

const (
	FlagOpen     FlagStatus = "open"
	FlagResolved FlagStatus = "resolved"
	FlagIgnored  FlagStatus = "ignored"
	FlagApproved FlagStatus = "approved"
	FlagRejected FlagStatus = "rejected"
)

func (s FlagStatus) Valid() bool {
	switch s {
	case FlagOpen, FlagResolved, FlagIgnored, FlagApproved, FlagRejected:
		return true
	}
	return false
}

// ManuallyResolvable reports whether a moderator may set this status on a
// single flag directly. Approved/rejected are reserved for story decisions.
func (s FlagStatus) ManuallyResolvable() bool {
	return s == FlagResolved || s == FlagIgnored
}

// Terminal reports whether the status carries resolver attribution.
func (s FlagStatus) Terminal() bool {
	return s != FlagOpen && s.Valid()
}

// TargetKind discriminates what a flag points at
type TargetKind string

const (
	TargetStory   TargetKind = "story"
	TargetComment TargetKind = "comment"
)

// FlagTarget is a tagged variant: a flag targets exactly one story or one
// comment. The fields are unexported so the only way to build a target is
// through the constructors, which keeps "exactly one set" a type-level
// invariant; the two nullable columns exist only on the stored Flag row.
type FlagTarget struct {
	kind TargetKind
	id   uuid.UUID
}

func StoryTarget(id uuid.UUID) FlagTarget {
	return FlagTarget{kind: TargetStory, id: id}
}

func CommentTarget(id uuid.UUID) FlagTarget {
	return FlagTarget{kind: TargetComment, id: id}
}

func (t FlagTarget) Kind() TargetKind { return t.kind }

func (t FlagTarget) StoryID() (uuid.UUID, bool) {
	if t.kind == TargetStory {
		return t.id, true
	}
	return uuid.Nil, false
}

func (t FlagTarget) CommentID() (uuid.UUID, bool) {
	if t.kind == TargetComment {
		return t.id, true
	}
	return uuid.Nil, false
}

// Flag is a moderation report against a story or a comment (PostgreSQL).
// Rows are append-only: resolution mutates status and attribution but flags
// are never deleted, preserving the moderation trail.
type Flag struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	FlaggedByUserID uint       `json:"flagged_by_user_id" gorm:"index;not null"`
	StoryID         *uuid.UUID `json:"story_id,omitempty" gorm:"type:uuid;index"`
	CommentID       *uuid.UUID `json:"comment_id,omitempty" gorm:"type:uuid;index"`
	Reason          string     `json:"reason" gorm:"type:text;not null"`
	Status          FlagStatus `json:"status" gorm:"size:16;default:open;index"`
	ResolvedBy      *uint      `json:"resolved_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at" gorm:"index"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`

	FlaggedBy *User `json:"flagged_by,omitempty" gorm:"foreignKey:FlaggedByUserID"`
}

// Target reconstructs the tagged variant from the stored columns.
func (f *Flag) Target() FlagTarget {
	if f.StoryID != nil {
		return StoryTarget(*f.StoryID)
	}
	if f.CommentID != nil {
		return CommentTarget(*f.CommentID)
	}
	return FlagTarget{}
}

// CreateFlagRequest defines the request body for reporting content
type CreateFlagRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ResolveFlagRequest defines the request body for resolving a single flag
type ResolveFlagRequest struct {
	Status FlagStatus `json:"status" validate:"required"`
}

// ModerationDecisionRequest carries the approve note or reject reason
type ModerationDecisionRequest struct {
	Note   string `json:"note,omitempty"`
	Reason string `json:"reason,omitempty"`
}

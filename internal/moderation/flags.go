package moderation

import (
	"errors"
	"strings"
	"time"

	"github.com/storyloom/backend/internal/models"
	"github.com/storyloom/backend/internal/repositories"
	"gorm.io/gorm"
)

// CreateFlag reports the targeted story or comment. The target must exist
// and the reason must be non-empty after trimming; flags always open.
func (e *Engine) CreateFlag(actor Actor, target models.FlagTarget, reason string) (*models.Flag, error) {
	flag := &models.Flag{
		FlaggedByUserID: actor.ID,
		Status:          models.FlagOpen,
	}

	switch target.Kind() {
	case models.TargetStory:
		storyID, _ := target.StoryID()
		if _, err := getStory(e.db, storyID); err != nil {
			return nil, err
		}
		id := storyID
		flag.StoryID = &id
	case models.TargetComment:
		commentID, _ := target.CommentID()
		var comment models.Comment
		err := e.db.Where("id = ?", commentID).First(&comment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		id := commentID
		flag.CommentID = &id
	default:
		return nil, validationf("flag target is required")
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, validationf("reason is required")
	}
	flag.Reason = reason

	if err := repositories.NewPostgresFlagRepository(e.db).CreateFlag(flag); err != nil {
		return nil, err
	}
	return flag, nil
}

// ListOpenFlags returns all open flags, newest first. Moderator-only.
func (e *Engine) ListOpenFlags(actor Actor) ([]models.Flag, error) {
	if !actor.Elevated() {
		return nil, ErrNotAuthorized
	}
	return repositories.NewPostgresFlagRepository(e.db).ListOpen()
}

// ResolveFlag transitions one flag by hand. Manual resolution allows
// resolved and ignored; open re-opens the flag and clears attribution.
// Resolving to a status the flag already holds is a no-op, preserving the
// resolver and timestamp already set.
func (e *Engine) ResolveFlag(actor Actor, flagID uint, status models.FlagStatus) (*models.Flag, error) {
	if !actor.Elevated() {
		return nil, ErrNotAuthorized
	}
	if status != models.FlagOpen && !status.ManuallyResolvable() {
		return nil, validationf("invalid status %q", status)
	}

	flags := repositories.NewPostgresFlagRepository(e.db)
	flag, err := flags.GetFlagByID(flagID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if flag.Status == status {
		return flag, nil
	}

	if status == models.FlagOpen {
		flag.Status = models.FlagOpen
		flag.ResolvedBy = nil
		flag.ResolvedAt = nil
	} else {
		now := time.Now().UTC()
		resolver := actor.ID
		flag.Status = status
		flag.ResolvedBy = &resolver
		flag.ResolvedAt = &now
	}

	if err := flags.UpdateFlag(flag); err != nil {
		return nil, err
	}
	return flag, nil
}

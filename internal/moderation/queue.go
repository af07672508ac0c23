package moderation

import (
	"github.com/storyloom/backend/internal/models"
)

// QueueParams filters the moderation queue. When Status is nil the queue
// defaults to flagged stories only, not all stories; a provided Status
// overrides that default and filters strictly by lifecycle status. AuthorID
// and Tag compose with AND semantics.
type QueueParams struct {
	Status   *models.StoryStatus
	AuthorID *uint
	Tag      string
	Limit    int
	Offset   int
}

// Queue is the read-side filter over stories used by moderator tooling.
// Soft-deleted stories are excluded unconditionally; ordering is newest
// first and Total reflects the filtered set before pagination.
func (e *Engine) Queue(actor Actor, p QueueParams) (int64, []models.Story, error) {
	if !actor.Elevated() {
		return 0, nil, ErrNotAuthorized
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
	if p.Status != nil && !p.Status.Valid() {
		return 0, nil, validationf("invalid status filter %q", *p.Status)
	}

	q := e.db.Model(&models.Story{})
	if p.Status != nil {
		q = q.Where("stories.status = ?", *p.Status)
	} else {
		q = q.Where("stories.is_flagged = ?", true)
	}
	if p.AuthorID != nil {
		q = q.Where("stories.user_id = ?", *p.AuthorID)
	}
	if p.Tag != "" {
		q = q.Joins("JOIN story_tags ON story_tags.story_id = stories.id").
			Joins("JOIN tags ON tags.id = story_tags.tag_id").
			Where("tags.name = ?", p.Tag)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var stories []models.Story
	err := q.Preload("Tags").Preload("User").
		Order("stories.created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&stories).Error
	if err != nil {
		return 0, nil, err
	}
	return total, stories, nil
}

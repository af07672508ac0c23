package repositories

import (
	"github.com/google/uuid"
	"github.com/storyloom/backend/internal/models"
	"gorm.io/gorm"
)

// StoryRepository defines the interface for story data operations
type StoryRepository interface {
	CreateStory(story *models.Story) error
	GetStoryByID(id uuid.UUID) (*models.Story, error)
	UpdateStory(story *models.Story) error
	SoftDeleteStory(story *models.Story) error
	ListPublished(limit, offset int, tag string, authorID *uint) (int64, []models.Story, error)
	ListAll(limit, offset int, tag string, authorID *uint) (int64, []models.Story, error)
	ListByUser(userID uint, limit, offset int) (int64, []models.Story, error)
	ListRevisions(storyID uuid.UUID) ([]models.StoryRevision, error)
	CreateRevision(rev *models.StoryRevision) error
	ReplaceTags(story *models.Story, tags []models.Tag) error
}

// PostgresStoryRepository implements StoryRepository for PostgreSQL
type PostgresStoryRepository struct {
	db *gorm.DB
}

// NewPostgresStoryRepository creates a new PostgresStoryRepository
func NewPostgresStoryRepository(db *gorm.DB) *PostgresStoryRepository {
	return &PostgresStoryRepository{db: db}
}

// CreateStory creates a new story in PostgreSQL
func (r *PostgresStoryRepository) CreateStory(story *models.Story) error {
	return r.db.Create(story).Error
}

// GetStoryByID retrieves a story with tags and author. Soft-deleted rows
// are excluded by GORM's DeletedAt handling.
func (r *PostgresStoryRepository) GetStoryByID(id uuid.UUID) (*models.Story, error) {
	var story models.Story
	if err := r.db.Preload("Tags").Preload("User").Preload("User.Role").
		Where("id = ?", id).First(&story).Error; err != nil {
		return nil, err
	}
	return &story, nil
}

// UpdateStory saves an existing story
func (r *PostgresStoryRepository) UpdateStory(story *models.Story) error {
	return r.db.Save(story).Error
}

// SoftDeleteStory marks the story deleted; it disappears from all listings
func (r *PostgresStoryRepository) SoftDeleteStory(story *models.Story) error {
	return r.db.Delete(story).Error
}

func (r *PostgresStoryRepository) list(q *gorm.DB, limit, offset int, tag string, authorID *uint) (int64, []models.Story, error) {
	if authorID != nil {
		q = q.Where("stories.user_id = ?", *authorID)
	}
	if tag != "" {
		q = q.Joins("JOIN story_tags ON story_tags.story_id = stories.id").
			Joins("JOIN tags ON tags.id = story_tags.tag_id").
			Where("tags.name = ?", tag)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var stories []models.Story
	err := q.Preload("Tags").Preload("User").
		Order("stories.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&stories).Error
	return total, stories, err
}

// ListPublished returns published stories, newest first
func (r *PostgresStoryRepository) ListPublished(limit, offset int, tag string, authorID *uint) (int64, []models.Story, error) {
	q := r.db.Model(&models.Story{}).Where("stories.status = ?", models.StoryStatusPublished)
	return r.list(q, limit, offset, tag, authorID)
}

// ListAll returns stories regardless of publication state (elevated callers)
func (r *PostgresStoryRepository) ListAll(limit, offset int, tag string, authorID *uint) (int64, []models.Story, error) {
	return r.list(r.db.Model(&models.Story{}), limit, offset, tag, authorID)
}

// ListByUser returns a user's own stories, newest first
func (r *PostgresStoryRepository) ListByUser(userID uint, limit, offset int) (int64, []models.Story, error) {
	q := r.db.Model(&models.Story{}).Where("stories.user_id = ?", userID)
	return r.list(q, limit, offset, "", nil)
}

// ListRevisions returns a story's revisions in version order
func (r *PostgresStoryRepository) ListRevisions(storyID uuid.UUID) ([]models.StoryRevision, error) {
	var revs []models.StoryRevision
	if err := r.db.Where("story_id = ?", storyID).Order("version ASC").Find(&revs).Error; err != nil {
		return nil, err
	}
	return revs, nil
}

// CreateRevision appends a revision row
func (r *PostgresStoryRepository) CreateRevision(rev *models.StoryRevision) error {
	return r.db.Create(rev).Error
}

// ReplaceTags replaces the story's tag associations
func (r *PostgresStoryRepository) ReplaceTags(story *models.Story, tags []models.Tag) error {
	return r.db.Model(story).Association("Tags").Replace(tags)
}

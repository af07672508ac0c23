package repositories

import (
	"github.com/google/uuid"
	"github.com/storyloom/backend/internal/models"
	"gorm.io/gorm"
)

// InteractionRepository defines the interface for likes, bookmarks and views
type InteractionRepository interface {
	HasLiked(userID uint, storyID uuid.UUID) (bool, error)
	CreateLike(like *models.Like) error
	DeleteLike(userID uint, storyID uuid.UUID) error
	HasBookmarked(userID uint, storyID uuid.UUID) (bool, error)
	CreateBookmark(bookmark *models.Bookmark) error
	DeleteBookmark(userID uint, storyID uuid.UUID) error
	ListBookmarkedStories(userID uint) ([]models.Story, error)
	RecordView(view *models.ViewHistory) error
}

// PostgresInteractionRepository implements InteractionRepository for PostgreSQL
type PostgresInteractionRepository struct {
	db *gorm.DB
}

// NewPostgresInteractionRepository creates a new PostgresInteractionRepository
func NewPostgresInteractionRepository(db *gorm.DB) *PostgresInteractionRepository {
	return &PostgresInteractionRepository{db: db}
}

// HasLiked checks whether the user already liked the story
func (r *PostgresInteractionRepository) HasLiked(userID uint, storyID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Count(&count).Error
	return count > 0, err
}

// CreateLike creates a like row
func (r *PostgresInteractionRepository) CreateLike(like *models.Like) error {
	return r.db.Create(like).Error
}

// DeleteLike removes a like row
func (r *PostgresInteractionRepository) DeleteLike(userID uint, storyID uuid.UUID) error {
	return r.db.Where("user_id = ? AND story_id = ?", userID, storyID).Delete(&models.Like{}).Error
}

// HasBookmarked checks whether the user already bookmarked the story
func (r *PostgresInteractionRepository) HasBookmarked(userID uint, storyID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Bookmark{}).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Count(&count).Error
	return count > 0, err
}

// CreateBookmark creates a bookmark row
func (r *PostgresInteractionRepository) CreateBookmark(bookmark *models.Bookmark) error {
	return r.db.Create(bookmark).Error
}

// DeleteBookmark removes a bookmark row
func (r *PostgresInteractionRepository) DeleteBookmark(userID uint, storyID uuid.UUID) error {
	return r.db.Where("user_id = ? AND story_id = ?", userID, storyID).Delete(&models.Bookmark{}).Error
}

// ListBookmarkedStories returns the stories the user has bookmarked
func (r *PostgresInteractionRepository) ListBookmarkedStories(userID uint) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.Model(&models.Story{}).
		Joins("JOIN bookmarks ON bookmarks.story_id = stories.id").
		Where("bookmarks.user_id = ?", userID).
		Preload("Tags").Preload("User").
		Order("bookmarks.created_at DESC").
		Find(&stories).Error
	return stories, err
}

// RecordView appends a view history row
func (r *PostgresInteractionRepository) RecordView(view *models.ViewHistory) error {
	return r.db.Create(view).Error
}

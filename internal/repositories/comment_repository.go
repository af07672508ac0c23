package repositories

import (
	"github.com/google/uuid"
	"github.com/storyloom/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uuid.UUID) (*models.Comment, error)
	GetCommentsByStoryID(storyID uuid.UUID, limit, offset int) (int64, []models.Comment, error)
	DeleteComment(id uuid.UUID) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByStoryID retrieves comments for a story, newest first
func (r *PostgresCommentRepository) GetCommentsByStoryID(storyID uuid.UUID, limit, offset int) (int64, []models.Comment, error) {
	q := r.db.Model(&models.Comment{}).Where("story_id = ?", storyID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var comments []models.Comment
	err := q.Preload("User").Preload("User.Role").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	return total, comments, err
}

// DeleteComment deletes a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) DeleteComment(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.Comment{}).Error
}

package repositories

import (
	"github.com/google/uuid"
	"github.com/storyloom/backend/internal/models"
	"gorm.io/gorm"
)

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	ListTags() ([]models.Tag, error)
	GetTagByID(id uuid.UUID) (*models.Tag, error)
	GetTagByName(name string) (*models.Tag, error)
	CreateTag(tag *models.Tag) error
	UpdateTag(tag *models.Tag) error
	DeleteTag(id uuid.UUID) error
	FindOrCreateByNames(names []string) ([]models.Tag, error)
}

// PostgresTagRepository implements TagRepository for PostgreSQL
type PostgresTagRepository struct {
	db *gorm.DB
}

// NewPostgresTagRepository creates a new PostgresTagRepository
func NewPostgresTagRepository(db *gorm.DB) *PostgresTagRepository {
	return &PostgresTagRepository{db: db}
}

// ListTags returns all tags ordered by name
func (r *PostgresTagRepository) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetTagByID retrieves a tag by ID
func (r *PostgresTagRepository) GetTagByID(id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetTagByName retrieves a tag by its unique name
func (r *PostgresTagRepository) GetTagByName(name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// CreateTag creates a new tag
func (r *PostgresTagRepository) CreateTag(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

// UpdateTag saves an existing tag
func (r *PostgresTagRepository) UpdateTag(tag *models.Tag) error {
	return r.db.Save(tag).Error
}

// DeleteTag deletes a tag by ID
func (r *PostgresTagRepository) DeleteTag(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.Tag{}).Error
}

// FindOrCreateByNames resolves tag names to rows, creating missing ones
func (r *PostgresTagRepository) FindOrCreateByNames(names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		err := r.db.Where("name = ?", name).First(&tag).Error
		if err == gorm.ErrRecordNotFound {
			tag = models.Tag{Name: name}
			err = r.db.Create(&tag).Error
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

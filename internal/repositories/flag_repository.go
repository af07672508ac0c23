package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/storyloom/backend/internal/models"
	"gorm.io/gorm"
)

// FlagRepository defines the storage interface for moderation flags.
// Flags are append-only: rows are created and transitioned, never removed.
type FlagRepository interface {
	CreateFlag(flag *models.Flag) error
	GetFlagByID(id uint) (*models.Flag, error)
	UpdateFlag(flag *models.Flag) error
	ListOpen() ([]models.Flag, error)
	ListOpenForStory(storyID uuid.UUID) ([]models.Flag, error)
	CloseAllOpenForStory(storyID uuid.UUID, resolverID uint, decision models.FlagStatus, note string) ([]models.Flag, error)
	CountOpenForStory(storyID uuid.UUID) (int64, error)
}

// PostgresFlagRepository implements FlagRepository for PostgreSQL
type PostgresFlagRepository struct {
	db *gorm.DB
}

// NewPostgresFlagRepository creates a new PostgresFlagRepository
func NewPostgresFlagRepository(db *gorm.DB) *PostgresFlagRepository {
	return &PostgresFlagRepository{db: db}
}

// CreateFlag creates a flag row; status defaults to open
func (r *PostgresFlagRepository) CreateFlag(flag *models.Flag) error {
	return r.db.Create(flag).Error
}

// GetFlagByID retrieves a flag by ID
func (r *PostgresFlagRepository) GetFlagByID(id uint) (*models.Flag, error) {
	var flag models.Flag
	if err := r.db.First(&flag, id).Error; err != nil {
		return nil, err
	}
	return &flag, nil
}

// UpdateFlag saves an existing flag
func (r *PostgresFlagRepository) UpdateFlag(flag *models.Flag) error {
	return r.db.Save(flag).Error
}

// ListOpen returns all open flags, newest first, with reporter attached
func (r *PostgresFlagRepository) ListOpen() ([]models.Flag, error) {
	var flags []models.Flag
	err := r.db.Preload("FlaggedBy").Preload("FlaggedBy.Role").
		Where("status = ?", models.FlagOpen).
		Order("created_at DESC").
		Find(&flags).Error
	return flags, err
}

// ListOpenForStory returns the open flags on one story
func (r *PostgresFlagRepository) ListOpenForStory(storyID uuid.UUID) ([]models.Flag, error) {
	var flags []models.Flag
	err := r.db.Where("story_id = ? AND status = ?", storyID, models.FlagOpen).
		Find(&flags).Error
	return flags, err
}

// CloseAllOpenForStory transitions every open flag on a story to decision,
// stamping resolver and resolution time, and appending the moderator note
// to each flag's reason when present. Used only by story approve/reject.
func (r *PostgresFlagRepository) CloseAllOpenForStory(storyID uuid.UUID, resolverID uint, decision models.FlagStatus, note string) ([]models.Flag, error) {
	flags, err := r.ListOpenForStory(storyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for i := range flags {
		f := &flags[i]
		f.Status = decision
		f.ResolvedBy = &resolverID
		f.ResolvedAt = &now
		if note != "" {
			f.Reason = f.Reason + " | decision_note: " + note
		}
		if err := r.db.Save(f).Error; err != nil {
			return nil, err
		}
	}
	return flags, nil
}

// CountOpenForStory counts open flags on a story
func (r *PostgresFlagRepository) CountOpenForStory(storyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Flag{}).
		Where("story_id = ? AND status = ?", storyID, models.FlagOpen).
		Count(&count).Error
	return count, err
}

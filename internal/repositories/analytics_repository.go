package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/storyloom/backend/internal/models"
	"gorm.io/gorm"
)

// DailyMetric is one point of a dense per-day series
type DailyMetric struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// TopStory pairs a story with its view count
type TopStory struct {
	StoryID uuid.UUID `json:"story_id"`
	Title   string    `json:"title"`
	Views   int64     `json:"views"`
}

// AnalyticsRepository defines the read-side metric queries used by the
// admin dashboard
type AnalyticsRepository interface {
	StoriesDaily(days int) ([]DailyMetric, error)
	UsersDaily(days int) ([]DailyMetric, error)
	FlagsBreakdown() (map[string]int64, error)
	TopViewedStories(limit int) ([]TopStory, error)
}

// PostgresAnalyticsRepository implements AnalyticsRepository for PostgreSQL
type PostgresAnalyticsRepository struct {
	db *gorm.DB
}

// NewPostgresAnalyticsRepository creates a new PostgresAnalyticsRepository
func NewPostgresAnalyticsRepository(db *gorm.DB) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{db: db}
}

type dayCount struct {
	Day   string
	Count int64
}

// fillDaily turns sparse per-day rows into a dense series covering the last
// `days` days, zero-filling missing days.
func fillDaily(rows []dayCount, days int) []DailyMetric {
	byDay := make(map[string]int64, len(rows))
	for _, r := range rows {
		// dates may come back as "2006-01-02" or with a time suffix
		key := r.Day
		if len(key) > 10 {
			key = key[:10]
		}
		byDay[key] = r.Count
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -(days - 1))
	out := make([]DailyMetric, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		out = append(out, DailyMetric{Day: key, Count: byDay[key]})
	}
	return out
}

func (r *PostgresAnalyticsRepository) countsByDay(table string, days int) ([]DailyMetric, error) {
	since := time.Now().UTC().AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)

	var rows []dayCount
	err := r.db.Table(table).
		Select("DATE(created_at) AS day, COUNT(id) AS count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return fillDaily(rows, days), nil
}

// StoriesDaily returns stories created per day over the last `days` days
func (r *PostgresAnalyticsRepository) StoriesDaily(days int) ([]DailyMetric, error) {
	return r.countsByDay("stories", days)
}

// UsersDaily returns users registered per day over the last `days` days
func (r *PostgresAnalyticsRepository) UsersDaily(days int) ([]DailyMetric, error) {
	return r.countsByDay("users", days)
}

// FlagsBreakdown returns flag counts per status plus a total
func (r *PostgresAnalyticsRepository) FlagsBreakdown() (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	err := r.db.Model(&models.Flag{}).
		Select("status, COUNT(id) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := map[string]int64{"total": 0}
	for _, row := range rows {
		out[row.Status] = row.Count
		out["total"] += row.Count
	}
	return out, nil
}

// TopViewedStories returns the most viewed live stories
func (r *PostgresAnalyticsRepository) TopViewedStories(limit int) ([]TopStory, error) {
	var rows []TopStory
	err := r.db.Model(&models.ViewHistory{}).
		Select("view_histories.story_id AS story_id, stories.title AS title, COUNT(view_histories.id) AS views").
		Joins("JOIN stories ON stories.id = view_histories.story_id AND stories.deleted_at IS NULL").
		Group("view_histories.story_id, stories.title").
		Order("views DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

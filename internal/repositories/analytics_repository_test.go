package repositories

import (
	"testing"
	"time"

	"github.com/storyloom/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoriesDailyDenseSeries(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.AutoMigrate(&models.ViewHistory{}))
	author := testUser(t, db, "alice")

	today := testStory(t, db, author.ID, "Today", models.StoryStatusPublished)
	require.NoError(t, db.Model(today).Update("created_at", time.Now().UTC()).Error)
	yesterday := testStory(t, db, author.ID, "Yesterday", models.StoryStatusPublished)
	require.NoError(t, db.Model(yesterday).Update("created_at", time.Now().UTC().AddDate(0, 0, -1)).Error)

	series, err := NewPostgresAnalyticsRepository(db).StoriesDaily(7)
	require.NoError(t, err)
	require.Len(t, series, 7)

	var total int64
	for _, p := range series {
		total += p.Count
	}
	assert.EqualValues(t, 2, total)
	assert.EqualValues(t, 1, series[6].Count)
	assert.EqualValues(t, 1, series[5].Count)
	assert.EqualValues(t, 0, series[0].Count)
}

func TestFlagsBreakdown(t *testing.T) {
	db := testDB(t)
	author := testUser(t, db, "alice")
	story := testStory(t, db, author.ID, "Contested", models.StoryStatusDraft)

	repo := NewPostgresFlagRepository(db)
	for _, status := range []models.FlagStatus{models.FlagOpen, models.FlagOpen, models.FlagResolved} {
		require.NoError(t, repo.CreateFlag(&models.Flag{
			FlaggedByUserID: author.ID,
			StoryID:         &story.ID,
			Reason:          "r",
			Status:          status,
		}))
	}

	breakdown, err := NewPostgresAnalyticsRepository(db).FlagsBreakdown()
	require.NoError(t, err)
	assert.EqualValues(t, 2, breakdown["open"])
	assert.EqualValues(t, 1, breakdown["resolved"])
	assert.EqualValues(t, 3, breakdown["total"])
}

func TestTopViewedStoriesSkipsDeleted(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.AutoMigrate(&models.ViewHistory{}))
	author := testUser(t, db, "alice")

	popular := testStory(t, db, author.ID, "Popular", models.StoryStatusPublished)
	quiet := testStory(t, db, author.ID, "Quiet", models.StoryStatusPublished)
	removed := testStory(t, db, author.ID, "Removed", models.StoryStatusPublished)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.ViewHistory{StoryID: popular.ID}).Error)
	}
	require.NoError(t, db.Create(&models.ViewHistory{StoryID: quiet.ID}).Error)
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.ViewHistory{StoryID: removed.ID}).Error)
	}
	require.NoError(t, db.Delete(removed).Error)

	top, err := NewPostgresAnalyticsRepository(db).TopViewedStories(10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Popular", top[0].Title)
	assert.EqualValues(t, 3, top[0].Views)
	assert.Equal(t, "Quiet", top[1].Title)
}

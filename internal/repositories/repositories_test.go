package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storyloom/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Tag{},
		&models.Story{},
		&models.StoryRevision{},
		&models.Flag{},
		&models.Comment{},
		&models.Notification{},
	))
	return db
}

func testUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	role := models.Role{Name: "user-" + username}
	require.NoError(t, db.Create(&role).Error)
	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "x",
		RoleID:       role.ID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func testStory(t *testing.T, db *gorm.DB, userID uint, title string, status models.StoryStatus) *models.Story {
	t.Helper()
	story := &models.Story{
		UserID:  userID,
		Title:   title,
		Content: "body of " + title,
		Status:  status,
		Source:  models.SourceUser,
	}
	require.NoError(t, db.Create(story).Error)
	return story
}

func TestCloseAllOpenForStory(t *testing.T) {
	db := testDB(t)
	author := testUser(t, db, "alice")
	reporter := testUser(t, db, "bob")
	mod := testUser(t, db, "mia")

	story := testStory(t, db, author.ID, "Contested", models.StoryStatusDraft)
	other := testStory(t, db, author.ID, "Untouched", models.StoryStatusDraft)

	repo := NewPostgresFlagRepository(db)
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.CreateFlag(&models.Flag{
			FlaggedByUserID: reporter.ID,
			StoryID:         &story.ID,
			Reason:          fmt.Sprintf("reason %d", i),
			Status:          models.FlagOpen,
		}))
	}
	// an already-resolved flag must not be touched
	resolvedAt := time.Now().UTC()
	require.NoError(t, repo.CreateFlag(&models.Flag{
		FlaggedByUserID: reporter.ID,
		StoryID:         &story.ID,
		Reason:          "old complaint",
		Status:          models.FlagResolved,
		ResolvedBy:      &mod.ID,
		ResolvedAt:      &resolvedAt,
	}))
	// nor a flag on another story
	require.NoError(t, repo.CreateFlag(&models.Flag{
		FlaggedByUserID: reporter.ID,
		StoryID:         &other.ID,
		Reason:          "unrelated",
		Status:          models.FlagOpen,
	}))

	closed, err := repo.CloseAllOpenForStory(story.ID, mod.ID, models.FlagRejected, "policy violation")
	require.NoError(t, err)
	require.Len(t, closed, 2)
	for _, f := range closed {
		assert.Equal(t, models.FlagRejected, f.Status)
		require.NotNil(t, f.ResolvedBy)
		assert.Equal(t, mod.ID, *f.ResolvedBy)
		assert.NotNil(t, f.ResolvedAt)
		assert.Contains(t, f.Reason, "decision_note: policy violation")
	}

	count, err := repo.CountOpenForStory(story.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	count, err = repo.CountOpenForStory(other.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	var untouched models.Flag
	require.NoError(t, db.Where("reason = ?", "old complaint").First(&untouched).Error)
	assert.Equal(t, models.FlagResolved, untouched.Status)
}

func TestCloseAllOpenForStoryWithoutNote(t *testing.T) {
	db := testDB(t)
	author := testUser(t, db, "alice")
	mod := testUser(t, db, "mia")
	story := testStory(t, db, author.ID, "Contested", models.StoryStatusDraft)

	repo := NewPostgresFlagRepository(db)
	require.NoError(t, repo.CreateFlag(&models.Flag{
		FlaggedByUserID: author.ID,
		StoryID:         &story.ID,
		Reason:          "original reason",
		Status:          models.FlagOpen,
	}))

	closed, err := repo.CloseAllOpenForStory(story.ID, mod.ID, models.FlagApproved, "")
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, "original reason", closed[0].Reason)
}

func TestListOpenNewestFirst(t *testing.T) {
	db := testDB(t)
	author := testUser(t, db, "alice")
	story := testStory(t, db, author.ID, "Contested", models.StoryStatusDraft)

	older := models.Flag{
		FlaggedByUserID: author.ID, StoryID: &story.ID,
		Reason: "first", Status: models.FlagOpen,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	newer := models.Flag{
		FlaggedByUserID: author.ID, StoryID: &story.ID,
		Reason: "second", Status: models.FlagOpen,
		CreatedAt: time.Now().Add(-1 * time.Hour),
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	flags, err := NewPostgresFlagRepository(db).ListOpen()
	require.NoError(t, err)
	require.Len(t, flags, 2)
	assert.Equal(t, "second", flags[0].Reason)
	require.NotNil(t, flags[0].FlaggedBy)
	assert.Equal(t, "alice", flags[0].FlaggedBy.Username)
}

func TestNotificationMarkAsReadIdempotent(t *testing.T) {
	db := testDB(t)
	recipient := testUser(t, db, "alice")
	other := testUser(t, db, "bob")

	repo := NewPostgresNotificationRepository(db)
	n := &models.Notification{
		RecipientID: recipient.ID,
		Action:      models.ActionLiked,
		TargetType:  "story",
		TargetID:    uuid.NewString(),
	}
	require.NoError(t, repo.CreateNotification(n))

	count, err := repo.GetUnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// someone else's ID must not mark it
	require.NoError(t, repo.MarkAsRead(n.ID, other.ID))
	count, err = repo.GetUnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, repo.MarkAsRead(n.ID, recipient.ID))
	require.NoError(t, repo.MarkAsRead(n.ID, recipient.ID)) // second call is a no-op
	count, err = repo.GetUnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestNotificationListAndMarkAll(t *testing.T) {
	db := testDB(t)
	recipient := testUser(t, db, "alice")

	repo := NewPostgresNotificationRepository(db)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateNotification(&models.Notification{
			RecipientID: recipient.ID,
			Action:      models.ActionCommented,
			TargetType:  "story",
			TargetID:    uuid.NewString(),
		}))
	}

	list, total, err := repo.GetByRecipientID(recipient.ID, 1, 2, false)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, list, 2)

	require.NoError(t, repo.MarkAllAsRead(recipient.ID))
	_, total, err = repo.GetByRecipientID(recipient.ID, 1, 10, true)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestFindOrCreateByNamesReusesExisting(t *testing.T) {
	db := testDB(t)
	repo := NewPostgresTagRepository(db)

	first, err := repo.FindOrCreateByNames([]string{"horror", "noir"})
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := repo.FindOrCreateByNames([]string{"noir", "comedy"})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, first[1].ID, second[0].ID)

	tags, err := repo.ListTags()
	require.NoError(t, err)
	assert.Len(t, tags, 3)
}

func TestListPublishedFiltersAndExcludesDeleted(t *testing.T) {
	db := testDB(t)
	author := testUser(t, db, "alice")
	other := testUser(t, db, "bob")

	published := testStory(t, db, author.ID, "Live", models.StoryStatusPublished)
	testStory(t, db, author.ID, "Draft", models.StoryStatusDraft)
	testStory(t, db, other.ID, "Other Live", models.StoryStatusPublished)
	deleted := testStory(t, db, author.ID, "Gone", models.StoryStatusPublished)
	require.NoError(t, db.Delete(deleted).Error)

	repo := NewPostgresStoryRepository(db)
	total, stories, err := repo.ListPublished(10, 0, "", &author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, stories, 1)
	assert.Equal(t, published.ID, stories[0].ID)

	total, _, err = repo.ListPublished(10, 0, "", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestListPublishedByTag(t *testing.T) {
	db := testDB(t)
	author := testUser(t, db, "alice")

	tagged := testStory(t, db, author.ID, "Tagged", models.StoryStatusPublished)
	testStory(t, db, author.ID, "Untagged", models.StoryStatusPublished)

	tags, err := NewPostgresTagRepository(db).FindOrCreateByNames([]string{"horror"})
	require.NoError(t, err)
	require.NoError(t, NewPostgresStoryRepository(db).ReplaceTags(tagged, tags))

	total, stories, err := NewPostgresStoryRepository(db).ListPublished(10, 0, "horror", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, stories, 1)
	assert.Equal(t, tagged.ID, stories[0].ID)
}

func TestListRevisionsVersionOrder(t *testing.T) {
	db := testDB(t)
	author := testUser(t, db, "alice")
	story := testStory(t, db, author.ID, "Versioned", models.StoryStatusGenerated)

	repo := NewPostgresStoryRepository(db)
	for _, v := range []int{2, 1, 3} {
		require.NoError(t, repo.CreateRevision(&models.StoryRevision{
			StoryID: story.ID,
			UserID:  author.ID,
			Version: v,
			Content: fmt.Sprintf("draft %d", v),
		}))
	}

	revs, err := repo.ListRevisions(story.ID)
	require.NoError(t, err)
	require.Len(t, revs, 3)
	for i, rev := range revs {
		assert.Equal(t, i+1, rev.Version)
	}
}

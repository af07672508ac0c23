package moderation

import (
	"testing"
	"time"

	"github.com/storyloom/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDefaultsToFlaggedStories(t *testing.T) {
	e, db := newTestEngine(t, nil)
	author := seedUser(t, db, "alice", models.RoleCreator)
	mod := seedUser(t, db, "mia", models.RoleModerator)
	actor := actorFor(author, models.RoleCreator)

	clean, err := e.CreateStory(actor, models.CreateStoryRequest{
		Title:       "Clean",
		Content:     "Nothing to see.",
		IsPublished: true,
	})
	require.NoError(t, err)

	flagged, err := e.CreateStory(actor, models.CreateStoryRequest{
		Title:   "Dirty",
		Content: "complete crap",
	})
	require.NoError(t, err)

	total, stories, err := e.Queue(actorFor(mod, models.RoleModerator), QueueParams{})
	require.NoError(t, err)

	assert.EqualValues(t, 1, total)
	require.Len(t, stories, 1)
	assert.Equal(t, flagged.ID, stories[0].ID)
	assert.NotEqual(t, clean.ID, stories[0].ID)
}

func TestQueueStatusFilterOverridesDefault(t *testing.T) {
	e, db := newTestEngine(t, nil)
	author := seedUser(t, db, "alice", models.RoleCreator)
	mod := seedUser(t, db, "mia", models.RoleModerator)
	actor := actorFor(author, models.RoleCreator)

	published, err := e.CreateStory(actor, models.CreateStoryRequest{
		Title:       "Live",
		Content:     "Nothing to see.",
		IsPublished: true,
	})
	require.NoError(t, err)
	_, err = e.CreateStory(actor, models.CreateStoryRequest{
		Title:   "Dirty",
		Content: "complete crap",
	})
	require.NoError(t, err)

	status := models.StoryStatusPublished
	total, stories, err := e.Queue(actorFor(mod, models.RoleModerator), QueueParams{Status: &status})
	require.NoError(t, err)

	assert.EqualValues(t, 1, total)
	require.Len(t, stories, 1)
	assert.Equal(t, published.ID, stories[0].ID)
}

func TestQueueRejectsInvalidStatus(t *testing.T) {
	e, db := newTestEngine(t, nil)
	mod := seedUser(t, db, "mia", models.RoleModerator)

	bogus := models.StoryStatus("archived")
	_, _, err := e.Queue(actorFor(mod, models.RoleModerator), QueueParams{Status: &bogus})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestQueueAuthorAndTagFiltersCompose(t *testing.T) {
	e, db := newTestEngine(t, nil)
	alice := seedUser(t, db, "alice", models.RoleCreator)
	bob := seedUser(t, db, "bob", models.RoleCreator)
	mod := seedUser(t, db, "mia", models.RoleModerator)

	match, err := e.CreateStory(actorFor(alice, models.RoleCreator), models.CreateStoryRequest{
		Title:    "Alice Horror",
		Content:  "what utter crap",
		TagNames: []string{"horror"},
	})
	require.NoError(t, err)
	_, err = e.CreateStory(actorFor(alice, models.RoleCreator), models.CreateStoryRequest{
		Title:    "Alice Romance",
		Content:  "more crap again",
		TagNames: []string{"romance"},
	})
	require.NoError(t, err)
	_, err = e.CreateStory(actorFor(bob, models.RoleCreator), models.CreateStoryRequest{
		Title:    "Bob Horror",
		Content:  "yet more crap",
		TagNames: []string{"horror"},
	})
	require.NoError(t, err)

	total, stories, err := e.Queue(actorFor(mod, models.RoleModerator), QueueParams{
		AuthorID: &alice.ID,
		Tag:      "horror",
	})
	require.NoError(t, err)

	assert.EqualValues(t, 1, total)
	require.Len(t, stories, 1)
	assert.Equal(t, match.ID, stories[0].ID)
}

func TestQueueOrdersNewestFirstAndPaginates(t *testing.T) {
	e, db := newTestEngine(t, nil)
	author := seedUser(t, db, "alice", models.RoleCreator)
	mod := seedUser(t, db, "mia", models.RoleModerator)

	older := models.Story{
		UserID: author.ID, Title: "Older", Content: "crap", IsFlagged: true,
		Status: models.StoryStatusDraft, Source: models.SourceUser,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	newer := models.Story{
		UserID: author.ID, Title: "Newer", Content: "crap", IsFlagged: true,
		Status: models.StoryStatusDraft, Source: models.SourceUser,
		CreatedAt: time.Now().Add(-1 * time.Hour),
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	total, page, err := e.Queue(actorFor(mod, models.RoleModerator), QueueParams{Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Newer", page[0].Title)

	_, page, err = e.Queue(actorFor(mod, models.RoleModerator), QueueParams{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Older", page[0].Title)
}

func TestQueueRequiresElevation(t *testing.T) {
	e, db := newTestEngine(t, nil)
	user := seedUser(t, db, "bob", models.RoleUser)

	_, _, err := e.Queue(actorFor(user, models.RoleUser), QueueParams{})
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

package moderation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/storyloom/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFlagOnStory(t *testing.T) {
	e, db := newTestEngine(t, nil)
	author := seedUser(t, db, "alice", models.RoleCreator)
	reader := seedUser(t, db, "bob", models.RoleUser)

	story, err := e.CreateStory(actorFor(author, models.RoleCreator), models.CreateStoryRequest{
		Title:       "Fine Story",
		Content:     "Nothing objectionable.",
		IsPublished: true,
	})
	require.NoError(t, err)

	flag, err := e.CreateFlag(actorFor(reader, models.RoleUser), models.StoryTarget(story.ID), "  misleading  ")
	require.NoError(t, err)

	assert.Equal(t, models.FlagOpen, flag.Status)
	assert.Equal(t, reader.ID, flag.FlaggedByUserID)
	assert.Equal(t, "misleading", flag.Reason)
	require.NotNil(t, flag.StoryID)
	assert.Equal(t, story.ID, *flag.StoryID)
	assert.Nil(t, flag.CommentID)

	// a reader report does not force the story out of publication
	var reloaded models.Story
	require.NoError(t, db.First(&reloaded, "id = ?", story.ID).Error)
	assert.False(t, reloaded.IsFlagged)
	assert.Equal(t, models.StoryStatusPublished, reloaded.Status)
}

func TestCreateFlagOnComment(t *testing.T) {
	e, db := newTestEngine(t, nil)
	author := seedUser(t, db, "alice", models.RoleCreator)
	reader := seedUser(t, db, "bob", models.RoleUser)

	story, err := e.CreateStory(actorFor(author, models.RoleCreator), models.CreateStoryRequest{
		Title:       "Fine Story",
		Content:     "Nothing objectionable.",
		IsPublished: true,
	})
	require.NoError(t, err)

	comment := models.Comment{StoryID: story.ID, UserID: reader.ID, Content: "rude remark"}
	require.NoError(t, db.Create(&comment).Error)

	flag, err := e.CreateFlag(actorFor(author, models.RoleCreator), models.CommentTarget(comment.ID), "abusive")
	require.NoError(t, err)

	require.NotNil(t, flag.CommentID)
	assert.Equal(t, comment.ID, *flag.CommentID)
	assert.Nil(t, flag.StoryID)
}

func TestCreateFlagValidation(t *testing.T) {
	e, db := newTestEngine(t, nil)
	author := seedUser(t, db, "alice", models.RoleCreator)
	reader := seedUser(t, db, "bob", models.RoleUser)

	// missing target
	_, err := e.CreateFlag(actorFor(reader, models.RoleUser), models.StoryTarget(uuid.New()), "spam")
	assert.ErrorIs(t, err, ErrNotFound)

	story, err := e.CreateStory(actorFor(author, models.RoleCreator), models.CreateStoryRequest{
		Title:   "Fine Story",
		Content: "Nothing objectionable.",
	})
	require.NoError(t, err)

	// blank reason
	_, err = e.CreateFlag(actorFor(reader, models.RoleUser), models.StoryTarget(story.ID), "   ")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestListOpenFlagsModeratorOnly(t *testing.T) {
	e, db := newTestEngine(t, nil)
	author := seedUser(t, db, "alice", models.RoleCreator)
	reader := seedUser(t, db, "bob", models.RoleUser)
	mod := seedUser(t, db, "mia", models.RoleModerator)

	story, err := e.CreateStory(actorFor(author, models.RoleCreator), models.CreateStoryRequest{
		Title:       "Fine Story",
		Content:     "Nothing objectionable.",
		IsPublished: true,
	})
	require.NoError(t, err)
	_, err = e.CreateFlag(actorFor(reader, models.RoleUser), models.StoryTarget(story.ID), "spam")
	require.NoError(t, err)

	_, err = e.ListOpenFlags(actorFor(reader, models.RoleUser))
	assert.ErrorIs(t, err, ErrNotAuthorized)

	flags, err := e.ListOpenFlags(actorFor(mod, models.RoleModerator))
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, models.FlagOpen, flags[0].Status)
}

func TestResolveFlagLifecycle(t *testing.T) {
	e, db := newTestEngine(t, nil)
	author := seedUser(t, db, "alice", models.RoleCreator)
	reader := seedUser(t, db, "bob", models.RoleUser)
	mod := seedUser(t, db, "mia", models.RoleModerator)
	modActor := actorFor(mod, models.RoleModerator)

	story, err := e.CreateStory(actorFor(author, models.RoleCreator), models.CreateStoryRequest{
		Title:       "Fine Story",
		Content:     "Nothing objectionable.",
		IsPublished: true,
	})
	require.NoError(t, err)
	flag, err := e.CreateFlag(actorFor(reader, models.RoleUser), models.StoryTarget(story.ID), "spam")
	require.NoError(t, err)

	resolved, err := e.ResolveFlag(modActor, flag.ID, models.FlagResolved)
	require.NoError(t, err)
	assert.Equal(t, models.FlagResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, mod.ID, *resolved.ResolvedBy)
	require.NotNil(t, resolved.ResolvedAt)

	// resolving to the same status again is a no-op
	firstResolvedAt := *resolved.ResolvedAt
	again, err := e.ResolveFlag(modActor, flag.ID, models.FlagResolved)
	require.NoError(t, err)
	require.NotNil(t, again.ResolvedAt)
	assert.Equal(t, firstResolvedAt.Unix(), again.ResolvedAt.Unix())

	// reopening clears attribution
	reopened, err := e.ResolveFlag(modActor, flag.ID, models.FlagOpen)
	require.NoError(t, err)
	assert.Equal(t, models.FlagOpen, reopened.Status)
	assert.Nil(t, reopened.ResolvedBy)
	assert.Nil(t, reopened.ResolvedAt)
}

func TestResolveFlagRejectsReservedStatuses(t *testing.T) {
	e, db := newTestEngine(t, nil)
	mod := seedUser(t, db, "mia", models.RoleModerator)

	_, err := e.ResolveFlag(actorFor(mod, models.RoleModerator), 1, models.FlagApproved)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = e.ResolveFlag(actorFor(mod, models.RoleModerator), 1, models.FlagStatus("bogus"))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestResolveFlagRequiresElevation(t *testing.T) {
	e, db := newTestEngine(t, nil)
	reader := seedUser(t, db, "bob", models.RoleUser)

	_, err := e.ResolveFlag(actorFor(reader, models.RoleUser), 1, models.FlagResolved)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestResolveMissingFlag(t *testing.T) {
	e, db := newTestEngine(t, nil)
	mod := seedUser(t, db, "mia", models.RoleModerator)

	_, err := e.ResolveFlag(actorFor(mod, models.RoleModerator), 999, models.FlagResolved)
	assert.ErrorIs(t, err, ErrNotFound)
}

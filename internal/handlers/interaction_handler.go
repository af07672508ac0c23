package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/storyloom/backend/internal/models"
	"github.com/storyloom/backend/internal/repositories"
)

// InteractionHandler handles likes and bookmarks
type InteractionHandler struct {
	interactionRepository  repositories.InteractionRepository
	storyRepository        repositories.StoryRepository
	notificationRepository repositories.NotificationRepository
}

// NewInteractionHandler creates a new InteractionHandler
func NewInteractionHandler(interactionRepo repositories.InteractionRepository, storyRepo repositories.StoryRepository, notificationRepo repositories.NotificationRepository) *InteractionHandler {
	return &InteractionHandler{
		interactionRepository:  interactionRepo,
		storyRepository:        storyRepo,
		notificationRepository: notificationRepo,
	}
}

// RegisterInteractionRoutes registers like/bookmark routes
func (h *InteractionHandler) RegisterInteractionRoutes(g *echo.Group) {
	g.POST("/stories/:id/like", h.ToggleLike)
	g.POST("/stories/:id/bookmark", h.ToggleBookmark)
	g.GET("/bookmarks", h.ListBookmarks)
}

func (h *InteractionHandler) loadStory(c echo.Context) (*models.Story, error) {
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}
	story, err := h.storyRepository.GetStoryByID(storyID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}
	return story, nil
}

// ToggleLike likes an unliked story and unlikes a liked one
func (h *InteractionHandler) ToggleLike(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	story, err := h.loadStory(c)
	if err != nil {
		return err
	}

	liked, err := h.interactionRepository.HasLiked(actor.ID, story.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if liked {
		if err := h.interactionRepository.DeleteLike(actor.ID, story.ID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": false}})
	}

	if err := h.interactionRepository.CreateLike(&models.Like{UserID: actor.ID, StoryID: story.ID}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if story.UserID != actor.ID {
		actorID := actor.ID
		_ = h.notificationRepository.CreateNotification(&models.Notification{
			RecipientID: story.UserID,
			ActorID:     &actorID,
			Action:      models.ActionLiked,
			TargetType:  "story",
			TargetID:    story.ID.String(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"liked": true}})
}

// ToggleBookmark bookmarks an unbookmarked story and removes an existing one
func (h *InteractionHandler) ToggleBookmark(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	story, err := h.loadStory(c)
	if err != nil {
		return err
	}

	bookmarked, err := h.interactionRepository.HasBookmarked(actor.ID, story.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if bookmarked {
		if err := h.interactionRepository.DeleteBookmark(actor.ID, story.ID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"bookmarked": false}})
	}

	if err := h.interactionRepository.CreateBookmark(&models.Bookmark{UserID: actor.ID, StoryID: story.ID}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"bookmarked": true}})
}

// ListBookmarks returns stories the caller has bookmarked
func (h *InteractionHandler) ListBookmarks(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	stories, err := h.interactionRepository.ListBookmarkedStories(actor.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"stories": toStoryResponses(stories)}})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/storyloom/backend/internal/models"
	"github.com/storyloom/backend/internal/moderation"
	"github.com/storyloom/backend/internal/repositories"
)

// StoryHandler handles story-related HTTP requests
type StoryHandler struct {
	engine                *moderation.Engine
	storyRepository       repositories.StoryRepository
	interactionRepository repositories.InteractionRepository
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(engine *moderation.Engine, storyRepo repositories.StoryRepository, interactionRepo repositories.InteractionRepository) *StoryHandler {
	return &StoryHandler{
		engine:                engine,
		storyRepository:       storyRepo,
		interactionRepository: interactionRepo,
	}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.GET("/stories", h.ListStories)
	g.GET("/stories/mine", h.ListMyStories)
	g.GET("/stories/:id", h.GetStory)
	g.GET("/stories/:id/revisions", h.ListRevisions)
	g.POST("/stories", h.CreateStory)
	g.POST("/stories/generate", h.GenerateStory)
	g.PATCH("/stories/:id", h.UpdateStory)
	g.DELETE("/stories/:id", h.DeleteStory)
	g.POST("/stories/:id/regenerate", h.RegenerateStory)
	g.POST("/stories/:id/publish", h.PublishStory)
	g.POST("/stories/:id/unpublish", h.UnpublishStory)
}

func storyIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}
	return id, nil
}

// ListStories returns published stories; elevated callers see everything
func (h *StoryHandler) ListStories(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	limit, offset := parsePagination(c, 10)

	tag := c.QueryParam("tag")
	var authorID *uint
	if v, err := strconv.ParseUint(c.QueryParam("author_id"), 10, 32); err == nil {
		id := uint(v)
		authorID = &id
	}

	var total int64
	var stories []models.Story
	if actor.Elevated() {
		total, stories, err = h.storyRepository.ListAll(limit, offset, tag, authorID)
	} else {
		total, stories, err = h.storyRepository.ListPublished(limit, offset, tag, authorID)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"total":   total,
		"stories": toStoryResponses(stories),
	}})
}

// ListMyStories returns the caller's own stories, any status
func (h *StoryHandler) ListMyStories(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	limit, offset := parsePagination(c, 10)

	total, stories, err := h.storyRepository.ListByUser(actor.ID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"total":   total,
		"stories": toStoryResponses(stories),
	}})
}

// GetStory returns one story. Unpublished stories 404 for everyone except
// their owner and elevated roles; a successful view is recorded.
func (h *StoryHandler) GetStory(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := storyIDParam(c)
	if err != nil {
		return err
	}

	story, err := h.storyRepository.GetStoryByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}
	if !story.IsPublished() && story.UserID != actor.ID && !actor.Elevated() {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	viewerID := actor.ID
	_ = h.interactionRepository.RecordView(&models.ViewHistory{
		StoryID:   story.ID,
		UserID:    &viewerID,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})

	resp := story.ToResponse()
	resp.IsLikedByUser, _ = h.interactionRepository.HasLiked(actor.ID, story.ID)
	resp.IsBookmarkedByUser, _ = h.interactionRepository.HasBookmarked(actor.ID, story.ID)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"story": resp}})
}

// ListRevisions returns the version history of a story (owner or elevated)
func (h *StoryHandler) ListRevisions(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := storyIDParam(c)
	if err != nil {
		return err
	}

	story, err := h.storyRepository.GetStoryByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}
	if story.UserID != actor.ID && !actor.Elevated() {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized")
	}

	revisions, err := h.storyRepository.ListRevisions(story.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"revisions": revisions}})
}

// CreateStory creates a human-authored story
func (h *StoryHandler) CreateStory(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	story, err := h.engine.CreateStory(actor, req)
	if err != nil {
		return translateDomainError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"story": story.ToResponse()}})
}

// GenerateStory creates a story via the AI collaborator
func (h *StoryHandler) GenerateStory(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req models.GenerateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	story, err := h.engine.GenerateStory(c.Request().Context(), actor, req)
	if err != nil {
		return translateDomainError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"story": story.ToResponse()}})
}

// UpdateStory applies an owner edit
func (h *StoryHandler) UpdateStory(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := storyIDParam(c)
	if err != nil {
		return err
	}

	var req models.UpdateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	story, err := h.engine.UpdateStory(actor, id, req)
	if err != nil {
		return translateDomainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"story": story.ToResponse()}})
}

// DeleteStory soft-deletes a story
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := storyIDParam(c)
	if err != nil {
		return err
	}

	if err := h.engine.DeleteStory(actor, id); err != nil {
		return translateDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RegenerateStory regenerates an AI story from reader feedback
func (h *StoryHandler) RegenerateStory(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := storyIDParam(c)
	if err != nil {
		return err
	}

	var req models.RegenerateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	story, err := h.engine.RegenerateWithFeedback(c.Request().Context(), actor, id, req.Feedback)
	if err != nil {
		return translateDomainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"story": story.ToResponse()}})
}

// PublishStory makes a story visible
func (h *StoryHandler) PublishStory(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := storyIDParam(c)
	if err != nil {
		return err
	}

	story, err := h.engine.PublishStory(actor, id)
	if err != nil {
		return translateDomainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"story": story.ToResponse()}})
}

// UnpublishStory withdraws a story from publication
func (h *StoryHandler) UnpublishStory(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := storyIDParam(c)
	if err != nil {
		return err
	}

	story, err := h.engine.UnpublishStory(actor, id)
	if err != nil {
		return translateDomainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"story": story.ToResponse()}})
}

func toStoryResponses(stories []models.Story) []models.StoryResponse {
	out := make([]models.StoryResponse, 0, len(stories))
	for i := range stories {
		out = append(out, stories[i].ToResponse())
	}
	return out
}

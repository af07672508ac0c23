package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/storyloom/backend/internal/models"
	"github.com/storyloom/backend/internal/moderation"
)

// ModerationHandler exposes flag reporting and the moderator surfaces
type ModerationHandler struct {
	engine *moderation.Engine
}

// NewModerationHandler creates a new ModerationHandler
func NewModerationHandler(engine *moderation.Engine) *ModerationHandler {
	return &ModerationHandler{engine: engine}
}

// RegisterUserRoutes registers the user-facing reporting routes
func (h *ModerationHandler) RegisterUserRoutes(g *echo.Group) {
	g.POST("/stories/:id/flag", h.FlagStory)
	g.POST("/comments/:id/flag", h.FlagComment)
}

// RegisterModeratorRoutes registers the moderator-only routes; the caller
// is expected to guard the group with a role middleware
func (h *ModerationHandler) RegisterModeratorRoutes(g *echo.Group) {
	g.GET("/flags", h.ListOpenFlags)
	g.PATCH("/flags/:id", h.ResolveFlag)
	g.GET("/queue", h.Queue)
	g.POST("/stories/:id/approve", h.ApproveStory)
	g.POST("/stories/:id/reject", h.RejectStory)
}

// FlagStory reports a story
func (h *ModerationHandler) FlagStory(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	var req models.CreateFlagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	flag, err := h.engine.CreateFlag(actor, models.StoryTarget(storyID), req.Reason)
	if err != nil {
		return translateDomainError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"flag": flag}})
}

// FlagComment reports a comment
func (h *ModerationHandler) FlagComment(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	var req models.CreateFlagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	flag, err := h.engine.CreateFlag(actor, models.CommentTarget(commentID), req.Reason)
	if err != nil {
		return translateDomainError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"flag": flag}})
}

// ListOpenFlags returns every open flag, newest first
func (h *ModerationHandler) ListOpenFlags(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	flags, err := h.engine.ListOpenFlags(actor)
	if err != nil {
		return translateDomainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"flags": flags}})
}

// ResolveFlag transitions one flag by hand
func (h *ModerationHandler) ResolveFlag(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Flag not found")
	}

	var req models.ResolveFlagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	flag, err := h.engine.ResolveFlag(actor, uint(id), req.Status)
	if err != nil {
		return translateDomainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"flag": flag}})
}

// Queue returns the moderation queue page
func (h *ModerationHandler) Queue(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	params := moderation.QueueParams{Tag: c.QueryParam("tag")}
	params.Limit, params.Offset = parsePagination(c, 10)
	if s := c.QueryParam("status_filter"); s != "" {
		status := models.StoryStatus(s)
		params.Status = &status
	}
	if v, err := strconv.ParseUint(c.QueryParam("author_id"), 10, 32); err == nil {
		id := uint(v)
		params.AuthorID = &id
	}

	total, stories, err := h.engine.Queue(actor, params)
	if err != nil {
		return translateDomainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"total": total,
		"items": toStoryResponses(stories),
	}})
}

// ApproveStory publishes a story, clears its flag and closes open flags
func (h *ModerationHandler) ApproveStory(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	var req models.ModerationDecisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	story, err := h.engine.ApproveStory(actor, storyID, req.Note)
	if err != nil {
		return translateDomainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"story": story.ToResponse()}})
}

// RejectStory moves a story to the rejected state; a reason is mandatory
func (h *ModerationHandler) RejectStory(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	var req models.ModerationDecisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	story, err := h.engine.RejectStory(actor, storyID, req.Reason)
	if err != nil {
		return translateDomainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"story": story.ToResponse()}})
}

package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/storyloom/backend/internal/models"
	"github.com/storyloom/backend/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	storyRepository        repositories.StoryRepository
	notificationRepository repositories.NotificationRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, storyRepo repositories.StoryRepository, notificationRepo repositories.NotificationRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		storyRepository:        storyRepo,
		notificationRepository: notificationRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/stories/:id/comments", h.CreateComment)
	g.GET("/stories/:id/comments", h.ListComments)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment adds a comment to a story and notifies its author
func (h *CommentHandler) CreateComment(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}
	story, err := h.storyRepository.GetStoryByID(storyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment := &models.Comment{
		StoryID: story.ID,
		UserID:  actor.ID,
		Content: req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Notify the story owner, skipping self-comments
	if story.UserID != actor.ID {
		actorID := actor.ID
		_ = h.notificationRepository.CreateNotification(&models.Notification{
			RecipientID: story.UserID,
			ActorID:     &actorID,
			Action:      models.ActionCommented,
			TargetType:  "story",
			TargetID:    story.ID.String(),
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"comment": comment}})
}

// ListComments returns a story's comments, newest first
func (h *CommentHandler) ListComments(c echo.Context) error {
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}
	if _, err := h.storyRepository.GetStoryByID(storyID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	limit, offset := parsePagination(c, 20)
	total, comments, err := h.commentRepository.GetCommentsByStoryID(storyID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"total":    total,
		"comments": comments,
	}})
}

// DeleteComment removes a comment (owner or elevated role)
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	comment, err := h.commentRepository.GetCommentByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	if comment.UserID != actor.ID && !actor.Elevated() {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized")
	}

	if err := h.commentRepository.DeleteComment(comment.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/storyloom/backend/internal/models"
	"github.com/storyloom/backend/internal/repositories"
	"gorm.io/gorm"
)

// TagHandler handles tag management
type TagHandler struct {
	tagRepository repositories.TagRepository
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagRepo repositories.TagRepository) *TagHandler {
	return &TagHandler{tagRepository: tagRepo}
}

// RegisterTagRoutes registers read-side tag routes
func (h *TagHandler) RegisterTagRoutes(g *echo.Group) {
	g.GET("/tags", h.ListTags)
}

// RegisterTagAdminRoutes registers moderator-only tag management routes
func (h *TagHandler) RegisterTagAdminRoutes(g *echo.Group) {
	g.POST("/tags", h.CreateTag)
	g.PATCH("/tags/:id", h.UpdateTag)
	g.DELETE("/tags/:id", h.DeleteTag)
}

// ListTags returns all tags ordered by name
func (h *TagHandler) ListTags(c echo.Context) error {
	tags, err := h.tagRepository.ListTags()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"tags": tags}})
}

// CreateTag creates a tag; names are unique
func (h *TagHandler) CreateTag(c echo.Context) error {
	var req models.CreateTagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.tagRepository.GetTagByName(req.Name); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Tag with this name already exists")
	}

	tag := &models.Tag{Name: req.Name, Description: req.Description}
	if err := h.tagRepository.CreateTag(tag); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"tag": tag}})
}

// UpdateTag renames or re-describes a tag
func (h *TagHandler) UpdateTag(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Tag not found")
	}
	tag, err := h.tagRepository.GetTagByID(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Tag not found")
	}

	var req models.UpdateTagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Name != nil && *req.Name != tag.Name {
		if _, err := h.tagRepository.GetTagByName(*req.Name); err == nil {
			return echo.NewHTTPError(http.StatusConflict, "Another tag with this name already exists")
		} else if err != gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		tag.Name = *req.Name
	}
	if req.Description != nil {
		tag.Description = *req.Description
	}

	if err := h.tagRepository.UpdateTag(tag); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"tag": tag}})
}

// DeleteTag removes a tag
func (h *TagHandler) DeleteTag(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Tag not found")
	}
	if _, err := h.tagRepository.GetTagByID(id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Tag not found")
	}

	if err := h.tagRepository.DeleteTag(id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

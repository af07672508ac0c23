package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/storyloom/backend/internal/repositories"
)

// AnalyticsHandler serves the admin dashboard metrics
type AnalyticsHandler struct {
	analyticsRepository repositories.AnalyticsRepository
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(repo repositories.AnalyticsRepository) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsRepository: repo}
}

// RegisterAnalyticsRoutes registers the analytics routes; the caller is
// expected to guard the group with a role middleware
func (h *AnalyticsHandler) RegisterAnalyticsRoutes(g *echo.Group) {
	g.GET("/stories/daily", h.StoriesDaily)
	g.GET("/users/daily", h.UsersDaily)
	g.GET("/flags/breakdown", h.FlagsBreakdown)
	g.GET("/stories/top", h.TopStories)
}

func daysParam(c echo.Context) int {
	days, err := strconv.Atoi(c.QueryParam("days"))
	if err != nil || days < 1 {
		days = 30
	}
	if days > 365 {
		days = 365
	}
	return days
}

// StoriesDaily returns stories created per day
func (h *AnalyticsHandler) StoriesDaily(c echo.Context) error {
	series, err := h.analyticsRepository.StoriesDaily(daysParam(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load metrics")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"series": series}})
}

// UsersDaily returns users registered per day
func (h *AnalyticsHandler) UsersDaily(c echo.Context) error {
	series, err := h.analyticsRepository.UsersDaily(daysParam(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load metrics")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"series": series}})
}

// FlagsBreakdown returns flag counts per status
func (h *AnalyticsHandler) FlagsBreakdown(c echo.Context) error {
	breakdown, err := h.analyticsRepository.FlagsBreakdown()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load metrics")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"flags": breakdown}})
}

// TopStories returns the most viewed live stories
func (h *AnalyticsHandler) TopStories(c echo.Context) error {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	stories, err := h.analyticsRepository.TopViewedStories(limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load metrics")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"stories": stories}})
}

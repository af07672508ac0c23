package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/storyloom/backend/internal/middleware"
	"github.com/storyloom/backend/internal/moderation"
)

// actorFromContext resolves the acting user from the JWT claims set by the
// auth middleware
func actorFromContext(c echo.Context) (moderation.Actor, error) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.UserID == 0 {
		return moderation.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return moderation.Actor{ID: claims.UserID, Role: claims.Role}, nil
}

// translateDomainError maps engine errors to HTTP status codes
func translateDomainError(err error) error {
	switch {
	case err == moderation.ErrNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case err == moderation.ErrNotAuthorized:
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized")
	case moderation.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case moderation.IsUpstream(err):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// parsePagination reads limit/offset query params with sane bounds
func parsePagination(c echo.Context, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

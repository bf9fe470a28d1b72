package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/stackit-dev/stackit/backend/internal/apperrors"
	"github.com/stackit-dev/stackit/backend/internal/models"
)

// getUserIDFromContext returns the authenticated user's id from the JWT
// claims set by the auth middleware, or 0 when the request is anonymous.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// httpError translates a core failure into the Echo error carrying the
// matching status code.
func httpError(err error) *echo.HTTPError {
	return echo.NewHTTPError(apperrors.HTTPStatus(err), err.Error())
}

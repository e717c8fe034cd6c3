package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/luminara-systems/platform-api/internal/api/middleware"
	"github.com/luminara-systems/platform-api/internal/core/domain"
)

// currentUser extracts the account injected by the auth middleware. Its
// presence proves the middleware ran; a bare context is a routing mistake and
// is rejected with 401 rather than a panic.
func currentUser(c echo.Context) (*domain.User, error) {
	u, _ := c.Get(middleware.UserContextKey).(*domain.User)
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return u, nil
}

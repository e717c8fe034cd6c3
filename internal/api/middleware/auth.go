// Package middleware holds the request-scoped HTTP middleware: bearer
// authentication and host-based tenant detection.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/luminara-systems/platform-api/internal/core/ports"
)

// UserContextKey is where Auth stores the resolved account on the request
// context.
const UserContextKey = "current_user"

// Auth validates the bearer token and loads the account it identifies into
// the request context. Absence, malformation, bad signature, expiry and a
// vanished user all collapse into 401.
func Auth(tokens ports.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			username, ok := tokens.Verify(parts[1])
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authentication credentials")
			}

			user, err := users.FindByUsername(c.Request().Context(), username)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authentication credentials")
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

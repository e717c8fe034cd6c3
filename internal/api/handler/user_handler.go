package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/luminara-systems/platform-api/internal/core/ports"
)

type UserHandler struct {
	accounts ports.AccountService
}

func NewUserHandler(accounts ports.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

type updateUserRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

// Me returns the authenticated caller's profile.
//
// @Summary      Current profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Profile returns any account's public profile by username.
//
// @Summary      Public profile
// @Tags         users
// @Produce      json
// @Param        username  path  string  true  "Username"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  map[string]string
// @Router       /users/profile/{username} [get]
func (h *UserHandler) Profile(c echo.Context) error {
	user, err := h.accounts.Profile(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Update changes the caller's email. Email-provider accounts drop back to
// unverified and get a fresh verification mail.
//
// @Summary      Update profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserRequest  false  "New email"
// @Success      200   {object}  userResponse
// @Failure      409   {object}  map[string]string
// @Router       /users/me [put]
func (h *UserHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	// The email may also arrive as a query parameter.
	if req.Email == "" {
		req.Email = c.QueryParam("email")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.accounts.UpdateEmail(c.Request().Context(), user, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(updated))
}

// Delete removes the caller's account and everything it owns.
//
// @Summary      Delete account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Router       /users/me [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.accounts.Delete(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Account deleted successfully"})
}

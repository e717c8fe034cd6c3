package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/luminara-systems/platform-api/internal/core/domain"
	"github.com/luminara-systems/platform-api/internal/core/ports"
)

type SubdomainHandler struct {
	subdomains ports.SubdomainService
}

func NewSubdomainHandler(subdomains ports.SubdomainService) *SubdomainHandler {
	return &SubdomainHandler{subdomains: subdomains}
}

type subdomainRequest struct {
	Subdomain string `json:"subdomain" validate:"required"`
}

type renameRequest struct {
	Subdomain string `json:"subdomain"`
}

type subdomainResponse struct {
	ID            uint   `json:"id"`
	Subdomain     string `json:"subdomain"`
	FullURL       string `json:"full_url"`
	CreatedAt     string `json:"created_at"`
	OwnerUsername string `json:"owner_username"`
}

type adminTokenResponse struct {
	Token     string `json:"token"`
	CreatedAt string `json:"created_at"`
	Message   string `json:"message"`
}

func (h *SubdomainHandler) toResponse(sub *domain.Subdomain, owner *domain.User) subdomainResponse {
	return subdomainResponse{
		ID:            sub.ID,
		Subdomain:     sub.Name,
		FullURL:       h.subdomains.FullURL(sub.Name),
		CreatedAt:     sub.CreatedAt.Format(time.RFC3339),
		OwnerUsername: owner.Username,
	}
}

// Create claims a subdomain for the authenticated caller.
//
// @Summary      Claim a subdomain
// @Tags         subdomains
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      subdomainRequest  true  "Desired name"
// @Success      201   {object}  subdomainResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /subdomains/ [post]
func (h *SubdomainHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req subdomainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sub, err := h.subdomains.Claim(c.Request().Context(), user.ID, req.Subdomain)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.toResponse(sub, user))
}

// Mine returns the caller's subdomain.
//
// @Summary      My subdomain
// @Tags         subdomains
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  subdomainResponse
// @Failure      404  {object}  map[string]string
// @Router       /subdomains/my [get]
func (h *SubdomainHandler) Mine(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	sub, err := h.subdomains.Mine(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.toResponse(sub, user))
}

// Check answers the unauthenticated availability probe.
//
// @Summary      Check subdomain availability
// @Tags         subdomains
// @Produce      json
// @Param        name  path  string  true  "Candidate name"
// @Success      200  {object}  ports.Availability
// @Router       /subdomains/check/{name} [get]
func (h *SubdomainHandler) Check(c echo.Context) error {
	availability, err := h.subdomains.Check(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, availability)
}

// Rename changes the caller's subdomain. Sending the current name (or none)
// is a no-op.
//
// @Summary      Rename my subdomain
// @Tags         subdomains
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      renameRequest  true  "New name"
// @Success      200   {object}  subdomainResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /subdomains/my [put]
func (h *SubdomainHandler) Rename(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req renameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	sub, err := h.subdomains.Rename(c.Request().Context(), user.ID, req.Subdomain)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.toResponse(sub, user))
}

// Delete releases the caller's subdomain.
//
// @Summary      Delete my subdomain
// @Tags         subdomains
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /subdomains/my [delete]
func (h *SubdomainHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.subdomains.Delete(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Subdomain deleted successfully"})
}

// IssueAdminToken generates (or regenerates) the admin token for the caller's
// subdomain. The plaintext is shown exactly once.
//
// @Summary      Issue admin token
// @Tags         subdomains
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  adminTokenResponse
// @Failure      400  {object}  map[string]string
// @Router       /subdomains/my/admin-token [post]
func (h *SubdomainHandler) IssueAdminToken(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	result, err := h.subdomains.IssueAdminToken(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, adminTokenResponse{
		Token:     result.Token,
		CreatedAt: result.CreatedAt.Format(time.RFC3339),
		Message:   "Store this token securely. It will not be shown again.",
	})
}

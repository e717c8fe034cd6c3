package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/luminara-systems/platform-api/internal/api/middleware"
)

// SiteHandler answers the root route, distinguishing the main site from a
// tenant's site based on the Host header.
type SiteHandler struct {
	version string
}

func NewSiteHandler(version string) *SiteHandler {
	return &SiteHandler{version: version}
}

// Root returns a tenant-aware welcome payload.
//
// @Summary      Welcome
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func (h *SiteHandler) Root(c echo.Context) error {
	if tenant := middleware.TenantFromContext(c); tenant != "" {
		return c.JSON(http.StatusOK, map[string]string{
			"message":   fmt.Sprintf("Welcome to %s's site", tenant),
			"subdomain": tenant,
			"type":      "user_site",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message":     "Welcome to Luminara Systems",
		"api_version": h.version,
		"type":        "main_site",
	})
}

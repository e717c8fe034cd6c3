// Package handler implements the HTTP handlers over the core services.
package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/luminara-systems/platform-api/internal/core/domain"
	"github.com/luminara-systems/platform-api/internal/core/ports"
)

type AuthHandler struct {
	accounts ports.AccountService
	// baseURL is the public origin browser flows are redirected back to.
	baseURL string
}

func NewAuthHandler(accounts ports.AccountService, baseURL string) *AuthHandler {
	return &AuthHandler{accounts: accounts, baseURL: baseURL}
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signupResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type resendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type authURLResponse struct {
	AuthURL string `json:"auth_url"`
}

// Signup registers an email/password account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Registration details"
// @Success      201   {object}  signupResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.accounts.Signup(c.Request().Context(), ports.SignupInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, signupResponse{
		Message: "Account created successfully! Please check your email to verify your account.",
		Email:   req.Email,
	})
}

// Login authenticates an email/password account and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// VerifyEmail redeems a verification token and sends the browser back to the
// login page.
//
// @Summary      Verify email address
// @Tags         auth
// @Param        token  query  string  true  "Verification token"
// @Success      307
// @Failure      400  {object}  map[string]string
// @Router       /auth/verify-email [get]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	if err := h.accounts.VerifyEmail(c.Request().Context(), c.QueryParam("token")); err != nil {
		return err
	}
	return c.Redirect(http.StatusTemporaryRedirect, h.baseURL+"/login?verified=true")
}

// ResendVerification issues a fresh verification token for an unverified
// account.
//
// @Summary      Resend verification email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resendRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req resendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Verification email sent successfully"})
}

// OAuthAuthorize returns the provider's authorization URL with a fresh
// anti-forgery state.
//
// @Summary      Start an OAuth login
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authURLResponse
// @Router       /auth/{provider} [get]
func (h *AuthHandler) OAuthAuthorize(provider string) echo.HandlerFunc {
	return func(c echo.Context) error {
		url, err := h.accounts.AuthorizeURL(c.Request().Context(), provider)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, authURLResponse{AuthURL: url})
	}
}

// OAuthCallback completes an OAuth login and redirects the browser to the
// dashboard with the bearer token attached.
//
// @Summary      OAuth callback
// @Tags         auth
// @Param        code   query  string  true   "Authorization code"
// @Param        state  query  string  true   "Anti-forgery state"
// @Success      307
// @Failure      400  {object}  map[string]string
// @Router       /auth/{provider}/callback [get]
func (h *AuthHandler) OAuthCallback(provider string) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := h.accounts.OAuthCallback(
			c.Request().Context(), provider, c.QueryParam("code"), c.QueryParam("state"))
		if err != nil {
			return err
		}
		return c.Redirect(http.StatusTemporaryRedirect,
			fmt.Sprintf("%s/dashboard?token=%s", h.baseURL, token))
	}
}

// userResponse is the public shape of an account.
type userResponse struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Provider   string `json:"provider"`
	IsVerified bool   `json:"is_verified"`
	CreatedAt  string `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Provider:   u.Provider,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
}

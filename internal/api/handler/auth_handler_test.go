package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/luminara-systems/platform-api/internal/core/domain"
	"github.com/luminara-systems/platform-api/internal/core/ports"
)

const testBaseURL = "https://myluminarasystem.pro"

// stubAccounts records calls and replays scripted results.
type stubAccounts struct {
	signupIn   ports.SignupInput
	signupErr  error
	loginToken string
	loginErr   error
	verifyErr  error
	resendErr  error
	authURL    string
	oauthToken string
	oauthErr   error
	profile    *domain.User
	profileErr error
	updated    *domain.User
	updateErr  error
	deleteErr  error
}

func (s *stubAccounts) Signup(_ context.Context, in ports.SignupInput) (*domain.User, error) {
	s.signupIn = in
	if s.signupErr != nil {
		return nil, s.signupErr
	}
	return &domain.User{ID: 1, Email: in.Email, Username: in.Username, Provider: domain.ProviderEmail}, nil
}

func (s *stubAccounts) Login(context.Context, string, string) (string, error) {
	return s.loginToken, s.loginErr
}

func (s *stubAccounts) VerifyEmail(context.Context, string) error { return s.verifyErr }

func (s *stubAccounts) ResendVerification(context.Context, string) error { return s.resendErr }

func (s *stubAccounts) AuthorizeURL(context.Context, string) (string, error) {
	return s.authURL, nil
}

func (s *stubAccounts) OAuthCallback(context.Context, string, string, string) (string, error) {
	return s.oauthToken, s.oauthErr
}

func (s *stubAccounts) Profile(context.Context, string) (*domain.User, error) {
	return s.profile, s.profileErr
}

func (s *stubAccounts) UpdateEmail(context.Context, *domain.User, string) (*domain.User, error) {
	return s.updated, s.updateErr
}

func (s *stubAccounts) Delete(context.Context, uint) error { return s.deleteErr }

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup(t *testing.T) {
	accounts := &stubAccounts{}
	h := NewAuthHandler(accounts, testBaseURL)

	c, rec := newTestContext(http.MethodPost, "/auth/signup",
		`{"email":"a@x.com","username":"alice01","password":"Passw0rd"}`)
	if err := h.Signup(c); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if accounts.signupIn.Username != "alice01" {
		t.Fatalf("input not forwarded: %+v", accounts.signupIn)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp["email"] != "a@x.com" || !strings.Contains(resp["message"], "verify") {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestAuthHandler_Signup_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAccounts{}, testBaseURL)

	c, _ := newTestContext(http.MethodPost, "/auth/signup", `{"email":"not-an-email"}`)
	err := h.Signup(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Signup_PropagatesServiceError(t *testing.T) {
	h := NewAuthHandler(&stubAccounts{signupErr: domain.ErrEmailTaken}, testBaseURL)

	c, _ := newTestContext(http.MethodPost, "/auth/signup",
		`{"email":"a@x.com","username":"alice01","password":"Passw0rd"}`)
	if err := h.Signup(c); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken to propagate, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	h := NewAuthHandler(&stubAccounts{loginToken: "jwt-token"}, testBaseURL)

	c, rec := newTestContext(http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"Passw0rd"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp["access_token"] != "jwt-token" || resp["token_type"] != "bearer" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestAuthHandler_VerifyEmail_Redirects(t *testing.T) {
	h := NewAuthHandler(&stubAccounts{}, testBaseURL)

	c, rec := newTestContext(http.MethodGet, "/auth/verify-email?token=tok", "")
	if err := h.VerifyEmail(c); err != nil {
		t.Fatalf("VerifyEmail failed: %v", err)
	}
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != testBaseURL+"/login?verified=true" {
		t.Fatalf("unexpected redirect: %s", loc)
	}
}

func TestAuthHandler_VerifyEmail_InvalidToken(t *testing.T) {
	h := NewAuthHandler(&stubAccounts{verifyErr: domain.ErrVerificationInvalid}, testBaseURL)

	c, _ := newTestContext(http.MethodGet, "/auth/verify-email?token=bad", "")
	if err := h.VerifyEmail(c); err != domain.ErrVerificationInvalid {
		t.Fatalf("expected ErrVerificationInvalid, got %v", err)
	}
}

func TestAuthHandler_ResendVerification(t *testing.T) {
	h := NewAuthHandler(&stubAccounts{}, testBaseURL)

	c, rec := newTestContext(http.MethodPost, "/auth/resend-verification",
		`{"email":"a@x.com"}`)
	if err := h.ResendVerification(c); err != nil {
		t.Fatalf("ResendVerification failed: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Verification email sent") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_OAuthAuthorize(t *testing.T) {
	h := NewAuthHandler(&stubAccounts{authURL: "https://github.com/login/oauth/authorize?state=s"}, testBaseURL)

	c, rec := newTestContext(http.MethodGet, "/auth/github", "")
	if err := h.OAuthAuthorize(domain.ProviderGitHub)(c); err != nil {
		t.Fatalf("OAuthAuthorize failed: %v", err)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if !strings.HasPrefix(resp["auth_url"], "https://github.com/") {
		t.Fatalf("unexpected auth_url: %s", resp["auth_url"])
	}
}

func TestAuthHandler_OAuthCallback_RedirectsWithToken(t *testing.T) {
	h := NewAuthHandler(&stubAccounts{oauthToken: "jwt-token"}, testBaseURL)

	c, rec := newTestContext(http.MethodGet, "/auth/github/callback?code=c&state=s", "")
	if err := h.OAuthCallback(domain.ProviderGitHub)(c); err != nil {
		t.Fatalf("OAuthCallback failed: %v", err)
	}
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != testBaseURL+"/dashboard?token=jwt-token" {
		t.Fatalf("unexpected redirect: %s", loc)
	}
}

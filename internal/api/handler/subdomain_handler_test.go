package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/luminara-systems/platform-api/internal/api/middleware"
	"github.com/luminara-systems/platform-api/internal/core/domain"
	"github.com/luminara-systems/platform-api/internal/core/ports"
)

type stubSubdomains struct {
	claimed      *domain.Subdomain
	claimErr     error
	mine         *domain.Subdomain
	mineErr      error
	availability ports.Availability
	renamed      *domain.Subdomain
	renameErr    error
	deleteErr    error
	adminToken   *ports.AdminTokenResult
	adminErr     error
}

func (s *stubSubdomains) Claim(context.Context, uint, string) (*domain.Subdomain, error) {
	return s.claimed, s.claimErr
}

func (s *stubSubdomains) Mine(context.Context, uint) (*domain.Subdomain, error) {
	return s.mine, s.mineErr
}

func (s *stubSubdomains) Check(context.Context, string) (ports.Availability, error) {
	return s.availability, nil
}

func (s *stubSubdomains) Rename(context.Context, uint, string) (*domain.Subdomain, error) {
	return s.renamed, s.renameErr
}

func (s *stubSubdomains) Delete(context.Context, uint) error { return s.deleteErr }

func (s *stubSubdomains) IssueAdminToken(context.Context, uint) (*ports.AdminTokenResult, error) {
	return s.adminToken, s.adminErr
}

func (s *stubSubdomains) FullURL(name string) string {
	return "https://" + name + ".myluminarasystem.pro"
}

func authedContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newTestContext(method, target, body)
	c.Set(middleware.UserContextKey, &domain.User{ID: 1, Username: "alice01"})
	return c, rec
}

func TestSubdomainHandler_Create(t *testing.T) {
	svc := &stubSubdomains{
		claimed: &domain.Subdomain{ID: 7, UserID: 1, Name: "mysite", CreatedAt: time.Now()},
	}
	h := NewSubdomainHandler(svc)

	c, rec := authedContext(http.MethodPost, "/subdomains/", `{"subdomain":"mysite"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp["subdomain"] != "mysite" {
		t.Fatalf("unexpected subdomain: %v", resp["subdomain"])
	}
	if resp["full_url"] != "https://mysite.myluminarasystem.pro" {
		t.Fatalf("unexpected full_url: %v", resp["full_url"])
	}
	if resp["owner_username"] != "alice01" {
		t.Fatalf("unexpected owner: %v", resp["owner_username"])
	}
}

func TestSubdomainHandler_Create_RequiresAuth(t *testing.T) {
	h := NewSubdomainHandler(&stubSubdomains{})

	c, _ := newTestContext(http.MethodPost, "/subdomains/", `{"subdomain":"mysite"}`)
	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth context, got %v", err)
	}
}

func TestSubdomainHandler_Create_MissingName(t *testing.T) {
	h := NewSubdomainHandler(&stubSubdomains{})

	c, _ := authedContext(http.MethodPost, "/subdomains/", `{}`)
	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestSubdomainHandler_Create_Conflict(t *testing.T) {
	h := NewSubdomainHandler(&stubSubdomains{claimErr: domain.ErrSubdomainTaken})

	c, _ := authedContext(http.MethodPost, "/subdomains/", `{"subdomain":"mysite"}`)
	if err := h.Create(c); err != domain.ErrSubdomainTaken {
		t.Fatalf("expected ErrSubdomainTaken to propagate, got %v", err)
	}
}

func TestSubdomainHandler_Check(t *testing.T) {
	h := NewSubdomainHandler(&stubSubdomains{
		availability: ports.Availability{Available: false, Reason: "Already taken"},
	})

	c, rec := newTestContext(http.MethodGet, "/subdomains/check/mysite", "")
	c.SetParamNames("name")
	c.SetParamValues("mysite")
	if err := h.Check(c); err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	var resp ports.Availability
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp.Available || resp.Reason != "Already taken" {
		t.Fatalf("unexpected availability: %+v", resp)
	}
}

func TestSubdomainHandler_Mine_NotFound(t *testing.T) {
	h := NewSubdomainHandler(&stubSubdomains{mineErr: domain.ErrSubdomainNotFound})

	c, _ := authedContext(http.MethodGet, "/subdomains/my", "")
	if err := h.Mine(c); err != domain.ErrSubdomainNotFound {
		t.Fatalf("expected ErrSubdomainNotFound, got %v", err)
	}
}

func TestSubdomainHandler_Delete(t *testing.T) {
	h := NewSubdomainHandler(&stubSubdomains{})

	c, rec := authedContext(http.MethodDelete, "/subdomains/my", "")
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "deleted successfully") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSubdomainHandler_IssueAdminToken(t *testing.T) {
	issued := time.Now()
	h := NewSubdomainHandler(&stubSubdomains{
		adminToken: &ports.AdminTokenResult{Token: "plaintext-secret", CreatedAt: issued},
	})

	c, rec := authedContext(http.MethodPost, "/subdomains/my/admin-token", "")
	if err := h.IssueAdminToken(c); err != nil {
		t.Fatalf("IssueAdminToken failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp["token"] != "plaintext-secret" {
		t.Fatalf("unexpected token: %v", resp["token"])
	}
	if !strings.Contains(resp["message"], "not be shown again") {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestSubdomainHandler_IssueAdminToken_NoClaim(t *testing.T) {
	h := NewSubdomainHandler(&stubSubdomains{adminErr: domain.ErrNoSubdomain})

	c, _ := authedContext(http.MethodPost, "/subdomains/my/admin-token", "")
	if err := h.IssueAdminToken(c); err != domain.ErrNoSubdomain {
		t.Fatalf("expected ErrNoSubdomain, got %v", err)
	}
}

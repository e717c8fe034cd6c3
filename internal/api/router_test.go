package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/luminara-systems/platform-api/internal/core/ports"
	"github.com/luminara-systems/platform-api/internal/core/service"
	"github.com/luminara-systems/platform-api/internal/infrastructure/db/postgres"
)

// capturingMailer records verification tokens instead of talking SMTP.
type capturingMailer struct {
	tokens []string
}

func (m *capturingMailer) SendVerification(_ context.Context, _, _, token string) error {
	m.tokens = append(m.tokens, token)
	return nil
}

// memoryStateStore is a single-process stand-in for the Redis state store.
type memoryStateStore struct {
	states map[string]struct{}
}

func (s *memoryStateStore) Save(_ context.Context, state string) error {
	s.states[state] = struct{}{}
	return nil
}

func (s *memoryStateStore) Consume(_ context.Context, state string) (bool, error) {
	_, ok := s.states[state]
	delete(s.states, state)
	return ok, nil
}

type testServer struct {
	router http.Handler
	mailer *capturingMailer
}

func (s *testServer) do(t *testing.T, method, target, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response body %q: %v", rec.Body.String(), err)
	}
	return out
}

// newTestServer wires the real services and repositories over in-memory
// SQLite. The Redis client points nowhere; only the readiness probe touches it.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:e2e?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := postgres.NewUserRepository(db)
	verifications := postgres.NewVerificationRepository(db)
	subdomains := postgres.NewSubdomainRepository(db)

	mailer := &capturingMailer{}
	states := &memoryStateStore{states: make(map[string]struct{})}
	tokens := service.NewTokenService("e2e-secret", 30*time.Minute)
	accounts := service.NewAccountService(users, verifications, tokens,
		mailer, nil, states, zerolog.Nop())
	sites := service.NewSubdomainService(subdomains, "myluminarasystem.pro", zerolog.Nop())

	router := NewRouter(Deps{
		Accounts:   accounts,
		Subdomains: sites,
		Tokens:     tokens,
		Users:      users,
		DB:         db,
		Redis:      redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}),
		BaseURL:    "https://myluminarasystem.pro",
		RootDomain: "myluminarasystem.pro",
		Log:        zerolog.Nop(),
	})
	return &testServer{router: router, mailer: mailer}
}

// TestAPI_EndToEnd drives a user through the whole account lifecycle against
// the fully wired router. One flow per test binary: the Prometheus middleware
// registers global collectors and must be constructed once.
func TestAPI_EndToEnd(t *testing.T) {
	srv := newTestServer(t)

	// Signup.
	rec := srv.do(t, http.MethodPost, "/auth/signup",
		`{"email":"a@x.com","username":"alice01","password":"Passw0rd"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(srv.mailer.tokens) != 1 {
		t.Fatalf("expected 1 verification mail, got %d", len(srv.mailer.tokens))
	}

	// Duplicate signup conflicts.
	rec = srv.do(t, http.MethodPost, "/auth/signup",
		`{"email":"a@x.com","username":"other02","password":"Passw0rd"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup: expected 409, got %d", rec.Code)
	}

	// Login before verification is rejected.
	rec = srv.do(t, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"Passw0rd"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unverified login: expected 401, got %d", rec.Code)
	}

	// Verify via the mailed token; the browser is sent back to login.
	rec = srv.do(t, http.MethodGet, "/auth/verify-email?token="+srv.mailer.tokens[0], "", "")
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("verify: expected 307, got %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "verified=true") {
		t.Fatalf("unexpected redirect: %s", loc)
	}

	// Login now succeeds.
	rec = srv.do(t, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"Passw0rd"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	token, _ := decode(t, rec)["access_token"].(string)
	if token == "" {
		t.Fatal("expected an access token")
	}

	// Authenticated profile.
	rec = srv.do(t, http.MethodGet, "/users/me", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	me := decode(t, rec)
	if me["username"] != "alice01" || me["is_verified"] != true {
		t.Fatalf("unexpected profile: %v", me)
	}

	// Without a token the route is closed.
	rec = srv.do(t, http.MethodGet, "/users/me", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me without token: expected 401, got %d", rec.Code)
	}

	// Public profile by username.
	rec = srv.do(t, http.MethodGet, "/users/profile/alice01", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", rec.Code)
	}

	// Availability probe before claiming.
	rec = srv.do(t, http.MethodGet, "/subdomains/check/mysite", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("check: expected 200, got %d", rec.Code)
	}
	if avail := decode(t, rec); avail["available"] != true {
		t.Fatalf("expected mysite to be available: %v", avail)
	}

	// Claim it.
	rec = srv.do(t, http.MethodPost, "/subdomains/", `{"subdomain":"MySite"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("claim: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	claimed := decode(t, rec)
	if claimed["subdomain"] != "mysite" {
		t.Fatalf("expected lowercased name, got %v", claimed["subdomain"])
	}
	if claimed["full_url"] != "https://mysite.myluminarasystem.pro" {
		t.Fatalf("unexpected full_url: %v", claimed["full_url"])
	}

	// Second claim for the same user conflicts.
	rec = srv.do(t, http.MethodPost, "/subdomains/", `{"subdomain":"another"}`, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second claim: expected 409, got %d", rec.Code)
	}

	// Reserved and malformed names are 400.
	for _, name := range []string{"api", "ab", "-abc"} {
		rec = srv.do(t, http.MethodPost, "/subdomains/", `{"subdomain":"`+name+`"}`, token)
		if rec.Code != http.StatusConflict && rec.Code != http.StatusBadRequest {
			t.Fatalf("claim %q: expected 4xx, got %d", name, rec.Code)
		}
	}

	// The probe now reports the name taken, case-insensitively.
	rec = srv.do(t, http.MethodGet, "/subdomains/check/MYSITE", "", "")
	if avail := decode(t, rec); avail["available"] != false {
		t.Fatalf("expected mysite to be taken: %v", avail)
	}

	// Admin token: issued once, plaintext never repeated.
	rec = srv.do(t, http.MethodPost, "/subdomains/my/admin-token", "", token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin token: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	first := decode(t, rec)["token"].(string)
	rec = srv.do(t, http.MethodPost, "/subdomains/my/admin-token", "", token)
	second := decode(t, rec)["token"].(string)
	if first == "" || first == second {
		t.Fatal("expected distinct one-time admin tokens")
	}

	// Rename and release.
	rec = srv.do(t, http.MethodPut, "/subdomains/my", `{"subdomain":"newsite"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("rename: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = srv.do(t, http.MethodDelete, "/subdomains/my", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete subdomain: expected 200, got %d", rec.Code)
	}

	// Tenant detection on the root route.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "somesite.myluminarasystem.pro"
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("tenant root: expected 200, got %d", rr.Code)
	}
	var site map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &site); err != nil {
		t.Fatalf("bad site body: %v", err)
	}
	if site["type"] != "user_site" || site["subdomain"] != "somesite" {
		t.Fatalf("unexpected tenant payload: %v", site)
	}

	// Liveness is static; readiness degrades because Redis is unreachable.
	rec = srv.do(t, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	rec = srv.do(t, http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readiness: expected 503 with Redis down, got %d", rec.Code)
	}

	// Metrics endpoint is exposed.
	rec = srv.do(t, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "luminara") {
		t.Fatalf("metrics: expected 200 with luminara namespace, got %d", rec.Code)
	}

	// Account deletion closes the loop.
	rec = srv.do(t, http.MethodDelete, "/users/me", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete account: expected 200, got %d", rec.Code)
	}
	rec = srv.do(t, http.MethodGet, "/users/me", "", token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after delete: expected 401, got %d", rec.Code)
	}
}

var _ ports.Mailer = (*capturingMailer)(nil)
var _ ports.StateStore = (*memoryStateStore)(nil)

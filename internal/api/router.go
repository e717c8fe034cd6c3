package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/luminara-systems/platform-api/internal/api/handler"
	"github.com/luminara-systems/platform-api/internal/api/middleware"
	"github.com/luminara-systems/platform-api/internal/core/domain"
	"github.com/luminara-systems/platform-api/internal/core/ports"
)

const apiVersion = "1.0.0"

// Deps carries everything the router needs; all collaborators are constructed
// in main and injected.
type Deps struct {
	Accounts   ports.AccountService
	Subdomains ports.SubdomainService
	Tokens     ports.TokenService
	Users      ports.UserRepository

	DB    *gorm.DB
	Redis *redis.Client

	BaseURL    string
	RootDomain string
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{
			deps.BaseURL,
			"https://*." + deps.RootDomain,
			"http://localhost:3000", // dev frontends
			"http://localhost:5173",
		},
		AllowCredentials: true,
	}))
	e.Use(middleware.Tenant(deps.RootDomain))
	e.Use(echoprometheus.NewMiddleware("luminara"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Accounts, deps.BaseURL)
	userHandler := handler.NewUserHandler(deps.Accounts)
	subdomainHandler := handler.NewSubdomainHandler(deps.Subdomains)
	siteHandler := handler.NewSiteHandler(apiVersion)
	authRequired := middleware.Auth(deps.Tokens, deps.Users)

	// --- Root + observability ---
	e.GET("/", siteHandler.Root)
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.GET("/verify-email", authHandler.VerifyEmail)
	auth.POST("/resend-verification", authHandler.ResendVerification)
	auth.GET("/github", authHandler.OAuthAuthorize(domain.ProviderGitHub))
	auth.GET("/github/callback", authHandler.OAuthCallback(domain.ProviderGitHub))
	auth.GET("/discord", authHandler.OAuthAuthorize(domain.ProviderDiscord))
	auth.GET("/discord/callback", authHandler.OAuthCallback(domain.ProviderDiscord))

	// --- User routes ---
	users := e.Group("/users")
	users.GET("/me", userHandler.Me, authRequired)
	users.GET("/profile/:username", userHandler.Profile)
	users.PUT("/me", userHandler.Update, authRequired)
	users.DELETE("/me", userHandler.Delete, authRequired)

	// --- Subdomain routes ---
	subdomains := e.Group("/subdomains")
	subdomains.POST("", subdomainHandler.Create, authRequired)
	subdomains.POST("/", subdomainHandler.Create, authRequired)
	subdomains.GET("/my", subdomainHandler.Mine, authRequired)
	subdomains.GET("/check/:name", subdomainHandler.Check)
	subdomains.PUT("/my", subdomainHandler.Rename, authRequired)
	subdomains.DELETE("/my", subdomainHandler.Delete, authRequired)
	subdomains.POST("/my/admin-token", subdomainHandler.IssueAdminToken, authRequired)

	return e
}

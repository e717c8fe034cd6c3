package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luminara-systems/platform-api/internal/api"
	"github.com/luminara-systems/platform-api/internal/core/ports"
	"github.com/luminara-systems/platform-api/internal/core/service"
	"github.com/luminara-systems/platform-api/internal/infrastructure/config"
	"github.com/luminara-systems/platform-api/internal/infrastructure/db/postgres"
	redisdb "github.com/luminara-systems/platform-api/internal/infrastructure/db/redis"
	"github.com/luminara-systems/platform-api/internal/infrastructure/mail"
	"github.com/luminara-systems/platform-api/internal/infrastructure/oauth"
	"github.com/luminara-systems/platform-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET is not set; set a strong secret in production")
	}

	ctx := context.Background()

	db, err := postgres.Connect(postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	verificationRepo := postgres.NewVerificationRepository(db)
	subdomainRepo := postgres.NewSubdomainRepository(db)

	// Collaborators
	mailer := mail.NewMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		BaseURL:  cfg.BaseURL,
	})
	providers := []ports.OAuthProvider{
		oauth.NewGitHub(cfg.GitHub.ClientID, cfg.GitHub.ClientSecret, cfg.BaseURL),
		oauth.NewDiscord(cfg.Discord.ClientID, cfg.Discord.ClientSecret, cfg.BaseURL),
	}
	states := redisdb.NewStateStore(rdb)

	// Services
	tokenService := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	accountService := service.NewAccountService(
		userRepo, verificationRepo, tokenService, mailer, providers, states, log)
	subdomainService := service.NewSubdomainService(subdomainRepo, cfg.RootDomain, log)

	e := api.NewRouter(api.Deps{
		Accounts:   accountService,
		Subdomains: subdomainService,
		Tokens:     tokenService,
		Users:      userRepo,
		DB:         db,
		Redis:      rdb,
		BaseURL:    cfg.BaseURL,
		RootDomain: cfg.RootDomain,
		Log:        log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

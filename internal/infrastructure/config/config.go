package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// BaseURL is the public origin used in mail links and OAuth redirects.
	BaseURL string `env:"BASE_URL, default=https://myluminarasystem.pro"`
	// RootDomain is the shared root under which subdomains are allocated.
	RootDomain string `env:"ROOT_DOMAIN, default=myluminarasystem.pro"`

	JWT      JWTConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	GitHub   OAuthAppConfig
	Discord  DiscordAppConfig
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_TTL, default=30m"`
}

type PostgresConfig struct {
	DSN string `env:"DATABASE_DSN, default=host=localhost user=luminara password=luminara dbname=luminara port=5432 sslmode=disable"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_SERVER, default=smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT,   default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"FROM_EMAIL"`
}

type OAuthAppConfig struct {
	ClientID     string `env:"GITHUB_CLIENT_ID"`
	ClientSecret string `env:"GITHUB_CLIENT_SECRET"`
}

type DiscordAppConfig struct {
	ClientID     string `env:"DISCORD_CLIENT_ID"`
	ClientSecret string `env:"DISCORD_CLIENT_SECRET"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

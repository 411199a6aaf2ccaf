package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// EnvDevelopment marks local-development configuration; it is the only
// environment allowed to disable the secure flag on auth cookies.
const EnvDevelopment = "development"

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// AuthConfig carries token signing material and cookie policy. Access and
// refresh tokens are signed with separate secrets.
type AuthConfig struct {
	AccessSecret  string        `env:"ACCESS_TOKEN_SECRET"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshSecret string        `env:"REFRESH_TOKEN_SECRET"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
	CookieSecure  bool          `env:"COOKIE_SECURE,     default=true"`
	CookieDomain  string        `env:"COOKIE_DOMAIN"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=farmconnect"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// CookieSecureFlag resolves the effective secure flag: on everywhere except
// explicitly-marked development.
func (c *Config) CookieSecureFlag() bool {
	if c.Env == EnvDevelopment {
		return false
	}
	return c.Auth.CookieSecure
}

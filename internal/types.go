package internal

import (
	"fmt"
	"time"
)

const (
	BackendFile = "file"
	BackendJWT  = "jwt"
	BackendSQL  = "sql"
)

type Settings struct {
	TESTING bool `env:"TESTING"`

	HTTP_ADDR string `env:"HTTP_ADDR,default=:8080"`
	// Peers allowed to set X-Forwarded-For. Comma separated
	TRUSTED_PROXIES []string `env:"TRUSTED_PROXIES"`

	// One of file, jwt, sql
	TOKEN_BACKEND      string        `env:"TOKEN_BACKEND,default=file"`
	TOKENS_FILE        string        `env:"TOKENS_FILE,default=./tokens.toml"`
	CONFIG_RELOAD_TIME time.Duration `env:"CONFIG_RELOAD_TIME,default=5s"`
	JWT_SECRET         string        `env:"JWT_SECRET"`
	JWT_ISSUER         string        `env:"JWT_ISSUER"`
	DB_PATH            string        `env:"DB_PATH,default=./tokens.db"`

	SENTRY_DSN              string `env:"SENTRY_DSN"`
	SENTRY_ENVIRONMENT      string `env:"SENTRY_ENVIRONMENT,default=production"`
	SENTRY_SEND_DEFAULT_PII bool   `env:"SENTRY_SEND_DEFAULT_PII"`
	SENTRY_DEBUG            bool   `env:"SENTRY_DEBUG"`
}

// Validate checks the settings that depend on each other
func (s Settings) Validate() error {
	switch s.TOKEN_BACKEND {
	case BackendFile:
		if s.TOKENS_FILE == "" {
			return fmt.Errorf("TOKENS_FILE is required for the %q backend", s.TOKEN_BACKEND)
		}
		if s.CONFIG_RELOAD_TIME <= 0 {
			return fmt.Errorf("CONFIG_RELOAD_TIME must be positive, got %s", s.CONFIG_RELOAD_TIME)
		}
	case BackendJWT:
		if s.JWT_SECRET == "" {
			return fmt.Errorf("JWT_SECRET is required for the %q backend", s.TOKEN_BACKEND)
		}
	case BackendSQL:
		if s.DB_PATH == "" {
			return fmt.Errorf("DB_PATH is required for the %q backend", s.TOKEN_BACKEND)
		}
	default:
		return fmt.Errorf("unknown TOKEN_BACKEND %q", s.TOKEN_BACKEND)
	}

	return nil
}

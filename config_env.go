package portalauth

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envOverrides maps deploy-time environment variables onto Config. Only the
// secret material is required; everything else falls back to the defaults.
type envOverrides struct {
	Secret          string        `env:"PORTALAUTH_SECRET,required"`
	SharedPassword  string        `env:"PORTALAUTH_SHARED_PASSWORD,required"`
	AllowedEmails   []string      `env:"PORTALAUTH_ALLOWED_EMAILS" envSeparator:","`
	AllowedDomains  []string      `env:"PORTALAUTH_ALLOWED_DOMAINS" envSeparator:","`
	SessionTTL      time.Duration `env:"PORTALAUTH_SESSION_TTL"`
	HandoffTTL      time.Duration `env:"PORTALAUTH_HANDOFF_TTL"`
	MaxAttempts     int           `env:"PORTALAUTH_MAX_LOGIN_ATTEMPTS"`
	LockoutDuration time.Duration `env:"PORTALAUTH_LOCKOUT_DURATION"`
	RedisPrefix     string        `env:"PORTALAUTH_REDIS_PREFIX"`
}

// ConfigFromEnv builds a Config from the default configuration overlaid with
// PORTALAUTH_* environment variables. The signing secret and shared password
// have no default and must be set.
func ConfigFromEnv() (Config, error) {
	var raw envOverrides
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg := defaultConfig()
	cfg.Token.Secret = []byte(raw.Secret)
	cfg.Credentials.SharedPassword = raw.SharedPassword

	if len(raw.AllowedEmails) > 0 {
		cfg.Credentials.AllowedEmails = raw.AllowedEmails
	}
	if len(raw.AllowedDomains) > 0 {
		cfg.Credentials.AllowedDomains = raw.AllowedDomains
	}
	if raw.SessionTTL > 0 {
		cfg.Token.SessionTTL = raw.SessionTTL
	}
	if raw.HandoffTTL > 0 {
		cfg.Token.HandoffTTL = raw.HandoffTTL
	}
	if raw.MaxAttempts > 0 {
		cfg.Lockout.MaxAttempts = raw.MaxAttempts
	}
	if raw.LockoutDuration > 0 {
		cfg.Lockout.Duration = raw.LockoutDuration
	}
	if raw.RedisPrefix != "" {
		cfg.Storage.RedisPrefix = raw.RedisPrefix
	}

	return cfg, cfg.Validate()
}

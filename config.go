package portalauth

import (
	"errors"
	"time"
)

// Config defines the full configuration tree for the portal auth engine.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	Credentials CredentialsConfig
	Token       TokenConfig
	Lockout     LockoutConfig
	Storage     StorageConfig
	Audit       AuditConfig
	Metrics     MetricsConfig
}

/*
====================================
CREDENTIALS CONFIG
====================================
*/

// CredentialsConfig holds the employee allow-list and the shared password.
//
// The single shared password (rather than per-user credentials) is the
// portal's deliberate model; see DESIGN.md.
type CredentialsConfig struct {
	// SharedPassword is the one password accepted for every allow-listed
	// email. Injected at deploy time, never compiled in.
	SharedPassword string
	// AllowedEmails is the explicit employee allow-list. Entries are
	// normalized (lower-cased, trimmed) at build time.
	AllowedEmails []string
	// AllowedDomains is a domain-level allow-list kept for future use.
	// It is only consulted when EnforceDomainAllowList is true; the explicit
	// email list is the active policy.
	AllowedDomains         []string
	EnforceDomainAllowList bool
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig holds the signing secret and per-kind token lifetimes.
type TokenConfig struct {
	// Secret is the symmetric HMAC signing key shared with the FAQ service.
	Secret []byte
	// SessionTTL bounds the persisted session token (default 24h).
	SessionTTL time.Duration
	// HandoffTTL bounds the cross-service FAQ token (default 1h).
	HandoffTTL time.Duration
}

/*
====================================
LOCKOUT CONFIG
====================================
*/

// LockoutConfig tunes the consecutive-failure lockout policy.
type LockoutConfig struct {
	// MaxAttempts is the failure count that trips the lockout (default 10).
	MaxAttempts int
	// Duration is how long a tripped lockout holds (default 5m).
	Duration time.Duration
}

/*
====================================
STORAGE CONFIG
====================================
*/

// StorageConfig names the fixed keys in the persisted key/value store.
type StorageConfig struct {
	// SessionKey holds the sole persisted session token.
	SessionKey string
	// AttemptsKey holds the login attempt record.
	AttemptsKey string
	// PreferencePrefix prefixes the per-user preference key derived from the
	// normalized email.
	PreferencePrefix string
	// RedisPrefix namespaces every key when the engine is built with
	// [Builder.WithRedis].
	RedisPrefix string
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics system.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Credentials: CredentialsConfig{
			AllowedEmails: []string{
				"admin@waseaca.com",
				"teacher@waseaca.com",
				"staff@waseaca.com",
				"mizobata.y@waseaca.com",
				"test@waseaca.com",
				"demo@example.com",
			},
			AllowedDomains:         []string{"waseaca.com", "waseaca.jp"},
			EnforceDomainAllowList: false,
		},
		Token: TokenConfig{
			SessionTTL: 24 * time.Hour,
			HandoffTTL: time.Hour,
		},
		Lockout: LockoutConfig{
			MaxAttempts: 10,
			Duration:    5 * time.Minute,
		},
		Storage: StorageConfig{
			SessionKey:       "waseaca_auth",
			AttemptsKey:      "waseaca_login_attempts",
			PreferencePrefix: "waseaca_prefs_",
			RedisPrefix:      "wa",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// DefaultConfig returns the stock portal configuration. The signing secret
// and shared password are intentionally absent and must be supplied before
// Build.
func DefaultConfig() Config {
	return defaultConfig()
}

// HardenedConfig returns a stricter preset: shorter token lifetimes, a lower
// failure cap with a longer lockout, domain enforcement, and observability
// switched on. Secret material must still be supplied before Build.
func HardenedConfig() Config {
	cfg := defaultConfig()
	cfg.Token.SessionTTL = 8 * time.Hour
	cfg.Token.HandoffTTL = 15 * time.Minute
	cfg.Lockout.MaxAttempts = 5
	cfg.Lockout.Duration = 15 * time.Minute
	cfg.Credentials.EnforceDomainAllowList = true
	cfg.Audit.Enabled = true
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true
	return cfg
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.Secret = cloneBytes(cfg.Token.Secret)
	out.Credentials.AllowedEmails = cloneStrings(cfg.Credentials.AllowedEmails)
	out.Credentials.AllowedDomains = cloneStrings(cfg.Credentials.AllowedDomains)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration for internal consistency. It is called
// by [Builder.Build] and may be called directly.
func (c *Config) Validate() error {
	if len(c.Token.Secret) == 0 {
		return errors.New("token signing secret required")
	}
	if c.Token.SessionTTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	if c.Token.HandoffTTL <= 0 {
		return errors.New("handoff TTL must be positive")
	}
	if c.Token.HandoffTTL > c.Token.SessionTTL {
		return errors.New("handoff TTL must not exceed session TTL")
	}

	if c.Credentials.SharedPassword == "" {
		return errors.New("shared password required")
	}
	if len(c.Credentials.AllowedEmails) == 0 && !c.Credentials.EnforceDomainAllowList {
		return errors.New("allow-list empty and domain enforcement disabled")
	}
	if c.Credentials.EnforceDomainAllowList && len(c.Credentials.AllowedDomains) == 0 {
		return errors.New("domain enforcement enabled with no domains")
	}

	if c.Lockout.MaxAttempts <= 0 {
		return errors.New("lockout max attempts must be positive")
	}
	if c.Lockout.Duration <= 0 {
		return errors.New("lockout duration must be positive")
	}

	if c.Storage.SessionKey == "" || c.Storage.AttemptsKey == "" {
		return errors.New("storage keys required")
	}
	if c.Storage.PreferencePrefix == "" {
		return errors.New("preference prefix required")
	}
	if c.Storage.SessionKey == c.Storage.AttemptsKey {
		return errors.New("session and attempts keys must differ")
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive")
	}

	return nil
}

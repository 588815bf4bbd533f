package portalauth

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/waseaca/portalauth/store"
	"github.com/waseaca/portalauth/token"
)

// Builder assembles an [Engine] from a Config and an injected key/value
// store. A Builder is single-use.
type Builder struct {
	config    Config
	kv        store.KV
	redis     redis.UniversalClient
	clock     Clock
	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore injects the persisted key/value store the engine operates on.
func (b *Builder) WithStore(kv store.KV) *Builder {
	b.kv = kv
	return b
}

// WithRedis backs the engine with a Redis store, namespaced by
// Storage.RedisPrefix. Ignored when WithStore was also called.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithClock overrides the time source used for token expiry and lockout
// windows.
func (b *Builder) WithClock(clock Clock) *Builder {
	b.clock = clock
	return b
}

// WithAuditSink sets the sink receiving audit events. Only consulted when
// Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process metrics system.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the verification latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	kv := b.kv
	if kv == nil && b.redis != nil {
		kv = store.NewRedis(b.redis, cfg.Storage.RedisPrefix)
	}
	if kv == nil {
		return nil, errors.New("key/value store required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clock := b.clock
	if clock == nil {
		clock = systemClock{}
	}

	tokens, err := token.NewManager(token.Config{
		Secret:     cloneBytes(cfg.Token.Secret),
		SessionTTL: cfg.Token.SessionTTL,
		HandoffTTL: cfg.Token.HandoffTTL,
		Now:        clock.Now,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:      cfg,
		kv:          kv,
		clock:       clock,
		credentials: newCredentialValidator(cfg.Credentials),
		attempts:    newAttemptLimiter(kv, clock, cfg.Lockout, cfg.Storage.AttemptsKey),
		tokens:      tokens,
		preferences: newPreferenceStore(kv, cfg.Storage.PreferencePrefix),
		audit:       newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:     NewMetrics(cfg.Metrics),
	}
	engine.sessions = newSessionManager(kv, tokens, cfg.Storage)

	b.built = true

	return engine, nil
}
